package main

import (
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"piquet/internal/app"
	"piquet/internal/domain"
)

// renderEvent prints a verbose trace line or panel for one table event.
func renderEvent(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.PartieStartedPayload:
		pterm.Info.Printfln("partie started, %s deals first", p.DealerUserID)
	case app.DealStartedPayload:
		pterm.DefaultSection.Printfln("Deal %d — elder %s", p.DealIndex+1, p.ElderUserID)
	case app.HandDealtPayload:
		pterm.Printf("%s: %s\n", pterm.LightCyan(p.UserID), handString(p.Hand))
	case app.CarteBlanchePayload:
		pterm.Printf("%s declares carte blanche for %d\n", p.UserID, p.Bonus)
	case app.CardsExchangedPayload:
		pterm.Printf("%s exchanges %d\n", p.UserID, p.Count)
	case app.DeclarationsScoredPayload:
		renderDeclarations(p)
	case app.TrickPlayedPayload:
		marker := ""
		if p.Capot {
			marker = " " + pterm.LightRed("capot")
		}
		pterm.Printf("%s %s / %s %s -> %s%s\n",
			p.LeadUserID, p.LeadCard.Code(), p.FollowUserID, p.FollowCard.Code(),
			pterm.LightGreen(p.WinnerUserID), marker)
	case app.DealEndedPayload:
		pterm.Printf("deal %d scores: %s (cumulative %s)\n",
			p.DealIndex+1, scoreString(p.Scores), scoreString(p.Cumulative))
	case app.PartieEndedPayload:
		box := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
		body := pterm.Sprintfln("%s wins the partie", pterm.LightCyan(p.WinnerUserID)) +
			pterm.Sprintfln("final score %d, cumulative %s", p.FinalScore, scoreString(p.Cumulative))
		pterm.Println(box.WithTitle(pterm.LightGreen("|PARTIE OVER|")).WithTitleTopCenter().Sprint(body))
	}
}

func renderDeclarations(p app.DeclarationsScoredPayload) {
	for _, d := range p.Declarations {
		winner := d.WinnerUserID
		if winner == "" {
			winner = "nobody"
		}
		pterm.Printf("%-9s %s: %s (%d)\n", d.Category, winner, d.Announcement, d.Points)
	}
	if p.RepiqueUserID != "" {
		pterm.Printf("%s scores a repique\n", pterm.LightRed(p.RepiqueUserID))
	}
	pterm.Printf("scores after declarations: %s\n", scoreString(p.Scores))
}

func handString(hand []domain.Card) string {
	codes := make([]string, len(hand))
	for i, c := range hand {
		codes[i] = c.Code()
	}
	return strings.Join(codes, " ")
}

func scoreString(scores map[string]int) string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = pterm.Sprintf("%s %d", id, scores[id])
	}
	return strings.Join(parts, ", ")
}
