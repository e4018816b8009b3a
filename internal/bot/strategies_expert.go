package bot

import (
	"piquet/internal/app"
	"piquet/internal/bot/brain"
	"piquet/internal/domain"
)

// ExpertBot layers card counting on top of the smart strategy. It tracks
// every card seen on the table, leads bosses when it has them, steers leads
// into suits the opponent has shown void, and when it must lose a trick it
// throws the card most likely to lose one anyway.
type ExpertBot struct {
	SmartBot

	userID string
	memory *brain.CardMemory
}

// NewExpertBot constructs an expert strategy with fresh memory.
func NewExpertBot() *ExpertBot {
	return &ExpertBot{memory: brain.NewMemory()}
}

func (b *ExpertBot) ChooseLead(v View) domain.Card {
	// A boss lead is a guaranteed point; spend the lowest one.
	var boss *domain.Card
	for i := range v.Hand {
		c := v.Hand[i]
		if !b.memory.IsBoss(c) {
			continue
		}
		if boss == nil || c.Rank < boss.Rank {
			boss = &v.Hand[i]
		}
	}
	if boss != nil {
		return *boss
	}

	// No boss: lead into a suit the opponent cannot follow, where any card
	// wins the trick.
	for _, g := range suitGroups(v.Hand) {
		if b.memory.OpponentVoid(g[0].Suit) {
			return g[0]
		}
	}

	return b.SmartBot.ChooseLead(v)
}

func (b *ExpertBot) ChooseFollow(v View) domain.Card {
	if winner, ok := cheapestWinner(v.Hand, *v.Lead); ok {
		return winner
	}

	// Can't win. Prefer voiding a short suit whose remaining cards are
	// dominated, so later leads stay with the bosses.
	var worst *domain.Card
	for i := range v.Hand {
		c := v.Hand[i]
		if b.memory.IsBoss(c) {
			continue
		}
		if worst == nil || b.memory.UnseenAbove(c) > b.memory.UnseenAbove(*worst) ||
			(b.memory.UnseenAbove(c) == b.memory.UnseenAbove(*worst) && c.Rank < worst.Rank) {
			worst = &v.Hand[i]
		}
	}
	if worst != nil {
		return *worst
	}
	return b.SmartBot.ChooseFollow(v)
}

func (b *ExpertBot) OnEvent(event interface{}) {
	ev, ok := event.(app.Event)
	if !ok {
		return
	}

	switch payload := ev.Payload.(type) {
	case app.DealStartedPayload:
		b.memory.Reset()
	case app.HandDealtPayload:
		// Hands are delivered privately, so a hand that reaches this
		// strategy is its own.
		b.userID = payload.UserID
		b.memory.UpdateHand(payload.Hand)
	case app.CardLedPayload:
		if payload.UserID != b.userID {
			b.memory.MarkPlayed(payload.Card)
		}
	case app.TrickPlayedPayload:
		b.memory.MarkPlayed(payload.LeadCard, payload.FollowCard)
		if payload.FollowUserID != b.userID {
			b.memory.RecordFollow(payload.LeadCard, payload.FollowCard)
		}
	}
}
