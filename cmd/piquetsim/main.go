package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"piquet/internal/app"
	"piquet/internal/bot"
)

// simResult aggregates outcomes across a batch of self-play parties.
type simResult struct {
	wins       map[string]int
	totalScore map[string]int
	parties    int
}

func main() {
	var (
		parties = flag.Int("parties", 10, "number of parties to play")
		deals   = flag.Int("deals", 6, "deals per partie")
		seed    = flag.Int64("seed", 1, "base RNG seed, incremented per partie")
		left    = flag.String("left", "smart", "left bot difficulty (easy, medium, hard)")
		right   = flag.String("right", "hard", "right bot difficulty (easy, medium, hard)")
		verbose = flag.Bool("v", false, "render every deal and trick")
	)
	flag.Parse()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("P", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("iquet", pterm.FgDarkGray.ToStyle()),
	).Render()

	leftLevel := bot.LevelFromDifficulty(*left)
	rightLevel := bot.LevelFromDifficulty(*right)
	pterm.Info.Printfln("%s (%s) vs %s (%s), %d parties of %d deals",
		leftName, *left, rightName, *right, *parties, *deals)

	res := simResult{wins: map[string]int{}, totalScore: map[string]int{}}
	for i := 0; i < *parties; i++ {
		outcome, err := playPartie(*seed+int64(i), *deals, leftLevel, rightLevel, *verbose)
		if err != nil {
			pterm.Error.Printfln("partie %d: %v", i+1, err)
			os.Exit(1)
		}
		res.parties++
		res.wins[outcome.WinnerUserID]++
		for id, score := range outcome.Cumulative {
			res.totalScore[id] += score
		}
		if !*verbose {
			pterm.Printf("partie %2d: %s wins, final score %d\n",
				i+1, pterm.LightCyan(outcome.WinnerUserID), outcome.FinalScore)
		}
	}

	renderSummary(res)
}

const (
	leftName  = "left"
	rightName = "right"
)

// playPartie runs one complete partie between two agents and returns the
// closing payload.
func playPartie(seed int64, deals int, left, right bot.BotLevel, verbose bool) (app.PartieEndedPayload, error) {
	svc := app.NewService(rand.New(rand.NewSource(seed)))

	agents := map[string]*bot.Agent{}
	for _, cfg := range []struct {
		id    string
		level bot.BotLevel
	}{{leftName, left}, {rightName, right}} {
		agent, err := bot.NewAgent(cfg.id, cfg.id, cfg.level)
		if err != nil {
			return app.PartieEndedPayload{}, err
		}
		agents[cfg.id] = agent
	}

	table, events, err := svc.StartPartie([2]string{leftName, rightName}, deals, 0)
	if err != nil {
		return app.PartieEndedPayload{}, err
	}

	var ended *app.PartieEndedPayload
	consume := func(evs []app.Event) {
		for _, ev := range evs {
			for _, a := range agents {
				a.OnTableEvent(ev)
			}
			if verbose {
				renderEvent(ev)
			}
			if p, ok := ev.Payload.(app.PartieEndedPayload); ok {
				ended = &p
			}
		}
	}
	consume(events)

	for guard := 0; !table.Finished; guard++ {
		if guard >= 2000 {
			return app.PartieEndedPayload{}, fmt.Errorf("partie stalled after %d actions", guard)
		}
		actor := table.CurrentActor()
		agent, ok := agents[actor]
		if !ok {
			return app.PartieEndedPayload{}, fmt.Errorf("unknown actor %q", actor)
		}
		evs, err := agent.Act(svc, table)
		if err != nil {
			return app.PartieEndedPayload{}, fmt.Errorf("agent %s: %w", actor, err)
		}
		consume(evs)
	}
	if ended == nil {
		return app.PartieEndedPayload{}, fmt.Errorf("partie finished without a closing event")
	}
	return *ended, nil
}

func renderSummary(res simResult) {
	pterm.Println()
	rows := pterm.TableData{{"Player", "Parties won", "Total points"}}
	for _, id := range []string{leftName, rightName} {
		rows = append(rows, []string{
			id,
			strconv.Itoa(res.wins[id]),
			strconv.Itoa(res.totalScore[id]),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(rows).Render()
	pterm.Success.Printfln("%d parties completed", res.parties)
}
