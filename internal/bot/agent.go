package bot

import (
	"piquet/internal/app"
	"piquet/internal/domain"
)

// Agent represents an autonomous bot player seated at a table.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent wires an identity to a strategy of the given level.
func NewAgent(id, name string, level BotLevel) (*Agent, error) {
	strategy, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: id, Name: name, Strategy: strategy}, nil
}

// Act performs the agent's next pending action on the table: its exchange
// during the dealt stage, otherwise a lead or a follow. The caller is
// responsible for only calling when the agent is the current actor.
func (a *Agent) Act(svc *app.Service, table *app.Table) ([]app.Event, error) {
	v, err := a.view(table)
	if err != nil {
		return nil, err
	}

	if table.Deal.Phase() == domain.PhaseDealt {
		return svc.ExchangeCards(table, a.ID, a.Strategy.ChooseDiscards(v))
	}
	if v.Lead != nil {
		return svc.PlayCard(table, a.ID, a.Strategy.ChooseFollow(v))
	}
	return svc.PlayCard(table, a.ID, a.Strategy.ChooseLead(v))
}

// OnTableEvent forwards an event to the strategy when the agent is among
// its recipients. Broadcast events always pass through.
func (a *Agent) OnTableEvent(ev app.Event) {
	if len(ev.Recipients) > 0 {
		mine := false
		for _, r := range ev.Recipients {
			if r == a.ID {
				mine = true
				break
			}
		}
		if !mine {
			return
		}
	}
	a.Strategy.OnEvent(ev)
}

func (a *Agent) view(table *app.Table) (View, error) {
	p, err := table.Player(a.ID)
	if err != nil {
		return View{}, err
	}
	opp := table.Deal.Opponent(p)

	v := View{
		Hand:      p.Hand.Cards(),
		StockLen:  table.Deal.StockLen(),
		MyScore:   table.Deal.Score(a.ID),
		OppScore:  table.Deal.Score(opp.UserID),
		MyTricks:  table.Deal.Tricks(a.ID),
		OppTricks: table.Deal.Tricks(opp.UserID),
	}
	if table.PendingLead != nil && table.PendingLead.Player != p {
		card := table.PendingLead.Card
		v.Lead = &card
	}
	return v, nil
}
