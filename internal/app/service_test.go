package app

import (
	"errors"
	"math/rand"
	"testing"

	"piquet/internal/domain"
)

func startTestPartie(t *testing.T, deals int) (*Service, *Table, []Event) {
	t.Helper()
	svc := NewService(rand.New(rand.NewSource(1)))
	table, events, err := svc.StartPartie([2]string{"alice", "bob"}, deals, 10)
	if err != nil {
		t.Fatalf("StartPartie: %v", err)
	}
	return svc, table, events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestStartPartie(t *testing.T) {
	_, table, events := startTestPartie(t, 1)

	if events[0].Kind != EventPartieStarted {
		t.Errorf("first event = %s, want partie_started", events[0].Kind)
	}
	if countKind(events, EventDealStarted) != 1 {
		t.Errorf("events = %v, want one deal_started", kinds(events))
	}
	if countKind(events, EventHandDealt) != 2 {
		t.Errorf("events = %v, want two hand_dealt", kinds(events))
	}
	for _, ev := range events {
		if ev.Kind == EventHandDealt {
			p := ev.Payload.(HandDealtPayload)
			if len(ev.Recipients) != 1 || ev.Recipients[0] != p.UserID {
				t.Errorf("hand for %s targeted at %v, hands must be private", p.UserID, ev.Recipients)
			}
			if len(p.Hand) != domain.HandSize {
				t.Errorf("hand size = %d, want %d", len(p.Hand), domain.HandSize)
			}
		}
	}

	if actor := table.CurrentActor(); actor != table.Deal.Elder().UserID {
		t.Errorf("first actor = %s, want the elder", actor)
	}
}

func TestStartPartieValidation(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	if _, _, err := svc.StartPartie([2]string{"alice", "alice"}, 1, 10); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("duplicate ids error = %v, want ErrTooFewPlayers", err)
	}
	if _, _, err := svc.StartPartie([2]string{"alice", ""}, 1, 10); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("empty id error = %v, want ErrTooFewPlayers", err)
	}
}

func TestExchangeOrderAndDeclarations(t *testing.T) {
	svc, table, _ := startTestPartie(t, 1)
	elder := table.Deal.Elder().UserID
	younger := table.Deal.Younger().UserID

	if _, err := svc.ExchangeCards(table, younger, nil); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("younger first error = %v, want ErrNotYourTurn", err)
	}
	if _, err := svc.PlayCard(table, elder, domain.Card{Rank: domain.Ace, Suit: domain.Spades}); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("play before declarations error = %v, want ErrNotPlaying", err)
	}

	events, err := svc.ExchangeCards(table, elder, nil)
	if err != nil {
		t.Fatalf("elder exchange: %v", err)
	}
	if countKind(events, EventDeclarationsScored) != 0 {
		t.Error("declarations must wait for both exchanges")
	}
	if _, err := svc.ExchangeCards(table, elder, nil); !errors.Is(err, ErrAlreadyExchanged) {
		t.Errorf("second elder exchange error = %v, want ErrAlreadyExchanged", err)
	}

	events, err = svc.ExchangeCards(table, younger, nil)
	if err != nil {
		t.Fatalf("younger exchange: %v", err)
	}
	if countKind(events, EventDeclarationsScored) != 1 {
		t.Errorf("events = %v, want declarations_scored after both exchanges", kinds(events))
	}
	if table.Deal.Phase() != domain.PhaseDeclared {
		t.Errorf("phase = %s, want declared", table.Deal.Phase())
	}
	if actor := table.CurrentActor(); actor != elder {
		t.Errorf("first trick actor = %s, want elder %s", actor, elder)
	}
}

// playOut drives the table to completion with both sides always playing
// their first held card.
func playOut(t *testing.T, svc *Service, table *Table) []Event {
	t.Helper()
	var all []Event
	for guard := 0; !table.Finished && guard < 1000; guard++ {
		actor := table.CurrentActor()
		if actor == "" {
			t.Fatal("no actor while the table is unfinished")
		}
		p, err := table.Player(actor)
		if err != nil {
			t.Fatalf("Player(%s): %v", actor, err)
		}

		var events []Event
		if table.Deal.Phase() == domain.PhaseDealt {
			events, err = svc.ExchangeCards(table, actor, nil)
		} else {
			events, err = svc.PlayCard(table, actor, p.Hand.Cards()[0])
		}
		if err != nil {
			t.Fatalf("acting as %s: %v", actor, err)
		}
		all = append(all, events...)
	}
	if !table.Finished {
		t.Fatal("table did not finish")
	}
	return all
}

func TestFullPartieFlow(t *testing.T) {
	svc, table, _ := startTestPartie(t, 2)
	events := playOut(t, svc, table)

	if got := countKind(events, EventTrickPlayed); got != 2*domain.TotalTricks {
		t.Errorf("tricks played = %d, want %d", got, 2*domain.TotalTricks)
	}
	if got := countKind(events, EventDealEnded); got != 2 {
		t.Errorf("deals ended = %d, want 2", got)
	}
	if got := countKind(events, EventPartieEnded); got != 1 {
		t.Errorf("parties ended = %d, want 1", got)
	}

	last := events[len(events)-1]
	if last.Kind != EventPartieEnded {
		t.Fatalf("last event = %s, want partie_ended", last.Kind)
	}
	payload := last.Payload.(PartieEndedPayload)
	if payload.WinnerUserID == "" || payload.FinalScore < 100 {
		t.Errorf("payload = %+v, want a winner and a normalized score of at least 100", payload)
	}

	var sum int64
	for _, delta := range payload.BalanceChanges {
		sum += delta
	}
	if sum != 0 {
		t.Errorf("balance changes sum to %d, want a zero-sum settlement", sum)
	}
	if payload.BalanceChanges[payload.WinnerUserID] != int64(payload.FinalScore)*10 {
		t.Errorf("winner change = %d, want final score times stake", payload.BalanceChanges[payload.WinnerUserID])
	}

	if _, err := svc.PlayCard(table, payload.WinnerUserID, domain.Card{Rank: domain.Ace, Suit: domain.Spades}); !errors.Is(err, ErrPartieOver) {
		t.Errorf("play after partie end error = %v, want ErrPartieOver", err)
	}
}

func TestElderRotatesAcrossDeals(t *testing.T) {
	svc, table, _ := startTestPartie(t, 2)
	firstElder := table.Deal.Elder().UserID
	if firstElder != table.Partie.NonDealer().UserID {
		t.Errorf("deal 0 elder = %s, want the non-dealer", firstElder)
	}

	playOut(t, svc, table)

	// After the first deal completed, the second deal's elder is the dealer.
	if table.Deal.Elder().UserID != table.Partie.Dealer().UserID {
		t.Errorf("deal 1 elder = %s, want the dealer", table.Deal.Elder().UserID)
	}
}
