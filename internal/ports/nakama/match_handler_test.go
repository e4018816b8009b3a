package nakama

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"piquet/internal/app"
	"piquet/internal/bot"
	"piquet/internal/domain"
	"piquet/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})                 {}
func (noopLogger) Info(string, ...interface{})                  {}
func (noopLogger) Warn(string, ...interface{})                  {}
func (noopLogger) Error(string, ...interface{})                 {}
func (noopLogger) WithField(string, interface{}) runtime.Logger { return noopLogger{} }
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} { return nil }

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error { return nil }

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

type mockEconomy struct {
	updates []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return nil
}

// fakePresence satisfies runtime.Presence for seated humans.
type fakePresence struct {
	userID string
}

func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return "session-" + p.userID }
func (p fakePresence) GetNodeId() string                 { return "node" }
func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return true }
func (p fakePresence) GetUsername() string               { return p.userID }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }

// fakeMatchData is a client message from a seated human.
type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (m fakeMatchData) GetOpCode() int64      { return m.opCode }
func (m fakeMatchData) GetData() []byte       { return m.data }
func (m fakeMatchData) GetReliable() bool     { return true }
func (m fakeMatchData) GetReceiveTime() int64 { return 0 }

func TestMain(m *testing.M) {
	identities := []bot.BotIdentity{
		{UserID: "bot-easy", Username: "bot_easy", DisplayName: "Chevalier", Difficulty: "easy"},
		{UserID: "bot-hard", Username: "bot_hard", DisplayName: "Marquise", Difficulty: "hard"},
	}
	data, err := json.Marshal(identities)
	if err != nil {
		panic(err)
	}
	dir, err := os.MkdirTemp("", "piquet-bots")
	if err != nil {
		panic(err)
	}
	path := filepath.Join(dir, "bot_identities.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		panic(err)
	}
	if err := bot.LoadIdentities(path); err != nil {
		panic("failed to load bot identities for tests: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestFindFirstHumanSeat(t *testing.T) {
	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{"HumanAfterBot", []string{"bot-easy", "user-1"}, 1},
		{"AllBots", []string{"bot-easy", "bot-hard"}, -1},
		{"AllEmpty", []string{"", ""}, -1},
		{"HumanFirst", []string{"user-1", "bot-easy"}, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestMatchLabelString(t *testing.T) {
	label := MatchLabel{Open: 1, Game: "piquet", Phase: "lobby", Tier: "casual"}
	want := `{"open":1,"game":"piquet","phase":"lobby","tier":"casual"}`
	if got := label.String(); got != want {
		t.Errorf("label = %s, want %s", got, want)
	}
}

func TestEventOpCodesComplete(t *testing.T) {
	kinds := []app.EventKind{
		app.EventPartieStarted,
		app.EventDealStarted,
		app.EventHandDealt,
		app.EventCarteBlanche,
		app.EventCardsExchanged,
		app.EventDeclarationsScored,
		app.EventCardLed,
		app.EventTrickPlayed,
		app.EventDealEnded,
		app.EventPartieEnded,
	}
	for _, kind := range kinds {
		if _, ok := eventOpCodes[kind]; !ok {
			t.Errorf("event kind %s has no opcode", kind)
		}
	}
}

func TestProcessBotsAutoFill(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:                [app.PlayersPerTable]string{"user-1", ""},
		OwnerSeat:            0,
		Presences:            map[string]runtime.Presence{"user-1": fakePresence{"user-1"}},
		App:                  app.NewService(nil),
		Bots:                 make(map[string]*bot.Agent),
		BotsEnabled:          true,
		BotAutoFillDelay:     2,
		LastSinglePlayerTick: 8,
		Tick:                 10,
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	if state.GetOpenSeatsCount() != 0 {
		t.Fatalf("open seats = %d, want 0 after auto-fill", state.GetOpenSeatsCount())
	}
	if !bot.IsBot(state.Seats[1]) {
		t.Fatalf("seat 1 = %q, want a bot", state.Seats[1])
	}
	if len(state.Bots) != 1 {
		t.Fatalf("agents = %d, want 1", len(state.Bots))
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("auto-fill timer not reset: %d", state.LastSinglePlayerTick)
	}
	if dispatcher.broadcastCount == 0 || dispatcher.labelUpdates == 0 {
		t.Fatal("expected a snapshot broadcast and a label update after auto-fill")
	}
}

func TestProcessBotsWaitsForDelay(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:            [app.PlayersPerTable]string{"user-1", ""},
		Presences:        map[string]runtime.Presence{"user-1": fakePresence{"user-1"}},
		App:              app.NewService(nil),
		Bots:             make(map[string]*bot.Agent),
		BotsEnabled:      true,
		BotAutoFillDelay: 5,
		Tick:             10,
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	if state.LastSinglePlayerTick != 10 {
		t.Fatalf("timer start = %d, want current tick", state.LastSinglePlayerTick)
	}
	if state.GetOpenSeatsCount() != 1 {
		t.Fatal("a bot was seated before the delay elapsed")
	}
}

// TestHumanVersusBotPartie drives a complete partie through the handler:
// human messages through the message path, bot turns through processBots.
func TestHumanVersusBotPartie(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	economy := &mockEconomy{}

	agent, err := bot.NewAgent("bot-hard", "Marquise", bot.BotLevelExpert)
	if err != nil {
		t.Fatal(err)
	}
	state := &MatchState{
		Seats:       [app.PlayersPerTable]string{"user-1", "bot-hard"},
		OwnerSeat:   0,
		Presences:   map[string]runtime.Presence{"user-1": fakePresence{"user-1"}},
		App:         app.NewService(nil),
		Bots:        map[string]*bot.Agent{"bot-hard": agent},
		Economy:     economy,
		BotsEnabled: true,
		BotMinDelay: 1,
		BotMaxDelay: 1,
	}

	start := fakeMatchData{fakePresence: fakePresence{"user-1"}, opCode: OpStartPartie, data: []byte(`{"deals":2}`)}
	handler.handleStartPartie(context.Background(), state, dispatcher, noopLogger{}, start)
	if state.Table == nil {
		t.Fatal("partie did not start")
	}

	ctx := context.Background()
	for guard := 0; state.Table != nil && guard < 2000; guard++ {
		state.Tick++
		actor := state.Table.CurrentActor()
		if actor == "user-1" {
			player, err := state.Table.Player("user-1")
			if err != nil {
				t.Fatal(err)
			}
			var msg fakeMatchData
			if state.Table.Deal.Phase() == domain.PhaseDealt {
				msg = fakeMatchData{fakePresence: fakePresence{"user-1"}, opCode: OpExchangeCards, data: []byte(`{"cards":[]}`)}
				handler.handleExchangeCards(ctx, state, dispatcher, noopLogger{}, msg)
			} else {
				body, _ := json.Marshal(PlayCardRequest{Card: player.Hand.Cards()[0]})
				msg = fakeMatchData{fakePresence: fakePresence{"user-1"}, opCode: OpPlayCard, data: body}
				handler.handlePlayCard(ctx, state, dispatcher, noopLogger{}, msg)
			}
			continue
		}
		handler.processBots(ctx, state, dispatcher, noopLogger{})
	}

	if state.Table != nil {
		t.Fatal("partie did not finish")
	}
	if len(economy.updates) != 1 {
		t.Fatalf("wallet updates = %d, want 1 (bots are skipped)", len(economy.updates))
	}
	if economy.updates[0].UserID != "user-1" {
		t.Errorf("settled user = %s, want user-1", economy.updates[0].UserID)
	}
	if economy.updates[0].Amount == 0 {
		t.Error("settlement amount must be non-zero")
	}
}

func TestHandleStartPartieRejections(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:     [app.PlayersPerTable]string{"user-1", ""},
		OwnerSeat: 0,
		Presences: map[string]runtime.Presence{"user-1": fakePresence{"user-1"}},
		App:       app.NewService(nil),
		Bots:      make(map[string]*bot.Agent),
	}

	// An empty seat blocks the start.
	msg := fakeMatchData{fakePresence: fakePresence{"user-1"}, opCode: OpStartPartie}
	handler.handleStartPartie(context.Background(), state, dispatcher, noopLogger{}, msg)
	if state.Table != nil {
		t.Fatal("partie started with an open seat")
	}
	if dispatcher.lastOpCode != OpGameError {
		t.Errorf("last opcode = %d, want a game error", dispatcher.lastOpCode)
	}

	// A non-owner cannot start.
	state.Seats[1] = "user-2"
	state.Presences["user-2"] = fakePresence{"user-2"}
	msg = fakeMatchData{fakePresence: fakePresence{"user-2"}, opCode: OpStartPartie}
	handler.handleStartPartie(context.Background(), state, dispatcher, noopLogger{}, msg)
	if state.Table != nil {
		t.Fatal("partie started by a non-owner")
	}
}
