package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"piquet/internal/app"
	"piquet/internal/bot"
	"piquet/internal/config"
	"piquet/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one piquet table.
type MatchState struct {
	Seats     [app.PlayersPerTable]string `json:"seats"` // user ids, empty string means open
	OwnerSeat int                         `json:"owner_seat"`
	Tick      int64                       `json:"tick"`
	Tier      string                      `json:"tier"`
	Private   bool                        `json:"private"`

	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Table     *app.Table                  `json:"-"` // nil while in the lobby
	Bots      map[string]*bot.Agent       `json:"-"`
	Economy   ports.EconomyPort           `json:"-"`

	BotsEnabled          bool  `json:"bots_enabled"`
	BotMinDelay          int   `json:"bot_min_delay"`
	BotMaxDelay          int   `json:"bot_max_delay"`
	BotAutoFillDelay     int   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64 `json:"bot_wait_until"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// findFirstHumanSeat returns the first seat index with a human occupant or
// -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}

	state := &MatchState{
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
	}
	if tier, ok := params["tier"].(string); ok {
		state.Tier = tier
	}
	if private, ok := params["private"].(bool); ok {
		state.Private = private
	}

	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		state.BotsEnabled = env["piquet_bots_enabled"] == "true"
		if i, err := strconv.Atoi(env["piquet_bot_min_delay_sec"]); err == nil {
			state.BotMinDelay = i
		}
		if i, err := strconv.Atoi(env["piquet_bot_max_delay_sec"]); err == nil {
			state.BotMaxDelay = i
		}
	}
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	state.BotAutoFillDelay = 5
	if c := config.GetGameConfig(); c != nil && c.BotAutoFillDelaySeconds > 0 {
		state.BotAutoFillDelay = c.BotAutoFillDelaySeconds
	}

	tickRate := 1
	return state, tickRate, mh.label(state)
}

// MatchJoinAttempt gates seating. Private tables require a verified invite
// token in the join metadata; full tables only admit a human replacing a
// lobby bot.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.Private && matchState.seatOf(presence.GetUserId()) == -1 && matchState.OwnerSeat >= 0 {
		if tableTokens == nil {
			return state, false, "private tables are not configured"
		}
		guest, matchID, err := tableTokens.VerifyToken(metadata["token"])
		if err != nil {
			return state, false, "invalid invite"
		}
		ctxMatchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		if guest != presence.GetUserId() || matchID != ctxMatchID {
			return state, false, "invite is for someone else"
		}
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Table == nil {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "table full"
		}
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned && matchState.Table == nil {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || bot.IsBot(matchState.Seats[matchState.OwnerSeat]) || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher)
	return matchState
}

// MatchLeave frees the leaver's seat. A partie abandoned mid-play is
// discarded without settlement.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if i := matchState.seatOf(p.GetUserId()); i >= 0 {
			matchState.Seats[i] = ""
			logger.Debug("MatchLeave: user %s left, seat %d freed", p.GetUserId(), i)

			if matchState.Table != nil && !matchState.Table.Finished {
				logger.Info("MatchLeave: partie abandoned by %s", p.GetUserId())
				matchState.Table = nil
			}
		}
	}

	matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	if matchState.OwnerSeat == -1 {
		logger.Info("MatchLeave: terminating match with no humans")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartPartie:
			mh.handleStartPartie(ctx, matchState, dispatcher, logger, msg)
		case OpExchangeCards:
			mh.handleExchangeCards(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Fill the empty chair with a bot once a lone human has waited long
	// enough. Private tables never get bots.
	if state.Table == nil && !state.Private {
		if state.GetHumanPlayerCount() == 1 && state.GetOpenSeatsCount() > 0 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				state.LastSinglePlayerTick = 0
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.GetBotIdentity(i)
					agent, err := bot.NewAgent(identity.UserID, identity.DisplayName, bot.LevelFromDifficulty(identity.Difficulty))
					if err != nil {
						logger.Error("processBots: failed to create bot agent for %s: %v", identity.UserID, err)
						continue
					}
					state.Seats[i] = identity.UserID
					state.Bots[identity.UserID] = agent
					logger.Info("processBots: added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
				}
				mh.updateLabel(state, dispatcher, logger)
				mh.broadcastSnapshot(state, dispatcher)
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	if state.Table == nil || state.Table.Finished {
		return
	}

	actor := state.Table.CurrentActor()
	agent, isBot := state.Bots[actor]
	if !isBot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := agent.Act(state.App, state.Table)
	if err != nil {
		logger.Error("processBots: bot %s failed to act: %v", actor, err)
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleStartPartie(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.seatOf(senderID) != state.OwnerSeat {
		logger.Warn("StartPartie: user %s is not the table owner", senderID)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the table owner can start")
		return
	}
	if state.Table != nil && !state.Table.Finished {
		mh.sendError(state, dispatcher, logger, senderID, 409, "a partie is already in progress")
		return
	}
	if state.GetOpenSeatsCount() > 0 {
		mh.sendError(state, dispatcher, logger, senderID, 400, "waiting for an opponent")
		return
	}

	var request StartPartieRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("StartPartie: invalid request from %s: %v", senderID, err)
			return
		}
	}
	deals := request.Deals
	if deals <= 0 {
		deals = config.GetDealsPerPartie()
	}

	table, events, err := state.App.StartPartie(state.Seats, deals, config.GetChipsPerPoint(state.Tier))
	if err != nil {
		logger.Error("StartPartie: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	state.Table = table

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleExchangeCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Table == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no partie in progress")
		return
	}

	var request ExchangeCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("ExchangeCards: invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid exchange payload")
		return
	}

	events, err := state.App.ExchangeCards(state.Table, senderID, request.Cards)
	if err != nil {
		logger.Warn("ExchangeCards: user %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Table == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no partie in progress")
		return
	}

	var request PlayCardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("PlayCard: invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid play payload")
		return
	}

	events, err := state.App.PlayCard(state.Table, senderID, request.Card)
	if err != nil {
		logger.Warn("PlayCard: user %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

// eventOpCodes maps app event kinds to wire op codes.
var eventOpCodes = map[app.EventKind]int64{
	app.EventPartieStarted:      OpPartieStarted,
	app.EventDealStarted:        OpDealStarted,
	app.EventHandDealt:          OpHandDealt,
	app.EventCarteBlanche:       OpCarteBlanche,
	app.EventCardsExchanged:     OpCardsExchanged,
	app.EventDeclarationsScored: OpDeclarationsScored,
	app.EventCardLed:            OpCardLed,
	app.EventTrickPlayed:        OpTrickPlayed,
	app.EventDealEnded:          OpDealEnded,
	app.EventPartieEnded:        OpPartieEnded,
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent dispatches one app event to its recipients, feeds the bot
// agents, and applies the end-of-partie settlement.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	for _, agent := range state.Bots {
		agent.OnTableEvent(ev)
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Resolve targeted recipients; events aimed only at bots must not leak
	// to everyone else.
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}
	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)

	if ev.Kind == app.EventPartieEnded {
		mh.settlePartie(ctx, state, logger, ev.Payload.(app.PartieEndedPayload))
		state.Table = nil
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) settlePartie(ctx context.Context, state *MatchState, logger runtime.Logger, payload app.PartieEndedPayload) {
	if state.Economy == nil {
		return
	}

	updates := make([]ports.WalletUpdate, 0, len(payload.BalanceChanges))
	for userID, amount := range payload.BalanceChanges {
		if bot.IsBot(userID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: amount,
			Metadata: map[string]interface{}{
				"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
				"reason":   "partie_settlement",
			},
		})
	}
	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to update balances: %v", err)
	}
}

// sendError sends a GameError privately to one user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	bytes, err := json.Marshal(GameError{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameError: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher) {
	snapshot := MatchSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Playing:   state.Table != nil,
	}
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		ps := PlayerState{
			UserID:  userID,
			Seat:    i,
			IsOwner: i == state.OwnerSeat,
			IsBot:   bot.IsBot(userID),
		}
		if p, ok := state.Presences[userID]; ok {
			ps.DisplayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			ps.DisplayName = name
		}
		snapshot.Players = append(snapshot.Players, ps)
	}

	bytes, _ := json.Marshal(snapshot)
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, nil, nil, true)
}

func (mh *matchHandler) label(state *MatchState) string {
	phase := "lobby"
	if state.Private {
		phase = "private"
	} else if state.Table != nil {
		phase = "playing"
	}
	return MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  "piquet",
		Phase: phase,
		Tier:  state.Tier,
	}.String()
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(mh.label(state)); err != nil {
		logger.Error("UpdateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
