package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/domain"
	"cribbage/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// signalSnapshot asks a running match for its spectator snapshot.
const signalSnapshot = "snapshot"

// moduleDeps is shared by every match created by this module.
type moduleDeps struct {
	Config   config.TableConfig
	Invites  *app.InviteService
	Events   ports.EventPublisher
	NewBrain func(strategy string) (bot.Brain, error)
}

// MatchState holds the authoritative runtime state for one cribbage table.
type MatchState struct {
	Table   *domain.Table
	App     *app.Service
	Config  config.TableConfig
	MatchID string
	Tick    int64

	Presences   map[string]runtime.Presence  // UserId -> Presence for targeted messaging
	Formats     map[string]payloadFormat     // UserId -> negotiated payload format
	PendingMeta map[string]map[string]string // join metadata kept between attempt and join

	Bots         map[string]*bot.Agent
	BotsAdded    int
	BotScheduled bool
	BotDueTick   int64

	// LastHumanTick is the last tick a human was connected.
	LastHumanTick int64

	Stats    ports.StatsPort
	Accounts ports.AccountPort
	Events   ports.EventPublisher
	Invites  *app.InviteService
	NewBrain func(strategy string) (bot.Brain, error)

	rng   *rand.Rand
	label string
}

func newMatchState(deps *moduleDeps, tableID, matchID string, private bool, rng *rand.Rand) *MatchState {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if tableID == "" {
		tableID = uuid.NewString()
	}
	cfg := deps.Config
	table := domain.NewTable(tableID, cfg.GameTarget, cfg.MatchTarget)
	table.Private = private

	events := deps.Events
	if events == nil {
		events = ports.NopPublisher{}
	}
	newBrain := deps.NewBrain
	if newBrain == nil {
		newBrain = func(strategy string) (bot.Brain, error) { return bot.NewBrain(strategy, nil) }
	}
	return &MatchState{
		Table:       table,
		App:         app.NewService(rand.New(rand.NewSource(rng.Int63()))),
		Config:      cfg,
		MatchID:     matchID,
		Presences:   make(map[string]runtime.Presence),
		Formats:     make(map[string]payloadFormat),
		PendingMeta: make(map[string]map[string]string),
		Bots:        make(map[string]*bot.Agent),
		Events:      events,
		Invites:     deps.Invites,
		NewBrain:    newBrain,
		rng:         rng,
	}
}

// openSeats counts seats nobody holds.
func (ms *MatchState) openSeats() int {
	n := 0
	for _, s := range ms.Table.Seats {
		if !s.Occupied() {
			n++
		}
	}
	return n
}

// humanSeats counts seats held by a human, connected or not.
func (ms *MatchState) humanSeats() int {
	n := 0
	for _, s := range ms.Table.Seats {
		if s.Occupied() && !s.Scripted {
			n++
		}
	}
	return n
}

func (ms *MatchState) hasConnectedHuman() bool {
	for _, s := range ms.Table.Seats {
		if s.Occupied() && !s.Scripted && s.Connected {
			return true
		}
	}
	return len(ms.Presences) > 0
}

type matchHandler struct {
	deps *moduleDeps
}

func newMatchHandler(deps *moduleDeps) *matchHandler {
	return &matchHandler{deps: deps}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	tableID, _ := params[ParamTableID].(string)
	private, _ := params[ParamPrivate].(bool)
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	state := newMatchState(mh.deps, tableID, matchID, private, nil)
	if nk != nil {
		state.Stats = NewNakamaStatsAdapter(nk)
		state.Accounts = NewNakamaAccountAdapter(nk)
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.label = label

	logger.Info("MatchInit: Table %s created (private=%t, tick_rate=%d).", state.Table.ID, private, state.Config.TickRate)
	return state, state.Config.TickRate, label
}

// MatchJoinAttempt admits returning seat holders, and new players while a seat is open.
// Private tables also require a valid invite.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	if matchState.Table.SeatOf(userID) == domain.SeatNone {
		if matchState.Table.Private {
			if _, err := matchState.Invites.Verify(metadata[MetaInvite], matchState.MatchID); err != nil {
				logger.Warn("MatchJoinAttempt: User %s rejected from private table %s: %v", userID, matchState.Table.ID, err)
				return matchState, false, "invite required"
			}
		}
		if matchState.openSeats() == 0 {
			return matchState, false, app.ErrTableFull.Error()
		}
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	matchState.PendingMeta[userID] = meta
	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	matchState.Tick = tick

	for _, p := range presences {
		userID := p.GetUserId()
		meta := matchState.PendingMeta[userID]
		delete(matchState.PendingMeta, userID)

		matchState.Presences[userID] = p
		matchState.Formats[userID] = parseFormat(meta[MetaFormat])

		name := meta[MetaDisplayName]
		if name == "" {
			name = mh.accountName(ctx, matchState, logger, p)
		}

		seat, events, err := matchState.App.Join(matchState.Table, userID, name)
		if err != nil {
			// Lost a race for the last seat.
			logger.Warn("MatchJoin: User %s could not be seated: %v", userID, err)
			mh.sendRejection(matchState, dispatcher, logger, userID, err)
			delete(matchState.Presences, userID)
			delete(matchState.Formats, userID)
			if kickErr := dispatcher.MatchKick([]runtime.Presence{p}); kickErr != nil {
				logger.Error("MatchJoin: Failed to kick %s: %v", userID, kickErr)
			}
			continue
		}
		logger.Info("MatchJoin: User %s seated at %s on table %s.", userID, seat, matchState.Table.ID)
		mh.dispatchEvents(ctx, matchState, logger, events)
	}
	if matchState.hasConnectedHuman() {
		matchState.LastHumanTick = tick
	}

	mh.commit(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) accountName(ctx context.Context, state *MatchState, logger runtime.Logger, p runtime.Presence) string {
	if state.Accounts == nil {
		return p.GetUsername()
	}
	name, err := state.Accounts.DisplayName(ctx, p.GetUserId())
	if err != nil {
		logger.Warn("MatchJoin: Failed to load display name for %s: %v", p.GetUserId(), err)
		return p.GetUsername()
	}
	if name == "" {
		return p.GetUsername()
	}
	return name
}

// MatchLeave is called when one or more players leave the match. Seats are kept for
// reconnection once a hand has been dealt.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	matchState.Tick = tick

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		delete(matchState.Formats, userID)
		delete(matchState.PendingMeta, userID)

		events, err := matchState.App.Disconnect(matchState.Table, userID)
		if err != nil {
			logger.Debug("MatchLeave: User %s held no seat: %v", userID, err)
			continue
		}
		logger.Debug("MatchLeave: User %s left table %s.", userID, matchState.Table.ID)
		mh.dispatchEvents(ctx, matchState, logger, events)
	}

	mh.commit(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	mh.processBots(ctx, matchState, dispatcher, logger)

	if matchState.hasConnectedHuman() {
		matchState.LastHumanTick = tick
	} else if idle := int64(matchState.Config.IdleTerminateSec * matchState.Config.TickRate); tick-matchState.LastHumanTick >= idle {
		logger.Info("MatchLoop: Terminating idle table %s after %d ticks without a human.", matchState.Table.ID, tick-matchState.LastHumanTick)
		mh.closeBots(matchState, logger)
		return nil
	}

	return matchState
}

// handleMessage applies one client action. Only seated players may act; rejected
// actions leave the table untouched and are reported to the sender alone.
func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	seat := state.Table.SeatOf(userID)
	if seat == domain.SeatNone {
		logger.Warn("handleMessage: User %s sent op %d without a seat.", userID, msg.GetOpCode())
		mh.sendRejection(state, dispatcher, logger, userID, app.ErrUnknownPlayer)
		return
	}

	events, err := mh.apply(state, seat, msg)
	if err != nil {
		logger.Warn("handleMessage: User %s (seat %s) op %d rejected: %v", userID, seat, msg.GetOpCode(), err)
		mh.sendRejection(state, dispatcher, logger, userID, err)
		return
	}
	mh.dispatchEvents(ctx, state, logger, events)
	mh.commit(state, dispatcher, logger)
}

func (mh *matchHandler) apply(state *MatchState, seat domain.Seat, msg runtime.MatchData) ([]app.Event, error) {
	format := state.Formats[msg.GetUserId()]
	t := state.Table
	svc := state.App

	switch msg.GetOpCode() {
	case OpDiscard:
		var req discardRequest
		if err := decodePayload(msg.GetData(), format, &req); err != nil {
			return nil, err
		}
		return svc.Discard(t, seat, req.CardIDs)
	case OpPlay:
		var req playRequest
		if err := decodePayload(msg.GetData(), format, &req); err != nil {
			return nil, err
		}
		return svc.Play(t, seat, req.CardID)
	case OpGo:
		return svc.Go(t, seat)
	case OpNextHand:
		return svc.NextHand(t)
	case OpNextGame:
		return svc.NextGame(t)
	case OpNewMatch:
		return svc.NewMatch(t)
	case OpAddScriptedOpponent:
		var req addOpponentRequest
		if err := decodePayload(msg.GetData(), format, &req); err != nil {
			return nil, err
		}
		return mh.addScriptedOpponent(state, req.Strategy)
	case OpSetName:
		var req setNameRequest
		if err := decodePayload(msg.GetData(), format, &req); err != nil {
			return nil, err
		}
		return svc.SetName(t, seat, req.DisplayName)
	}
	return nil, errUnknownOpCode
}

// addScriptedOpponent seats a scripted opponent in the open seat. An empty strategy uses
// the persona's strategy, then the configured default.
func (mh *matchHandler) addScriptedOpponent(state *MatchState, strategy string) ([]app.Event, error) {
	if !state.Config.BotsEnabled {
		return nil, errBotsDisabled
	}
	if state.openSeats() == 0 {
		return nil, app.ErrTableFull
	}

	identity := bot.NewIdentity(state.BotsAdded)
	if strategy == "" {
		strategy = identity.Strategy
	}
	if strategy == "" {
		strategy = state.Config.BotStrategy
	}
	brain, err := state.NewBrain(strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	agent := bot.NewAgent(identity.UserID, identity.DisplayName, brain)

	_, events, err := state.App.AddScriptedOpponent(state.Table, identity.UserID, identity.DisplayName)
	if err != nil {
		_ = agent.Close()
		return nil, err
	}
	state.BotsAdded++
	state.Bots[identity.UserID] = agent
	state.BotScheduled = false
	return events, nil
}

// processBots lets at most one scripted opponent act per tick, after a random delay.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var agent *bot.Agent
	seat := domain.SeatNone
	for _, s := range domain.Seats {
		if a, ok := state.Bots[state.Table.Seats[s].UserID]; ok && a.ShouldAct(state.Table) {
			agent, seat = a, s
			break
		}
	}
	if agent == nil {
		state.BotScheduled = false
		return
	}

	if !state.BotScheduled {
		minDelay, maxDelay := state.Config.BotMinDelaySec, state.Config.BotMaxDelaySec
		delay := minDelay + state.rng.Intn(maxDelay-minDelay+1)
		state.BotDueTick = state.Tick + int64(delay*state.Config.TickRate)
		state.BotScheduled = true
		logger.Debug("processBots: Bot %s (seat %s) will act at tick %d (current %d)", agent.ID, seat, state.BotDueTick, state.Tick)
	}
	if state.Tick < state.BotDueTick {
		return
	}
	state.BotScheduled = false

	action := agent.Decide(state.Table)
	if action.Fallback != nil {
		logger.Warn("processBots: Bot %s strategy failed, using greedy choice: %v", agent.ID, action.Fallback)
	}
	events, err := action.Apply(state.App, state.Table, seat)
	if err != nil {
		logger.Error("processBots: Bot %s action %d rejected: %v", agent.ID, action.Kind, err)
		return
	}
	mh.dispatchEvents(ctx, state, logger, events)
	mh.commit(state, dispatcher, logger)
}

// dispatchEvents feeds accepted events to the scripted opponents, the event bus and
// the stats store. Private events never leave the match.
func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		for _, agent := range state.Bots {
			agent.OnGameEvent(ev)
		}

		if len(ev.Recipients) == 0 {
			err := state.Events.Publish(ctx, ports.TableEvent{
				TableID: state.Table.ID,
				MatchID: state.MatchID,
				Kind:    string(ev.Kind),
				Tick:    state.Tick,
				Payload: ev.Payload,
			})
			if err != nil {
				logger.Warn("dispatchEvents: Failed to publish %s for table %s: %v", ev.Kind, state.Table.ID, err)
			}
		}

		switch p := ev.Payload.(type) {
		case app.GameEndedPayload:
			mh.recordGame(ctx, state, logger, p)
		case app.MatchEndedPayload:
			mh.recordMatchWin(ctx, state, logger, p)
		}
	}
}

func (mh *matchHandler) recordGame(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameEndedPayload) {
	if state.Stats == nil {
		return
	}
	loser := p.Winner.Other()
	candidates := []ports.GameResult{
		{UserID: p.WinnerUserID, Won: true, Score: p.Scores[p.Winner]},
		{UserID: p.LoserUserID, Won: false, Score: p.Scores[loser]},
	}
	results := make([]ports.GameResult, 0, len(candidates))
	for _, r := range candidates {
		if r.UserID == "" || bot.IsBot(r.UserID) {
			continue
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return
	}
	if err := state.Stats.RecordGame(ctx, results); err != nil {
		logger.Error("recordGame: Failed to record game on table %s: %v", state.Table.ID, err)
	}
}

func (mh *matchHandler) recordMatchWin(ctx context.Context, state *MatchState, logger runtime.Logger, p app.MatchEndedPayload) {
	if state.Stats == nil || p.WinnerUserID == "" || bot.IsBot(p.WinnerUserID) {
		return
	}
	username := ""
	if presence, ok := state.Presences[p.WinnerUserID]; ok {
		username = presence.GetUsername()
	}
	if err := state.Stats.RecordMatchWin(ctx, p.WinnerUserID, username); err != nil {
		logger.Error("recordMatchWin: Failed to record match win for %s: %v", p.WinnerUserID, err)
	}
}

// commit refreshes the label and sends each presence its own snapshot.
func (mh *matchHandler) commit(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshots(state, dispatcher, logger)
}

func (mh *matchHandler) broadcastSnapshots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for userID, p := range state.Presences {
		snap := app.SnapshotFor(state.Table, state.Table.SeatOf(userID))
		data, err := encodePayload(snap, state.Formats[userID])
		if err != nil {
			logger.Error("broadcastSnapshots: Failed to encode snapshot for %s: %v", userID, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(OpSnapshot, data, []runtime.Presence{p}, nil, true); err != nil {
			logger.Error("broadcastSnapshots: Failed to send snapshot to %s: %v", userID, err)
		}
	}
}

// sendRejection sends a Rejection to a specific user.
func (mh *matchHandler) sendRejection(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendRejection: Cannot send rejection to %s: Presence not found", userID)
		return
	}
	data, err := encodePayload(Rejection{Code: rejectionCode(cause), Message: cause.Error()}, state.Formats[userID])
	if err != nil {
		logger.Error("sendRejection: Failed to marshal rejection: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRejection, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendRejection: Failed to send rejection to %s: %v", userID, err)
	}
}

func buildLabel(state *MatchState) (string, error) {
	st, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_TableID:   state.Table.ID,
		MatchLabelKey_OpenSeats: state.openSeats(),
		MatchLabelKey_Stage:     string(state.Table.Stage),
		MatchLabelKey_Private:   state.Table.Private,
		MatchLabelKey_Humans:    state.humanSeats(),
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := protojson.Marshal(st)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.label = label
}

func (mh *matchHandler) closeBots(state *MatchState, logger runtime.Logger) {
	for id, agent := range state.Bots {
		if err := agent.Close(); err != nil {
			logger.Warn("closeBots: Failed to close bot %s: %v", id, err)
		}
		delete(state.Bots, id)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		logger.Debug("MatchTerminate: Table %s terminating with %d grace seconds", matchState.Table.ID, graceSeconds)
		mh.closeBots(matchState, logger)
	}
	return state
}

// MatchSignal answers "snapshot" with the spectator view as JSON.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != signalSnapshot {
		return state, ""
	}
	out, err := json.Marshal(app.SnapshotFor(matchState.Table, domain.SeatNone))
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal snapshot: %v", err)
		return state, ""
	}
	return state, string(out)
}
