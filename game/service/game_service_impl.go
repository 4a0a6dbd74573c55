package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/levels"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	opts     Options
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levelManager LevelManager, opts Options) GameService {
	if opts.MaxBulkMoves <= 0 || opts.MaxBulkMoves > engine.MaxBulkMoves {
		opts.MaxBulkMoves = engine.MaxBulkMoves
	}
	return &gameServiceImpl{
		sessions: sessions,
		levels:   levelManager,
		opts:     opts,
	}
}

// CreateSession creates a new game session on a level. An empty level ID
// selects the default level; "random" or "<pack>/random" pick one at random.
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, err := s.resolveLevel(levelID)
	if err != nil {
		return nil, err
	}

	eng, err := s.newEngine(level)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", level, eng)
	if err != nil {
		return nil, engine.Wrap(err, engine.CodeInternal, "failed to create session")
	}

	return sessionInfo(session), nil
}

// resolveLevel finds the level a new session is played on
func (s *gameServiceImpl) resolveLevel(levelID string) (*levels.Level, error) {
	levelID = strings.TrimSpace(levelID)

	var level *levels.Level
	var err error
	switch {
	case levelID == "":
		level = s.levels.Default()
	case strings.EqualFold(levelID, "random"):
		level, err = s.levels.Random("")
	case strings.HasSuffix(strings.ToLower(levelID), "/random"):
		level, err = s.levels.Random(levelID[:len(levelID)-len("/random")])
	default:
		level, err = s.levels.Level(levelID)
	}
	if err != nil {
		return nil, levelError(levelID, err)
	}
	if level == nil {
		return nil, engine.NotFoundf("no level available")
	}
	return level, nil
}

// newEngine builds an engine for a level with the configured rule and repair
func (s *gameServiceImpl) newEngine(level *levels.Level) (*engine.GameEngine, error) {
	grid, err := level.Grid(s.opts.Repair, engine.Standard)
	if err != nil {
		return nil, engine.Wrap(err, engine.CodeValidationFailed, fmt.Sprintf("level %s has a bad map", level.ID))
	}
	rule, err := engine.NewRule(s.opts.Rule)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewEngine(grid, rule)
	if err != nil {
		return nil, engine.Wrap(err, engine.CodeValidationFailed, fmt.Sprintf("level %s cannot be played", level.ID))
	}
	return eng, nil
}

// levelError gives level lookup failures an engine code
func levelError(levelID string, err error) error {
	switch {
	case errors.Is(err, levels.ErrPackNotFound), errors.Is(err, levels.ErrLevelNotFound):
		return engine.Wrap(err, engine.CodeNotFound, fmt.Sprintf("level '%s' not found. Use /api/levels to list available levels", levelID))
	case errors.Is(err, levels.ErrInvalidLevel):
		return engine.Wrap(err, engine.CodeValidationFailed, fmt.Sprintf("level '%s' is invalid", levelID))
	default:
		return engine.Wrap(err, engine.CodeInternal, fmt.Sprintf("failed to load level %s", levelID))
	}
}

// getSession fetches a session and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, engine.Wrap(err, engine.CodeNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// save persists a session after a mutation; failures are logged only
func (s *gameServiceImpl) save(sessionID, operation string) {
	if err := s.sessions.Save(sessionID); err != nil {
		slog.Warn("failed to persist session", "session_id", sessionID, "operation", operation, "error", err)
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        sess.LevelID,
		Title:          sess.Title,
		Rule:           sess.Engine.Rule().Name(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.GetState(),
	}
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions, newest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return engine.Wrap(err, engine.CodeNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	kind, err := parseMove(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var result *MoveResult
	sess.Play(func(eng *engine.GameEngine) {
		var events []GameEvent
		if reset {
			events = append(events, s.execute(eng, engine.Restart).events...)
		}
		result = s.execute(eng, kind).moveResult(eng)
		result.Events = append(events, result.Events...)
	})
	s.save(sessionID, "move")
	return result, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first
// blocked move or when the level ends
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	if len(moves) == 0 {
		return nil, engine.ValidationFailedf("no moves given")
	}
	kinds := make([]engine.ActionKind, 0, len(moves))
	for i, m := range moves {
		kind, err := parseMove(m)
		if err != nil {
			return nil, engine.Wrap(err, engine.CodeValidationFailed, fmt.Sprintf("move %d", i+1))
		}
		kinds = append(kinds, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}
	sess.Play(func(eng *engine.GameEngine) {
		s.runBulk(ctx, eng, kinds, reset, result)
	})
	s.save(sessionID, "bulk_move")
	return result, nil
}

// runBulk applies kinds in order and fills in result; callers hold the
// session's engine.
func (s *gameServiceImpl) runBulk(ctx context.Context, eng *engine.GameEngine, kinds []engine.ActionKind, reset bool, result *BulkMoveResult) {
	if reset {
		result.Events = append(result.Events, s.execute(eng, engine.Restart).events...)
	}
	result.StartPos = eng.GetPlayerPosition()

	// Limit moves to prevent abuse
	if len(kinds) > s.opts.MaxBulkMoves {
		result.Truncated = true
		result.Limit = s.opts.MaxBulkMoves
		kinds = kinds[:s.opts.MaxBulkMoves]
	}

	for i, kind := range kinds {
		if err := ctx.Err(); err != nil {
			result.Success = false
			result.StoppedReason = err.Error()
			result.StopReasonCode = StopCancelled
			result.StoppedOnMove = i + 1
			break
		}
		if eng.IsGameOver() {
			result.StoppedReason = fmt.Sprintf("level ended before move %d", i+1)
			result.StopReasonCode = string(eng.Status())
			result.StoppedOnMove = i + 1
			break
		}

		out := s.execute(eng, kind)
		result.Events = append(result.Events, out.events...)
		if !out.success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, out.reason)
			result.StopReasonCode = StopBlocked
			result.StoppedOnMove = i + 1
			result.AttemptedTo = out.attempt()
			break
		}

		result.MovesExecuted++
		result.Pushes += out.pushed
		step := out.stepInfo(eng)
		step.Idx = i + 1
		result.Steps = append(result.Steps, step)
	}

	state := eng.GetState()
	if n := len(result.Events); n > 0 {
		state.Message = result.Events[n-1].Message
	}
	result.GameState = state
	result.EndPos = state.PlayerPos
	result.GameOver = eng.IsGameOver()
	result.Message = state.Message
	result.PossibleMoves = state.PossibleMoves
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = string(eng.Status())
	}
}

// SendSignal processes a WASD key string: w/a/s/d move, space undoes and
// r restarts. Unknown keys are ignored.
func (s *gameServiceImpl) SendSignal(ctx context.Context, sessionID, signal string) (*SignalResult, error) {
	if len(signal) > engine.MaxSignalLength {
		return nil, engine.ValidationFailedf("signal too long: %d characters, max %d", len(signal), engine.MaxSignalLength)
	}
	kinds := engine.ParseSignal(signal)
	if len(kinds) == 0 {
		return nil, engine.ValidationFailedf("signal %q has no keys; use w, a, s, d, space or r", signal)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &SignalResult{
		Signal:   signal,
		Commands: len(kinds),
		Events:   make([]GameEvent, 0, len(kinds)),
	}
	sess.Play(func(eng *engine.GameEngine) {
		for _, kind := range kinds {
			out := s.execute(eng, kind)
			if out.success {
				result.Applied++
			}
			result.Events = append(result.Events, out.events...)
		}
		result.GameState = eng.GetState()
	})
	if n := len(result.Events); n > 0 {
		result.Message = result.Events[n-1].Message
		result.GameState.Message = result.Message
	}
	s.save(sessionID, "signal")
	return result, nil
}

// Undo steps back one recorded action
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var result *MoveResult
	sess.Play(func(eng *engine.GameEngine) {
		result = s.execute(eng, engine.Rollback).moveResult(eng)
	})
	s.save(sessionID, "undo")
	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.GameState
	sess.Play(func(eng *engine.GameEngine) {
		out := s.execute(eng, engine.Restart)
		state = eng.GetState()
		if len(out.events) > 0 {
			state.Message = out.events[0].Message
		}
	})
	s.save(sessionID, "reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	opts.Order = strings.ToLower(opts.Order)
	if opts.Order == "" {
		opts.Order = "desc"
	}
	if opts.Order != "asc" && opts.Order != "desc" {
		return nil, engine.ValidationFailedf("order must be asc or desc, got %q", opts.Order)
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the levels of a pack, or of every pack when empty
func (s *gameServiceImpl) ListLevels(ctx context.Context, pack string) ([]*levels.LevelInfo, error) {
	infos, err := s.levels.ListLevels(pack)
	if err != nil {
		return nil, levelError(pack, err)
	}
	return infos, nil
}

// GetLevel loads a single level by ID
func (s *gameServiceImpl) GetLevel(ctx context.Context, levelID string) (*levels.Level, error) {
	level, err := s.levels.Level(levelID)
	if err != nil {
		return nil, levelError(levelID, err)
	}
	return level, nil
}

func parseMove(direction string) (engine.ActionKind, error) {
	kind, err := engine.ParseDirection(direction)
	if err != nil {
		return 0, engine.ValidationFailedf("invalid direction %q: use up, down, left or right", direction)
	}
	return kind, nil
}

// outcome is what became of one processed command
type outcome struct {
	kind    engine.ActionKind
	from    engine.Position
	to      engine.Position
	success bool
	pushed  int
	reason  string
	events  []GameEvent
}

// execute processes a single command and turns the engine step into events
func (s *gameServiceImpl) execute(eng *engine.GameEngine, kind engine.ActionKind) outcome {
	out := outcome{kind: kind, from: eng.GetPlayerPosition()}
	wasOver := eng.IsGameOver()
	stepBefore := eng.History().Step()

	eng.Enqueue(kind)
	steps := eng.Process()
	out.to = eng.GetPlayerPosition()

	var step engine.Step
	if len(steps) > 0 {
		step = steps[0]
	}
	now := time.Now()
	event := func(typ, msg string, pos engine.Position) {
		out.events = append(out.events, GameEvent{Type: typ, Message: msg, Timestamp: now, Position: pos})
	}

	stopped := ""
	for _, ev := range step.Events {
		if ev.Kind == engine.EventStopAction {
			stopped = ev.Message
			if stopped == "" {
				stopped = "action stopped by rule"
			}
		}
	}

	switch {
	case stopped != "":
		out.reason = stopped
		event(EventBlocked, stopped, out.from)
	case kind.IsMove():
		if step.Stored && step.Action != nil {
			out.success = true
			out.pushed = step.Action.Pushed()
			if out.pushed > 0 {
				event(EventPush, fmt.Sprintf("Moved %s to (%d,%d), pushing %d", kind, out.to.X, out.to.Y, out.pushed), out.to)
			} else {
				event(EventMove, fmt.Sprintf("Moved %s to (%d,%d)", kind, out.to.X, out.to.Y), out.to)
			}
		} else {
			out.reason = blockReason(eng, out.from, kind, wasOver)
			event(EventBlocked, out.reason, out.from)
		}
	case kind == engine.Rollback:
		if eng.History().Step() != stepBefore {
			out.success = true
			event(EventUndo, fmt.Sprintf("Undid step %d", stepBefore), out.to)
		} else {
			out.reason = "nothing to undo"
			if wasOver {
				out.reason = "level is finished; reset to play again"
			}
			event(EventBlocked, out.reason, out.from)
		}
	case kind == engine.Restart:
		out.success = true
		event(EventReset, "Game reset to initial state", out.to)
	default:
		out.success = true
	}

	// A finished level re-judged by a blocked command is not news
	if wasOver && kind != engine.Restart {
		return out
	}
	for _, ev := range step.Events {
		switch ev.Kind {
		case engine.EventVictory:
			event(EventVictory, ev.Message, out.to)
		case engine.EventDefeat:
			event(EventDefeat, ev.Message, out.to)
		}
	}
	return out
}

func blockReason(eng *engine.GameEngine, from engine.Position, kind engine.ActionKind, wasOver bool) string {
	if wasOver {
		return "level is finished; undo or reset to play again"
	}
	return engine.BlockReason(eng.Grid(), from, kind)
}

func (o outcome) attempt() *AttemptInfo {
	if o.success {
		return nil
	}
	target := o.from
	if dir, ok := o.kind.Direction(); ok {
		target = o.from.Add(dir.DX, dir.DY)
	}
	return &AttemptInfo{X: target.X, Y: target.Y, Dir: o.kind.String(), Reason: o.reason}
}

func (o outcome) stepInfo(eng *engine.GameEngine) StepInfo {
	return StepInfo{
		Idx:     1,
		Dir:     o.kind.String(),
		From:    o.from,
		To:      o.to,
		Pushed:  o.pushed,
		Success: o.success,
		Victory: eng.IsVictory(),
	}
}

func (o outcome) moveResult(eng *engine.GameEngine) *MoveResult {
	state := eng.GetState()
	result := &MoveResult{
		Success:   o.success,
		GameState: state,
		Events:    o.events,
	}
	if n := len(o.events); n > 0 {
		result.Message = o.events[n-1].Message
		state.Message = result.Message
	}
	if o.success {
		step := o.stepInfo(eng)
		result.Step = &step
	} else {
		result.AttemptedTo = o.attempt()
	}
	return result
}
