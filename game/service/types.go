package service

import (
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
)

// Event types reported by game operations
const (
	EventMove    = "move"
	EventPush    = "push"
	EventBlocked = "blocked"
	EventUndo    = "undo"
	EventReset   = "reset"
	EventVictory = "victory"
	EventDefeat  = "defeat"
)

// Bulk move stop codes
const (
	StopBlocked   = "blocked"
	StopVictory   = "victory"
	StopDefeat    = "defeat"
	StopCancelled = "cancelled"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	LevelID        string            `json:"level_id"`
	Title          string            `json:"title"`
	Rule           string            `json:"rule"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a single command
type MoveResult struct {
	Success     bool              `json:"success"`
	GameState   *engine.GameState `json:"game_state"`
	Message     string            `json:"message"`
	Events      []GameEvent       `json:"events,omitempty"`
	Step        *StepInfo         `json:"step,omitempty"`
	AttemptedTo *AttemptInfo      `json:"attempted_to,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // blocked|victory|defeat|cancelled
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`
	Pushes   int             `json:"pushes"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Failure diagnostics
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// SignalResult contains the result of a WASD key signal
type SignalResult struct {
	Signal    string            `json:"signal"`
	Commands  int               `json:"commands"`
	Applied   int               `json:"applied"`
	Events    []GameEvent       `json:"events"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message,omitempty"`
}

// StepInfo is a compact record for each executed command
type StepInfo struct {
	Idx     int             `json:"idx"`
	Dir     string          `json:"dir"`
	From    engine.Position `json:"from"`
	To      engine.Position `json:"to"`
	Pushed  int             `json:"pushed,omitempty"`
	Success bool            `json:"success"`
	Victory bool            `json:"victory,omitempty"`
}

// AttemptInfo details a command that could not be applied
type AttemptInfo struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Dir    string `json:"dir"`
	Reason string `json:"reason"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "blocked", "undo", "reset", "victory", "defeat"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}
