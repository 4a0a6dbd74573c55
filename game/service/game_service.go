package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/levels"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, levelID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	SendSignal(ctx context.Context, sessionID, signal string) (*SignalResult, error)
	Undo(ctx context.Context, sessionID string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context, pack string) ([]*levels.LevelInfo, error)
	GetLevel(ctx context.Context, levelID string) (*levels.Level, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, level *levels.Level, eng *engine.GameEngine) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// LevelManager looks up levels
type LevelManager interface {
	Level(id string) (*levels.Level, error)
	Random(pack string) (*levels.Level, error)
	Default() *levels.Level
	ListLevels(pack string) ([]*levels.LevelInfo, error)
}

// Session represents an active game session. Once a session is shared,
// engine mutations go through Play and LastAccessedAt through Touch and
// LastAccessed.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	LevelID        string
	Title          string
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Play runs f with exclusive use of the engine
func (s *Session) Play(f func(eng *engine.GameEngine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.Engine)
}

// Touch records an access at now
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.LastAccessedAt = now
	s.mu.Unlock()
}

// LastAccessed returns when the session was last used
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}

// Export captures the engine state and access time together, excluding
// concurrent play.
func (s *Session) Export() (*engine.State, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.Export(), s.LastAccessedAt
}

// Options tunes how sessions are built and played
type Options struct {
	// Rule names the rule new sessions are judged by; empty means classic.
	Rule string
	// Repair, when set, is applied to level maps before play.
	Repair *engine.RepairOptions
	// MaxBulkMoves caps a bulk move request; zero means engine.MaxBulkMoves.
	MaxBulkMoves int
}
