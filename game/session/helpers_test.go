package session

import (
	"testing"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/levels"
	"github.com/wricardo/sokoban-game/game/service"
)

// Player at (7,1) with a ball to its left; four pushes left cover the target.
const corridorMap = "##########\n#-.---$@-#\n##########\n"

func testLevel() *levels.Level {
	return &levels.Level{
		ID:    "test/1",
		Pack:  "test",
		Index: 1,
		Name:  "Corridor",
		Map:   corridorMap,
	}
}

func newTestEngine(t *testing.T) *engine.GameEngine {
	t.Helper()
	grid, err := testLevel().Grid(nil, engine.Standard)
	if err != nil {
		t.Fatalf("Failed to parse test level: %v", err)
	}
	eng, err := engine.NewEngine(grid, nil)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func newTestSession(t *testing.T, id string) *service.Session {
	t.Helper()
	now := time.Now()
	return &service.Session{
		ID:             id,
		Engine:         newTestEngine(t),
		LevelID:        "test/1",
		Title:          "Corridor",
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}
