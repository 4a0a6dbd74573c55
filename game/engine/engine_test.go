package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

// corridorLevel needs two pushes to the left before the ball reaches the target.
const corridorLevel = "########\n#-.-$@-#\n########\n"

func newTestEngine(t *testing.T, level string) *GameEngine {
	t.Helper()
	e, err := NewEngine(parseOrFail(t, level), nil)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	e := newTestEngine(t, simpleLevel)

	if e.IsFinished() != nil {
		t.Error("Expected new engine to be unfinished")
	}
	if e.Status() != StatusPlaying {
		t.Errorf("Expected playing status, got %s", e.Status())
	}
	if pos := e.GetPlayerPosition(); pos != (Position{X: 2, Y: 4}) {
		t.Errorf("Expected player at (2,4), got %+v", pos)
	}
	if label := e.StateLabel(); label != "Covered: 1/2; steps: 0" {
		t.Errorf("Unexpected label %q", label)
	}
}

func TestNewEngine_Invalid(t *testing.T) {
	if _, err := NewEngine(nil, nil); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected validation error for nil grid, got %v", err)
	}

	g := parseOrFail(t, simpleLevel)
	g.Remove(Position{X: 2, Y: 4}, LayerObject)
	if _, err := NewEngine(g, nil); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected validation error without player, got %v", err)
	}
}

func TestEngine_VictoryOnFirstPush(t *testing.T) {
	e := newTestEngine(t, simpleLevel)

	e.Enqueue(MoveUp)
	steps := e.Process()
	if len(steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(steps))
	}
	step := steps[0]
	if !step.Stored || step.Action == nil {
		t.Fatal("Expected push to be stored")
	}
	if len(step.Events) != 1 || step.Events[0].Kind != EventVictory {
		t.Fatalf("Expected a victory event, got %+v", step.Events)
	}
	if !e.IsVictory() || e.Status() != StatusVictory {
		t.Error("Expected level to be won")
	}
	if label := e.StateLabel(); label != "Covered: 2/2; steps: 1" {
		t.Errorf("Unexpected label %q", label)
	}
	expectRender(t, e.Grid(), "#####\n#--*#\n#-*-#\n#-@-#\n#---#\n#####\n")
}

func TestEngine_BlockedMoveIsDropped(t *testing.T) {
	e := newTestEngine(t, simpleLevel)

	e.Enqueue(MoveDown)
	steps := e.Process()
	if len(steps) != 1 {
		t.Fatalf("Expected 1 step, got %d", len(steps))
	}
	if steps[0].Action != nil || steps[0].Stored || len(steps[0].Events) != 0 {
		t.Errorf("Expected blocked move to be dropped, got %+v", steps[0])
	}
	if e.History().Len() != 0 {
		t.Errorf("Expected empty history, got %d", e.History().Len())
	}
	expectRender(t, e.Grid(), simpleLevel)
}

func TestEngine_RollbackAndBranch(t *testing.T) {
	e := newTestEngine(t, corridorLevel)

	e.Enqueue(MoveLeft)
	e.Process()
	expectRender(t, e.Grid(), "########\n#-.$@--#\n########\n")
	if label := e.StateLabel(); label != "Covered: 0/1; steps: 1" {
		t.Errorf("Unexpected label %q", label)
	}

	e.Enqueue(Rollback)
	steps := e.Process()
	if steps[0].Stored {
		t.Error("Expected rollback not to be stored")
	}
	expectRender(t, e.Grid(), corridorLevel)
	if label := e.StateLabel(); label != "Covered: 0/1; steps: 0/1" {
		t.Errorf("Unexpected label %q", label)
	}

	e.Enqueue(MoveLeft, MoveLeft)
	steps = e.Process()
	if len(steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(steps))
	}
	if e.History().Len() != 2 {
		t.Errorf("Expected branch to replace history, got %d actions", e.History().Len())
	}
	if !e.IsVictory() {
		t.Fatal("Expected victory after two pushes")
	}
	if label := e.StateLabel(); label != "Covered: 1/1; steps: 2" {
		t.Errorf("Unexpected label %q", label)
	}
}

func TestEngine_RollbackOnEmptyHistory(t *testing.T) {
	e := newTestEngine(t, corridorLevel)

	e.Enqueue(Rollback, Rollback)
	e.Process()
	expectRender(t, e.Grid(), corridorLevel)
	if _, ok := e.History().Cursor(); ok {
		t.Error("Expected cursor to stay unset")
	}
}

func TestEngine_FinishedBlocksMovesAndRollback(t *testing.T) {
	e := newTestEngine(t, simpleLevel)
	e.Enqueue(MoveUp)
	e.Process()
	won := e.Grid().String()

	e.Enqueue(MoveLeft, Rollback)
	steps := e.Process()
	for _, s := range steps {
		if s.Stored {
			t.Errorf("Expected nothing stored after victory, got %+v", s)
		}
	}
	expectRender(t, e.Grid(), won)
	if e.History().Len() != 1 {
		t.Errorf("Expected history to stay at 1, got %d", e.History().Len())
	}
	if e.Move("left") {
		t.Error("Expected Move to fail after victory")
	}
	if e.CanMove("left") {
		t.Error("Expected CanMove to be false after victory")
	}
}

func TestEngine_Restart(t *testing.T) {
	e := newTestEngine(t, simpleLevel)
	e.Enqueue(MoveUp)
	e.Process()

	state := e.Reset()
	if state.Status != StatusPlaying || state.Finished != nil {
		t.Errorf("Expected playing after restart, got %s", state.Status)
	}
	expectRender(t, e.Grid(), simpleLevel)
	if e.History().Len() != 0 {
		t.Errorf("Expected empty history, got %d", e.History().Len())
	}
	if e.GetPlayerPosition() != (Position{X: 2, Y: 4}) {
		t.Errorf("Expected player back at (2,4), got %+v", e.GetPlayerPosition())
	}

	if !e.Move("up") || !e.IsVictory() {
		t.Error("Expected level to be winnable again after restart")
	}
}

func TestEngine_DebugHook(t *testing.T) {
	e := newTestEngine(t, simpleLevel)
	calls := 0
	e.SetDebugHook(func(*GameEngine) { calls++ })

	e.Enqueue(Debug)
	steps := e.Process()
	if calls != 1 {
		t.Errorf("Expected hook to run once, got %d", calls)
	}
	if steps[0].Stored {
		t.Error("Expected debug not to be stored")
	}
}

type stubRule struct {
	ClassicRule
	before EventKind
	after  EventKind
}

func (r *stubRule) BeforeAction(ctx RuleContext, a *Action) Event {
	return Event{Kind: r.before}
}

func (r *stubRule) AfterAction(ctx RuleContext, a *Action) Event {
	return Event{Kind: r.after}
}

func TestEngine_StopAction(t *testing.T) {
	e, err := NewEngine(parseOrFail(t, simpleLevel), &stubRule{before: EventStopAction})
	if err != nil {
		t.Fatal(err)
	}

	e.Enqueue(MoveUp)
	steps := e.Process()
	if steps[0].Action != nil || steps[0].Stored {
		t.Error("Expected vetoed action to be skipped")
	}
	expectRender(t, e.Grid(), simpleLevel)
}

func TestEngine_Defeat(t *testing.T) {
	e, err := NewEngine(parseOrFail(t, corridorLevel), &stubRule{after: EventDefeat})
	if err != nil {
		t.Fatal(err)
	}

	e.Enqueue(MoveLeft, MoveLeft)
	steps := e.Process()
	finished := e.IsFinished()
	if finished == nil || *finished {
		t.Fatal("Expected defeat")
	}
	if e.Status() != StatusDefeat || !e.IsGameOver() {
		t.Errorf("Expected defeat status, got %s", e.Status())
	}
	if !steps[0].Stored || steps[1].Stored {
		t.Error("Expected only the first move to be stored")
	}
}

func TestEngine_GetState(t *testing.T) {
	e := newTestEngine(t, simpleLevel)
	state := e.GetState()

	if len(state.Board) != 6 || state.Board[4] != "#-@-#" {
		t.Errorf("Unexpected board %v", state.Board)
	}
	if state.Width != 5 || state.Height != 6 {
		t.Errorf("Expected 5x6, got %dx%d", state.Width, state.Height)
	}
	if state.Covered != 1 || state.Required != 2 {
		t.Errorf("Expected coverage 1/2, got %d/%d", state.Covered, state.Required)
	}
	if state.Rule != "classic" {
		t.Errorf("Expected classic rule, got %s", state.Rule)
	}

	expected := []string{"up", "left", "right"}
	if len(state.PossibleMoves) != len(expected) {
		t.Fatalf("Expected moves %v, got %v", expected, state.PossibleMoves)
	}
	for i, m := range expected {
		if state.PossibleMoves[i] != m {
			t.Errorf("Expected move %s at %d, got %s", m, i, state.PossibleMoves[i])
		}
	}
}

func TestEngine_GetMoveHistory(t *testing.T) {
	e := newTestEngine(t, corridorLevel)
	e.Enqueue(MoveRight, MoveLeft, MoveLeft)
	e.Process()

	entries := e.GetMoveHistory()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Action != "right" || first.Pushed != 0 || first.FromPosition != (Position{X: 5, Y: 1}) || first.ToPosition != (Position{X: 6, Y: 1}) {
		t.Errorf("Unexpected first entry %+v", first)
	}
	if entries[2].Pushed != 1 || !entries[2].Current || entries[2].MoveNumber != 3 {
		t.Errorf("Unexpected last entry %+v", entries[2])
	}
}

func TestEngine_ExportRestore(t *testing.T) {
	e := newTestEngine(t, corridorLevel)
	e.Enqueue(MoveRight, MoveLeft, MoveLeft, Rollback)
	e.Process()
	if label := e.StateLabel(); label != "Covered: 0/1; steps: 2/3" {
		t.Fatalf("Unexpected label before export %q", label)
	}

	data, err := json.Marshal(e.Export())
	if err != nil {
		t.Fatalf("Failed to marshal state: %v", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("Failed to unmarshal state: %v", err)
	}

	restored, err := RestoreEngine(&state)
	if err != nil {
		t.Fatalf("RestoreEngine failed: %v", err)
	}
	if restored.Grid().String() != e.Grid().String() {
		t.Errorf("Grid mismatch\ngot:\n%s\nexpected:\n%s", restored.Grid(), e.Grid())
	}
	if restored.StateLabel() != e.StateLabel() {
		t.Errorf("Expected label %q, got %q", e.StateLabel(), restored.StateLabel())
	}
	if restored.GetPlayerPosition() != e.GetPlayerPosition() {
		t.Errorf("Expected player %+v, got %+v", e.GetPlayerPosition(), restored.GetPlayerPosition())
	}

	restored.Enqueue(Rollback)
	restored.Process()
	expectRender(t, restored.Grid(), "########\n#-.-$-@#\n########\n")

	restored.Enqueue(Restart)
	restored.Process()
	expectRender(t, restored.Grid(), corridorLevel)
	if restored.History().Len() != 0 {
		t.Error("Expected restart to clear restored history")
	}
}

func TestRestoreEngine_Invalid(t *testing.T) {
	if _, err := RestoreEngine(nil); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := RestoreEngine(&State{Rule: "chess"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected unknown rule error, got %v", err)
	}
	if _, err := RestoreEngine(&State{Rule: "classic"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected missing player error, got %v", err)
	}
}

func TestSendSignal(t *testing.T) {
	e := newTestEngine(t, corridorLevel)

	steps := e.SendSignal("AdXa ")
	if len(steps) != 4 {
		t.Fatalf("Expected 4 steps, got %d", len(steps))
	}
	expectRender(t, e.Grid(), "########\n#-.$-@-#\n########\n")
	if label := e.StateLabel(); label != "Covered: 0/1; steps: 2/3" {
		t.Errorf("Unexpected label %q", label)
	}
}

func TestParseSignal(t *testing.T) {
	got := ParseSignal("WaSd rq!x")
	expected := []ActionKind{MoveUp, MoveLeft, MoveDown, MoveRight, Rollback, Restart, Debug}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Key %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}
