package engine

import (
	"errors"
	"testing"
)

func moveAction(kind ActionKind) *Action {
	return &Action{Kind: kind, Moves: []MoveEntry{{Layer: LayerObject, Tile: Player}}}
}

func TestActionHistory_Empty(t *testing.T) {
	h := NewActionHistory()

	if h.Valid() {
		t.Error("Expected empty history to be invalid")
	}
	if _, ok := h.Cursor(); ok {
		t.Error("Expected cursor to be unset")
	}
	if h.Current() != nil {
		t.Error("Expected no current action")
	}
	if h.Step() != 0 || h.Len() != 0 {
		t.Errorf("Expected step 0 and len 0, got %d and %d", h.Step(), h.Len())
	}
}

func TestActionHistory_AppendAndStep(t *testing.T) {
	h := NewActionHistory()
	a, b, c := moveAction(MoveUp), moveAction(MoveDown), moveAction(MoveLeft)

	h.Append(a)
	h.Append(b)
	h.Append(c)
	if h.Len() != 3 || h.Current() != c {
		t.Fatalf("Expected 3 actions with cursor on the last, got len %d", h.Len())
	}

	h.StepBack()
	if h.Current() != b {
		t.Errorf("Expected cursor on second action")
	}
	h.StepForward()
	if h.Current() != c {
		t.Errorf("Expected cursor back on third action")
	}

	h.StepForward()
	if h.Valid() {
		t.Error("Expected cursor past the end to be invalid")
	}
	if cursor, _ := h.Cursor(); cursor != 3 {
		t.Errorf("Expected unclamped cursor 3, got %d", cursor)
	}
}

func TestActionHistory_BranchTruncation(t *testing.T) {
	h := NewActionHistory()
	a, b, c, d := moveAction(MoveUp), moveAction(MoveDown), moveAction(MoveLeft), moveAction(MoveRight)

	h.Append(a)
	h.Append(b)
	h.Append(c)
	h.StepBack()
	h.StepBack()
	h.Append(d)

	actions := h.Actions()
	if len(actions) != 2 || actions[0] != a || actions[1] != d {
		t.Fatalf("Expected [a d], got %d actions", len(actions))
	}
	if cursor, _ := h.Cursor(); cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", cursor)
	}
}

func TestActionHistory_StepBackBeforeFirst(t *testing.T) {
	h := NewActionHistory()
	a, b := moveAction(MoveUp), moveAction(MoveDown)

	h.Append(a)
	h.StepBack()
	if h.Valid() {
		t.Error("Expected cursor before the first action to be invalid")
	}
	if h.Step() != 0 {
		t.Errorf("Expected step 0, got %d", h.Step())
	}

	h.Append(b)
	actions := h.Actions()
	if len(actions) != 1 || actions[0] != b {
		t.Fatalf("Expected [b], got %d actions", len(actions))
	}
	if h.Step() != 1 {
		t.Errorf("Expected step 1, got %d", h.Step())
	}
}

func TestActionHistory_Seek(t *testing.T) {
	h := NewActionHistory()
	h.Append(moveAction(MoveUp))
	h.Append(moveAction(MoveDown))

	if err := h.Seek(0); err != nil {
		t.Fatalf("Seek(0) failed: %v", err)
	}
	if h.Current().Kind != MoveUp {
		t.Errorf("Expected first action after seek")
	}

	for _, pos := range []int{-1, 2, 10} {
		if err := h.Seek(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Seek(%d): expected out of bounds, got %v", pos, err)
		}
	}
}

func TestActionHistory_Reset(t *testing.T) {
	h := NewActionHistory()
	h.Append(moveAction(MoveUp))
	h.Reset()

	if h.Len() != 0 || h.Valid() {
		t.Error("Expected reset history to be empty and invalid")
	}
	if _, ok := h.Cursor(); ok {
		t.Error("Expected cursor to be unset after reset")
	}
}

func TestActionHistory_ExportImport(t *testing.T) {
	h := NewActionHistory()
	h.Append(moveAction(MoveUp))
	h.Append(moveAction(MoveLeft))
	h.StepBack()

	restored := ImportHistory(h.Export())
	if restored.Len() != 2 {
		t.Fatalf("Expected 2 actions, got %d", restored.Len())
	}
	cursor, ok := restored.Cursor()
	if !ok || cursor != 0 {
		t.Errorf("Expected cursor 0, got %d (set=%v)", cursor, ok)
	}
	if restored.Current().Kind != MoveUp {
		t.Errorf("Expected current action up, got %s", restored.Current().Kind)
	}

	empty := ImportHistory(NewActionHistory().Export())
	if _, ok := empty.Cursor(); ok {
		t.Error("Expected unset cursor to survive export")
	}
}
