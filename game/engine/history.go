package engine

// ActionHistory is a linear list of actions with a cursor. Appending after
// stepping back discards everything past the cursor.
type ActionHistory struct {
	actions []*Action
	cursor  int
	started bool
}

// NewActionHistory creates an empty history
func NewActionHistory() *ActionHistory {
	return &ActionHistory{}
}

// Append records an action right after the cursor
func (h *ActionHistory) Append(a *Action) {
	if !h.started {
		h.actions = []*Action{a}
		h.cursor = 0
		h.started = true
		return
	}
	h.cursor++
	if h.cursor < 0 {
		h.cursor = 0
	}
	if h.cursor > len(h.actions) {
		h.cursor = len(h.actions)
	}
	h.actions = append(h.actions[:h.cursor], a)
}

// StepBack moves the cursor one action back; it may leave the list
func (h *ActionHistory) StepBack() {
	if h.started {
		h.cursor--
	}
}

// StepForward moves the cursor one action forward; it may leave the list
func (h *ActionHistory) StepForward() {
	if h.started {
		h.cursor++
	}
}

// Valid reports whether the cursor points at a recorded action
func (h *ActionHistory) Valid() bool {
	return h.started && h.cursor >= 0 && h.cursor < len(h.actions)
}

// Current returns the action under the cursor or nil
func (h *ActionHistory) Current() *Action {
	if !h.Valid() {
		return nil
	}
	return h.actions[h.cursor]
}

// Cursor returns the cursor and whether it has been set
func (h *ActionHistory) Cursor() (int, bool) {
	return h.cursor, h.started
}

// Seek moves the cursor to an existing position
func (h *ActionHistory) Seek(pos int) error {
	if pos < 0 || pos >= len(h.actions) {
		return OutOfBoundsf("history position %d out of range [0,%d)", pos, len(h.actions))
	}
	h.cursor = pos
	h.started = true
	return nil
}

// Len returns the number of recorded actions
func (h *ActionHistory) Len() int {
	return len(h.actions)
}

// Reset empties the history and unsets the cursor
func (h *ActionHistory) Reset() {
	h.actions = nil
	h.cursor = 0
	h.started = false
}

// Actions returns a copy of the recorded actions
func (h *ActionHistory) Actions() []*Action {
	out := make([]*Action, len(h.actions))
	copy(out, h.actions)
	return out
}

// Step is the 1-based position of the cursor, 0 when nothing was played
func (h *ActionHistory) Step() int {
	if !h.started {
		return 0
	}
	return h.cursor + 1
}

// HistoryState is the persisted form of a history
type HistoryState struct {
	Actions []Action `json:"actions"`
	Cursor  *int     `json:"cursor,omitempty"`
}

// Export captures the history
func (h *ActionHistory) Export() HistoryState {
	s := HistoryState{Actions: make([]Action, 0, len(h.actions))}
	for _, a := range h.actions {
		s.Actions = append(s.Actions, *a)
	}
	if h.started {
		c := h.cursor
		s.Cursor = &c
	}
	return s
}

// ImportHistory rebuilds a history from its persisted form
func ImportHistory(s HistoryState) *ActionHistory {
	h := &ActionHistory{actions: make([]*Action, 0, len(s.Actions))}
	for i := range s.Actions {
		a := s.Actions[i]
		h.actions = append(h.actions, &a)
	}
	if s.Cursor != nil {
		h.cursor = *s.Cursor
		h.started = true
	}
	return h
}
