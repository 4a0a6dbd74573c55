package engine

import (
	"fmt"
	"strings"
)

// ActionKind enumerates everything a player can ask the engine to do
type ActionKind int

const (
	MoveUp ActionKind = iota
	MoveDown
	MoveLeft
	MoveRight
	Restart
	Rollback
	Debug
)

var actionNames = [...]string{
	MoveUp:    "up",
	MoveDown:  "down",
	MoveLeft:  "left",
	MoveRight: "right",
	Restart:   "restart",
	Rollback:  "rollback",
	Debug:     "debug",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(k))
	}
	return actionNames[k]
}

// IsMove reports whether the kind is one of the four moves
func (k ActionKind) IsMove() bool {
	return k >= MoveUp && k <= MoveRight
}

// Direction returns the offset of a move kind
func (k ActionKind) Direction() (Direction, bool) {
	if !k.IsMove() {
		return Direction{}, false
	}
	return directions[k], true
}

// ParseActionKind accepts action names plus the aliases undo and reset
func ParseActionKind(s string) (ActionKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "undo":
		return Rollback, nil
	case "reset":
		return Restart, nil
	}
	for i, n := range actionNames {
		if n == name {
			return ActionKind(i), nil
		}
	}
	return 0, ValidationFailedf("unknown action %q", s)
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	parsed, err := ParseActionKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Direction is a unit offset on the grid
type Direction struct {
	Name string
	DX   int
	DY   int
}

var directions = map[ActionKind]Direction{
	MoveUp:    {Name: "up", DX: 0, DY: -1},
	MoveDown:  {Name: "down", DX: 0, DY: 1},
	MoveLeft:  {Name: "left", DX: -1, DY: 0},
	MoveRight: {Name: "right", DX: 1, DY: 0},
}

// ParseDirection converts up, down, left or right to a move kind
func ParseDirection(s string) (ActionKind, error) {
	k, err := ParseActionKind(s)
	if err != nil || !k.IsMove() {
		return 0, ValidationFailedf("invalid direction %q", s)
	}
	return k, nil
}

// MoveKinds lists the four moves in a stable order
func MoveKinds() []ActionKind {
	return []ActionKind{MoveUp, MoveDown, MoveLeft, MoveRight}
}

// MoveEntry records one tile displaced by a move
type MoveEntry struct {
	From  Position `json:"from"`
	Layer Layer    `json:"layer"`
	Tile  TileID   `json:"tile"`
}

// Action is an immutable record of what happened. For moves, Moves is
// ordered farthest tile first; the last entry is the pusher.
type Action struct {
	Kind  ActionKind  `json:"kind"`
	Moves []MoveEntry `json:"moves,omitempty"`
}

// Pusher returns the entry of the tile that started the move
func (a *Action) Pusher() (MoveEntry, bool) {
	if len(a.Moves) == 0 {
		return MoveEntry{}, false
	}
	return a.Moves[len(a.Moves)-1], true
}

// Pushed returns how many tiles were pushed by the pusher
func (a *Action) Pushed() int {
	if len(a.Moves) == 0 {
		return 0
	}
	return len(a.Moves) - 1
}

// Command is a queued request that may turn into an action
type Command struct {
	Kind ActionKind `json:"kind"`
}

// CommandQueue is a FIFO of commands
type CommandQueue struct {
	items []Command
}

// Push appends a command
func (q *CommandQueue) Push(c Command) {
	q.items = append(q.items, c)
}

// Pop removes the oldest command
func (q *CommandQueue) Pop() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// Len returns the number of pending commands
func (q *CommandQueue) Len() int {
	return len(q.items)
}

// EventKind enumerates rule notifications
type EventKind int

const (
	EventNone EventKind = iota
	EventVictory
	EventDefeat
	EventStopAction
)

var eventNames = [...]string{
	EventNone:       "none",
	EventVictory:    "victory",
	EventDefeat:     "defeat",
	EventStopAction: "stop_action",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	for i, n := range eventNames {
		if n == string(b) {
			*k = EventKind(i)
			return nil
		}
	}
	return ValidationFailedf("unknown event %q", string(b))
}

// Event is emitted by a rule around actions
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message,omitempty"`
}
