package engine

import "unicode"

// wasdKeys maps keyboard letters to actions
var wasdKeys = map[rune]ActionKind{
	'w': MoveUp,
	'a': MoveLeft,
	's': MoveDown,
	'd': MoveRight,
	' ': Rollback,
	'r': Restart,
	'q': Debug,
}

// ParseSignal turns a WASD key string into action kinds. Letters are case
// insensitive and unknown characters are ignored.
func ParseSignal(signal string) []ActionKind {
	kinds := make([]ActionKind, 0, len(signal))
	for _, r := range signal {
		if k, ok := wasdKeys[unicode.ToLower(r)]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SendSignal queues the keys of a WASD signal and processes them
func (e *GameEngine) SendSignal(signal string) []Step {
	e.Enqueue(ParseSignal(signal)...)
	return e.Process()
}
