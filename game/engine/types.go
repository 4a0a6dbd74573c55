package engine

const (
	// Validation constants
	MaxBulkMoves        = 50
	MaxSignalLength     = 500
	WebSocketBufferSize = 256
)

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by dx, dy
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Less orders positions by column first, then by row
func (p Position) Less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Box is an inclusive bounding rectangle
type Box struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the inclusive horizontal extent
func (b Box) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the inclusive vertical extent
func (b Box) Height() int {
	return b.MaxY - b.MinY + 1
}

// Contains reports whether p lies inside the box
func (b Box) Contains(p Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// GameStatus is the coarse state of a level in play
type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusVictory GameStatus = "victory"
	StatusDefeat  GameStatus = "defeat"
)

// GameState is the read-only view of an engine handed to transports
type GameState struct {
	Board         []string   `json:"board"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	PlayerPos     Position   `json:"player_pos"`
	Status        GameStatus `json:"status"`
	Finished      *bool      `json:"finished"`
	Label         string     `json:"label"`
	Rule          string     `json:"rule"`
	Covered       int        `json:"covered"`
	Required      int        `json:"required"`
	Step          int        `json:"step"`
	Steps         int        `json:"steps"`
	PossibleMoves []string   `json:"possible_moves"`
	Message       string     `json:"message,omitempty"`
	Hint          string     `json:"hint,omitempty"`
}

// MoveHistoryEntry describes one recorded action for history listings
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Pushed       int      `json:"pushed"`
	MoveNumber   int      `json:"move_number"`
	Current      bool     `json:"current"`
}
