package engine

import "fmt"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// LooseBalls returns balls not resting on a target
func LooseBalls(g *Grid) []*Tile {
	var out []*Tile
	for _, b := range g.Find(Ball) {
		if ground := g.Tile(b.Position, LayerGround); ground == nil || ground.ID != Target {
			out = append(out, b)
		}
	}
	return out
}

// FindNearestLooseBall finds the closest ball off target and its distance
func FindNearestLooseBall(g *Grid, from Position) (Position, int, bool) {
	best := -1
	var pos Position
	for _, b := range LooseBalls(g) {
		d := ManhattanDistance(from, b.Position)
		if best == -1 || d < best {
			best = d
			pos = b.Position
		}
	}
	return pos, best, best != -1
}

// IsCornered reports whether a loose ball at p is wedged in a corner and
// can never be pushed again
func IsCornered(g *Grid, p Position) bool {
	blocked := func(q Position) bool {
		c := g.Cell(q)
		return c == nil || c.Ground == nil || !c.Ground.CanMove
	}
	up, down := blocked(p.Add(0, -1)), blocked(p.Add(0, 1))
	left, right := blocked(p.Add(-1, 0)), blocked(p.Add(1, 0))
	return (up || down) && (left || right)
}

// AnalyzeDeadlock reports balls that are stuck off target
func AnalyzeDeadlock(g *Grid) string {
	for _, b := range LooseBalls(g) {
		if IsCornered(g, b.Position) {
			return fmt.Sprintf("STUCK: ball at (%d,%d) is cornered, undo or restart", b.Position.X, b.Position.Y)
		}
	}
	return ""
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
