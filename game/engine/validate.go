package engine

import "fmt"

// Level limits
const (
	MinLevelSize = 3
	MaxLevelSize = 100
)

// ValidateGrid checks a parsed level for playability
func ValidateGrid(g *Grid) error {
	if g == nil || g.Len() == 0 {
		return ValidationFailedf("level validation: grid is empty")
	}

	w, h := g.Width(), g.Height()
	if w < MinLevelSize || h < MinLevelSize {
		return ValidationFailedf("level validation: size must be at least %dx%d, got %dx%d", MinLevelSize, MinLevelSize, w, h)
	}
	if w > MaxLevelSize || h > MaxLevelSize {
		return ValidationFailedf("level validation: size must be at most %dx%d, got %dx%d", MaxLevelSize, MaxLevelSize, w, h)
	}

	if len(g.Find(Player)) == 0 {
		return ValidationFailedf("level validation: @Player not found")
	}

	targets := g.Count(Target)
	balls := g.Count(Ball)
	if targets == 0 {
		return ValidationFailedf("level validation: no targets")
	}
	if balls == 0 {
		return ValidationFailedf("level validation: no balls")
	}

	for _, p := range g.Points() {
		c := g.Cell(p)
		if c.Object != nil && c.Ground == nil {
			return ValidationFailedf("level validation: %s at (%d,%d) has no ground", c.Object.Name, p.X, p.Y)
		}
		if c.Object != nil && !c.Ground.CanMove {
			return ValidationFailedf("level validation: %s at (%d,%d) sits on %s", c.Object.Name, p.X, p.Y, c.Ground.Name)
		}
	}

	if err := checkReachable(g); err != nil {
		return err
	}
	return nil
}

// checkReachable verifies that every ball and target lies inside the area
// the players can walk to.
func checkReachable(g *Grid) error {
	trial := g.Clone()
	if _, err := trial.Repair(RepairOptions{DeleteUnusedTiles: true}); err != nil {
		return err
	}
	if lost := g.Count(Ball) - trial.Count(Ball); lost > 0 {
		return ValidationFailedf("level validation: %d balls are outside the reachable area", lost)
	}
	if lost := g.Count(Target) - trial.Count(Target); lost > 0 {
		return ValidationFailedf("level validation: %d targets are outside the reachable area", lost)
	}
	return nil
}

// Describe summarizes a level in one line
func Describe(g *Grid) string {
	return fmt.Sprintf("%dx%d, %d balls, %d targets, %d players",
		g.Width(), g.Height(), g.Count(Ball), g.Count(Target), g.Count(Player))
}
