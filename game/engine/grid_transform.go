package engine

// Rotate turns the grid clockwise by steps quarter turns inside its own
// bounding box. Negative steps turn counter-clockwise.
func (g *Grid) Rotate(steps int) {
	n := ((steps % 4) + 4) % 4
	if n == 0 || len(g.cells) == 0 {
		return
	}
	b := g.BoundingBox()
	switch n {
	case 1:
		g.remap(func(p Position) Position { return Position{X: b.MinY + b.MaxY - p.Y, Y: p.X} })
	case 2:
		g.remap(func(p Position) Position { return Position{X: b.MinX + b.MaxX - p.X, Y: b.MinY + b.MaxY - p.Y} })
	case 3:
		g.remap(func(p Position) Position { return Position{X: p.Y, Y: b.MinX + b.MaxX - p.X} })
	}
}

// Flip mirrors the grid; horizontal mirrors columns, otherwise rows
func (g *Grid) Flip(horizontal bool) {
	if len(g.cells) == 0 {
		return
	}
	b := g.BoundingBox()
	if horizontal {
		g.remap(func(p Position) Position { return Position{X: b.MinX + b.MaxX - p.X, Y: p.Y} })
		return
	}
	g.remap(func(p Position) Position { return Position{X: p.X, Y: b.MinY + b.MaxY - p.Y} })
}

func (g *Grid) remap(f func(Position) Position) {
	next := make(map[Position]*Cell, len(g.cells))
	for p, c := range g.cells {
		np := f(p)
		if c.Ground != nil {
			c.Ground.Position = np
		}
		if c.Object != nil {
			c.Object.Position = np
		}
		next[np] = c
	}
	g.cells = next
}
