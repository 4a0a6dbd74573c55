package engine

// CellSnapshot is the serialized form of one cell; empty cells keep no ids
type CellSnapshot struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	IDs []TileID `json:"ids,omitempty"`
}

// Snapshot is a self-contained, pointer-free copy of a grid
type Snapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Cells  []CellSnapshot `json:"cells"`
}

// Snapshot captures the grid, empty cells included
func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{Width: g.Width(), Height: g.Height(), Cells: make([]CellSnapshot, 0, len(g.cells))}
	for _, p := range g.Points() {
		cs := CellSnapshot{X: p.X, Y: p.Y}
		if c := g.cells[p]; !c.Empty() {
			cs.IDs = c.IDs()
		}
		s.Cells = append(s.Cells, cs)
	}
	return s
}

// RestoreGrid builds a new grid from a snapshot
func RestoreGrid(s Snapshot) (*Grid, error) {
	g := NewGrid()
	for _, cs := range s.Cells {
		p := Position{X: cs.X, Y: cs.Y}
		cell := g.ensure(p)
		for _, id := range cs.IDs {
			t, err := NewTile(id, p)
			if err != nil {
				return nil, err
			}
			if cell.Get(t.Layer) != nil {
				return nil, ValidationFailedf("cell (%d,%d) holds two tiles on layer %d", p.X, p.Y, t.Layer)
			}
			cell.set(t.Layer, t)
		}
	}
	return g, nil
}

// Restore replaces the grid contents with the snapshot
func (g *Grid) Restore(s Snapshot) error {
	restored, err := RestoreGrid(s)
	if err != nil {
		return err
	}
	g.cells = restored.cells
	return nil
}
