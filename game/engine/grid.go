package engine

import "sort"

// Cell holds at most one tile per layer. A cell may exist while empty.
type Cell struct {
	Ground *Tile
	Object *Tile
}

// Get returns the tile on the given layer
func (c *Cell) Get(layer Layer) *Tile {
	if layer == LayerGround {
		return c.Ground
	}
	return c.Object
}

func (c *Cell) set(layer Layer, t *Tile) {
	if layer == LayerGround {
		c.Ground = t
	} else {
		c.Object = t
	}
}

// Empty reports whether the cell has no tiles
func (c *Cell) Empty() bool {
	return c.Ground == nil && c.Object == nil
}

// IDs returns the tile ids of the cell, ground first
func (c *Cell) IDs() []TileID {
	ids := make([]TileID, 0, 2)
	if c.Ground != nil {
		ids = append(ids, c.Ground.ID)
	}
	if c.Object != nil {
		ids = append(ids, c.Object.ID)
	}
	return ids
}

// Passable reports whether a tile may enter the cell
func (c *Cell) Passable() bool {
	if c == nil || c.Ground == nil || !c.Ground.CanMove {
		return false
	}
	return c.Object == nil || c.Object.CanMove
}

// Grid is a sparse 2D map of cells keyed by position
type Grid struct {
	cells map[Position]*Cell
}

// NewGrid creates an empty grid
func NewGrid() *Grid {
	return &Grid{cells: make(map[Position]*Cell)}
}

// Cell returns the cell at p or nil when absent
func (g *Grid) Cell(p Position) *Cell {
	return g.cells[p]
}

// HasCell reports whether a cell exists at p, empty or not
func (g *Grid) HasCell(p Position) bool {
	_, ok := g.cells[p]
	return ok
}

// Len returns the number of cells, empty ones included
func (g *Grid) Len() int {
	return len(g.cells)
}

func (g *Grid) ensure(p Position) *Cell {
	c, ok := g.cells[p]
	if !ok {
		c = &Cell{}
		g.cells[p] = c
	}
	return c
}

// Tile returns the tile at p on layer, or nil
func (g *Grid) Tile(p Position, layer Layer) *Tile {
	c := g.cells[p]
	if c == nil {
		return nil
	}
	return c.Get(layer)
}

// Place puts t at its own position, replacing whatever shares its layer
func (g *Grid) Place(t *Tile) {
	g.ensure(t.Position).set(t.Layer, t)
}

// PlaceID creates a tile of id at p and places it
func (g *Grid) PlaceID(id TileID, p Position) error {
	t, err := NewTile(id, p)
	if err != nil {
		return err
	}
	g.Place(t)
	return nil
}

// Remove takes the tile at p on layer out of the grid; the cell stays
func (g *Grid) Remove(p Position, layer Layer) *Tile {
	c := g.cells[p]
	if c == nil {
		return nil
	}
	t := c.Get(layer)
	c.set(layer, nil)
	return t
}

// SetEmpty makes sure an empty cell exists at p
func (g *Grid) SetEmpty(p Position) {
	g.cells[p] = &Cell{}
}

// DeleteCell removes the cell at p entirely
func (g *Grid) DeleteCell(p Position) {
	delete(g.cells, p)
}

// Relocate moves the tile on layer from one position to another
func (g *Grid) Relocate(from, to Position, layer Layer) error {
	t := g.Tile(from, layer)
	if t == nil {
		return OutOfBoundsf("no tile on layer %d at (%d,%d)", layer, from.X, from.Y)
	}
	g.cells[from].set(layer, nil)
	t.Position = to
	g.ensure(to).set(layer, t)
	return nil
}

// Points returns every cell position ordered by column, then row
func (g *Grid) Points() []Position {
	points := make([]Position, 0, len(g.cells))
	for p := range g.cells {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
	return points
}

// BoundingBox returns the inclusive extent of all cells, empty ones included
func (g *Grid) BoundingBox() Box {
	first := true
	var b Box
	for p := range g.cells {
		if first {
			b = Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			continue
		}
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Width returns the number of columns spanned by the grid
func (g *Grid) Width() int {
	if len(g.cells) == 0 {
		return 0
	}
	return g.BoundingBox().Width()
}

// Height returns the number of rows spanned by the grid
func (g *Grid) Height() int {
	if len(g.cells) == 0 {
		return 0
	}
	return g.BoundingBox().Height()
}

// Find returns every tile with the given id in column, then row order
func (g *Grid) Find(id TileID) []*Tile {
	kind, err := LookupKind(id)
	if err != nil {
		return nil
	}
	var out []*Tile
	for _, p := range g.Points() {
		if t := g.cells[p].Get(kind.Layer); t != nil && t.ID == id {
			out = append(out, t)
		}
	}
	return out
}

// Count returns how many tiles with the given id are on the grid
func (g *Grid) Count(id TileID) int {
	kind, err := LookupKind(id)
	if err != nil {
		return 0
	}
	n := 0
	for _, c := range g.cells {
		if t := c.Get(kind.Layer); t != nil && t.ID == id {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	out := &Grid{cells: make(map[Position]*Cell, len(g.cells))}
	for p, c := range g.cells {
		nc := &Cell{}
		if c.Ground != nil {
			t := *c.Ground
			nc.Ground = &t
		}
		if c.Object != nil {
			t := *c.Object
			nc.Object = &t
		}
		out.cells[p] = nc
	}
	return out
}
