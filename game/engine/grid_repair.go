package engine

// RepairOptions toggles the individual repair passes
type RepairOptions struct {
	RemoveLockedObjects   bool `json:"remove_locked_objects" yaml:"remove_locked_objects"`
	AddGroundUnderObjects bool `json:"add_ground_under_objects" yaml:"add_ground_under_objects"`
	DeleteAirObjects      bool `json:"delete_air_objects" yaml:"delete_air_objects"`
	DeleteUnusedTiles     bool `json:"delete_unused_tiles" yaml:"delete_unused_tiles"`
	AddWalls              bool `json:"add_walls" yaml:"add_walls"`
	// StaticFreeBalls is accepted but has no effect yet.
	StaticFreeBalls bool `json:"static_free_balls" yaml:"static_free_balls"`
}

// DefaultRepairOptions returns the options used when none are given
func DefaultRepairOptions() RepairOptions {
	return RepairOptions{
		RemoveLockedObjects:   true,
		AddGroundUnderObjects: true,
		DeleteAirObjects:      false,
		DeleteUnusedTiles:     true,
		AddWalls:              true,
		StaticFreeBalls:       true,
	}
}

// RepairReport summarizes what a repair changed
type RepairReport struct {
	Players        []Position `json:"players"`
	ObjectsRemoved int        `json:"objects_removed"`
	GroundAdded    int        `json:"ground_added"`
	WallsAdded     int        `json:"walls_added"`
	CellsRemoved   int        `json:"cells_removed"`
}

// Repair normalizes a hand-made level in place. Cells are scanned in
// column, then row order; the reachability pass flood-fills from every
// player to find the walkable area, closes it with walls and drops
// everything outside it.
func (g *Grid) Repair(opts RepairOptions) (*RepairReport, error) {
	report := &RepairReport{}

	for _, p := range g.Points() {
		cell := g.cells[p]
		if opts.RemoveLockedObjects && cell.Ground != nil && !cell.Ground.CanMove && cell.Object != nil {
			cell.Object = nil
			report.ObjectsRemoved++
		}
		if cell.Object != nil && cell.Ground == nil {
			if opts.AddGroundUnderObjects {
				cell.Ground = mustTile(Earth, p)
				report.GroundAdded++
			} else if opts.DeleteAirObjects {
				cell.Object = nil
				report.ObjectsRemoved++
			}
		}
		if cell.Object != nil && cell.Object.ID == Player {
			report.Players = append(report.Players, p)
		}
	}

	if len(report.Players) == 0 {
		return nil, ValidationFailedf("@Player not found")
	}

	if opts.DeleteUnusedTiles || opts.AddWalls {
		pass := newReachPass(g, opts)
		pass.run(report.Players)
		pass.apply(report)
	}
	return report, nil
}

type mark int8

const (
	markUnset mark = iota
	markBorder
	markUsable
	markPotential
)

// Neighbor directions. dirCorner marks a diagonal neighbor, which never expands.
const (
	dirNone   = -1
	dirCorner = -2
)

// cornerOf lists the diagonal neighbors dropped together with an edge direction
var cornerOf = [4][2]int{{4, 5}, {6, 7}, {4, 7}, {5, 6}}

type neighbor struct {
	pos  Position
	from int
}

// around lists the eight neighbours of p, minus the edge pointing back to
// where the walk came from and its two adjacent corners.
func around(p Position, from int) []neighbor {
	all := [8]neighbor{
		{p.Add(0, -1), 1},
		{p.Add(0, 1), 0},
		{p.Add(-1, 0), 3},
		{p.Add(1, 0), 2},
		{p.Add(-1, -1), dirCorner},
		{p.Add(1, -1), dirCorner},
		{p.Add(1, 1), dirCorner},
		{p.Add(-1, 1), dirCorner},
	}
	var skip [8]bool
	if from >= 0 {
		skip[from] = true
		skip[cornerOf[from][0]] = true
		skip[cornerOf[from][1]] = true
	}
	out := make([]neighbor, 0, len(all))
	for i, pr := range all {
		if !skip[i] {
			out = append(out, pr)
		}
	}
	return out
}

type reachPass struct {
	g     *Grid
	opts  RepairOptions
	box   Box
	marks map[Position]mark
}

func newReachPass(g *Grid, opts RepairOptions) *reachPass {
	r := &reachPass{
		g:     g,
		opts:  opts,
		box:   g.BoundingBox(),
		marks: make(map[Position]mark),
	}
	for x := r.box.MinX; x <= r.box.MaxX; x++ {
		for y := r.box.MinY; y <= r.box.MaxY; y++ {
			r.marks[Position{X: x, Y: y}] = markUnset
		}
	}
	return r
}

func (r *reachPass) run(players []Position) {
	for _, p := range players {
		if r.marks[p] == markUsable {
			continue
		}
		r.marks[p] = markUsable
		stack := around(p, dirNone)
		for len(stack) > 0 {
			pr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, r.visit(pr)...)
		}
	}
}

func (r *reachPass) visit(pr neighbor) []neighbor {
	p := pr.pos
	if !r.box.Contains(p) {
		if !r.opts.AddWalls {
			return nil
		}
		if p.X < r.box.MinX {
			r.addColumn(false)
		}
		if p.X > r.box.MaxX {
			r.addColumn(true)
		}
		if p.Y < r.box.MinY {
			r.addRow(false)
		}
		if p.Y > r.box.MaxY {
			r.addRow(true)
		}
		r.marks[p] = markPotential
		return nil
	}

	if m := r.marks[p]; m != markUnset && m != markPotential {
		return nil
	}

	cell := r.g.cells[p]
	switch {
	case cell == nil || cell.Ground == nil:
		r.marks[p] = markPotential
		return nil
	case !cell.Ground.CanMove:
		r.marks[p] = markBorder
		return nil
	case pr.from == dirCorner:
		r.marks[p] = markPotential
		return nil
	}

	r.marks[p] = markUsable
	return around(p, pr.from)
}

func (r *reachPass) addRow(end bool) {
	var y int
	if end {
		r.box.MaxY++
		y = r.box.MaxY
	} else {
		r.box.MinY--
		y = r.box.MinY
	}
	for x := r.box.MinX; x <= r.box.MaxX; x++ {
		p := Position{X: x, Y: y}
		r.marks[p] = markUnset
		r.g.SetEmpty(p)
	}
}

func (r *reachPass) addColumn(end bool) {
	var x int
	if end {
		r.box.MaxX++
		x = r.box.MaxX
	} else {
		r.box.MinX--
		x = r.box.MinX
	}
	for y := r.box.MinY; y <= r.box.MaxY; y++ {
		p := Position{X: x, Y: y}
		r.marks[p] = markUnset
		r.g.SetEmpty(p)
	}
}

func (r *reachPass) apply(report *RepairReport) {
	for p, m := range r.marks {
		if r.opts.AddWalls && m == markPotential {
			r.g.cells[p] = &Cell{Ground: mustTile(Wall, p)}
			report.WallsAdded++
			continue
		}
		if r.opts.DeleteUnusedTiles && m != markUsable && m != markBorder {
			if r.g.HasCell(p) {
				report.CellsRemoved++
			}
			r.g.DeleteCell(p)
		}
	}
}
