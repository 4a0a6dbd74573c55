package engine

import "fmt"

// Resolve computes the push chain started by the object at from moving one
// step in the direction of kind. The pusher's power is a budget: each cell
// entered costs its ground power and each pushed object its own power.
// The returned action lists tiles farthest first. ok is false when the move
// is blocked or the budget runs out.
func Resolve(g *Grid, from Position, kind ActionKind) (*Action, bool) {
	dir, isMove := kind.Direction()
	if !isMove {
		return nil, false
	}
	pusher := g.Tile(from, LayerObject)
	if pusher == nil {
		return nil, false
	}

	chain := []MoveEntry{{From: from, Layer: pusher.Layer, Tile: pusher.ID}}
	power := pusher.Power
	cur := from
	for {
		cur = cur.Add(dir.DX, dir.DY)
		cell := g.Cell(cur)
		if !cell.Passable() {
			return nil, false
		}
		power -= cell.Ground.Power
		if cell.Object == nil {
			if power < 0 {
				return nil, false
			}
			break
		}
		power -= cell.Object.Power
		chain = append(chain, MoveEntry{From: cur, Layer: cell.Object.Layer, Tile: cell.Object.ID})
		if power < 0 {
			return nil, false
		}
	}

	moves := make([]MoveEntry, len(chain))
	for i, e := range chain {
		moves[len(chain)-1-i] = e
	}
	return &Action{Kind: kind, Moves: moves}, true
}

// ApplyAction moves every tile of a move action one step, farthest first
func ApplyAction(g *Grid, a *Action) error {
	dir, ok := a.Kind.Direction()
	if !ok {
		return ValidationFailedf("%s is not a move", a.Kind)
	}
	for _, m := range a.Moves {
		if err := g.Relocate(m.From, m.From.Add(dir.DX, dir.DY), m.Layer); err != nil {
			return err
		}
	}
	return nil
}

// UndoAction moves every tile of a move action back, nearest first
func UndoAction(g *Grid, a *Action) error {
	dir, ok := a.Kind.Direction()
	if !ok {
		return ValidationFailedf("%s is not a move", a.Kind)
	}
	for i := len(a.Moves) - 1; i >= 0; i-- {
		m := a.Moves[i]
		if err := g.Relocate(m.From.Add(dir.DX, dir.DY), m.From, m.Layer); err != nil {
			return err
		}
	}
	return nil
}

// BlockReason explains why the object at from cannot move; empty when it can
func BlockReason(g *Grid, from Position, kind ActionKind) string {
	dir, ok := kind.Direction()
	if !ok {
		return fmt.Sprintf("%s is not a move", kind)
	}
	if _, ok := Resolve(g, from, kind); ok {
		return ""
	}
	next := from.Add(dir.DX, dir.DY)
	cell := g.Cell(next)
	switch {
	case cell == nil || cell.Ground == nil:
		return fmt.Sprintf("nothing at (%d,%d) moving %s", next.X, next.Y, kind)
	case !cell.Ground.CanMove:
		return fmt.Sprintf("hit %s at (%d,%d) moving %s", cell.Ground.Name, next.X, next.Y, kind)
	case cell.Object != nil && !cell.Object.CanMove:
		return fmt.Sprintf("%s at (%d,%d) cannot move", cell.Object.Name, next.X, next.Y)
	default:
		return fmt.Sprintf("cannot push %s: chain too heavy or blocked", kind)
	}
}
