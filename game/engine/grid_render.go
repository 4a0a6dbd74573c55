package engine

import "strings"

var orthogonal = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Render draws the grid row by row. Rows start at the global minimum x and
// stop at the last cell present in that row. Missing or empty cells become a
// wall glyph when they touch walkable ground, otherwise the out-border glyph.
func (g *Grid) Render(symbols SymbolMap) string {
	if symbols == nil {
		symbols = Standard
	}
	if len(g.cells) == 0 {
		return ""
	}

	box := g.BoundingBox()
	rowEnd := make(map[int]int)
	for p := range g.cells {
		if end, ok := rowEnd[p.Y]; !ok || p.X > end {
			rowEnd[p.Y] = p.X
		}
	}

	var b strings.Builder
	for y := box.MinY; y <= box.MaxY; y++ {
		if end, ok := rowEnd[y]; ok {
			for x := box.MinX; x <= end; x++ {
				b.WriteString(g.glyph(Position{X: x, Y: y}, symbols))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) String() string {
	return g.Render(Standard)
}

// Lines renders the grid and splits it into rows
func (g *Grid) Lines(symbols SymbolMap) []string {
	out := strings.TrimSuffix(g.Render(symbols), "\n")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

func (g *Grid) glyph(p Position, symbols SymbolMap) string {
	if c := g.cells[p]; c != nil && !c.Empty() {
		if s, ok := symbols.Symbol(c.IDs()); ok {
			return s
		}
		return symbols.Undefined()
	}
	for _, d := range orthogonal {
		n := g.cells[p.Add(d[0], d[1])]
		if n != nil && n.Ground != nil && n.Ground.CanMove {
			return symbols.WallSymbol()
		}
	}
	return symbols.OutBorder()
}
