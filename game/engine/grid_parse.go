package engine

import "strings"

// ParseGrid builds a grid from text. Each rune is one cell; x is the rune
// index inside the trimmed line and y the line index. When repair is non-nil
// the grid is repaired with those options after parsing.
func ParseGrid(text string, repair *RepairOptions, symbols SymbolMap) (*Grid, error) {
	if symbols == nil {
		symbols = Standard
	}

	hasPlayer := false
	for _, s := range symbols.PlayerSymbols() {
		if strings.Contains(text, s) {
			hasPlayer = true
			break
		}
	}
	if !hasPlayer {
		return nil, NotFoundf("@Player not found")
	}

	g := NewGrid()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for y, line := range strings.Split(strings.TrimSpace(text), "\n") {
		x := 0
		for _, r := range strings.TrimSpace(line) {
			ids, err := symbols.TileIDs(string(r))
			if err != nil {
				return nil, err
			}
			pos := Position{X: x, Y: y}
			for _, id := range ids {
				if err := g.PlaceID(id, pos); err != nil {
					return nil, err
				}
			}
			x++
		}
	}

	if repair != nil {
		if _, err := g.Repair(*repair); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParseString parses standard level text without repair
func ParseString(text string) (*Grid, error) {
	return ParseGrid(text, nil, Standard)
}

// MustParse is ParseString for fixtures; it panics on error
func MustParse(text string) *Grid {
	g, err := ParseString(text)
	if err != nil {
		panic(err)
	}
	return g
}
