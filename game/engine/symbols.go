package engine

import "strings"

// SymbolMap translates between text glyphs and stacks of tile ids.
// Ids are always ordered ground first.
type SymbolMap interface {
	Name() string
	TileIDs(symbol string) ([]TileID, error)
	Symbol(ids []TileID) (string, bool)
	PlayerSymbols() []string
	Undefined() string
	OutBorder() string
	WallSymbol() string
}

type symbolEntry struct {
	symbol string
	ids    []TileID
}

type tableSymbolMap struct {
	name      string
	entries   []symbolEntry
	undefined string
	outBorder string
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiWhite  = "\x1b[37m"
	ansiBgRed  = "\x1b[41m"
	ansiBgCyan = "\x1b[46m"
)

func paint(color, s string) string {
	return color + s + ansiReset
}

var (
	// Standard is the plain text format used by level files
	Standard SymbolMap = &tableSymbolMap{
		name: "standard",
		entries: []symbolEntry{
			{"@", []TileID{Earth, Player}},
			{"+", []TileID{Target, Player}},
			{"-", []TileID{Earth}},
			{".", []TileID{Target}},
			{"#", []TileID{Wall}},
			{"$", []TileID{Earth, Ball}},
			{"*", []TileID{Target, Ball}},
			{"?", []TileID{Void}},
		},
		undefined: "?",
		outBorder: "-",
	}

	// Console is a terminal friendly variant
	Console SymbolMap = &tableSymbolMap{
		name: "console",
		entries: []symbolEntry{
			{"@", []TileID{Earth, Player}},
			{"A", []TileID{Target, Player}},
			{" ", []TileID{Earth}},
			{"×", []TileID{Target}},
			{"#", []TileID{Wall}},
			{"O", []TileID{Earth, Ball}},
			{"Θ", []TileID{Target, Ball}},
			{"F", []TileID{Void}},
		},
		undefined: "?",
		outBorder: " ",
	}

	// ConsoleColor wraps the console glyphs in ANSI colors. Output only.
	ConsoleColor SymbolMap = &tableSymbolMap{
		name: "color",
		entries: []symbolEntry{
			{paint(ansiCyan, "@"), []TileID{Earth, Player}},
			{paint(ansiRed, "@"), []TileID{Target, Player}},
			{" ", []TileID{Earth}},
			{paint(ansiYellow, "×"), []TileID{Target}},
			{paint(ansiWhite, "#"), []TileID{Wall}},
			{paint(ansiRed, "O"), []TileID{Earth, Ball}},
			{paint(ansiGreen, "Θ"), []TileID{Target, Ball}},
			{paint(ansiBgCyan, "F"), []TileID{Void}},
		},
		undefined: paint(ansiBgRed, "?"),
		outBorder: paint(ansiBgCyan, " "),
	}
)

// SymbolMapByName resolves a map by name, falling back to Standard
func SymbolMapByName(name string) SymbolMap {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "console":
		return Console
	case "color", "console-color", "colour":
		return ConsoleColor
	default:
		return Standard
	}
}

func (m *tableSymbolMap) Name() string {
	return m.name
}

func (m *tableSymbolMap) TileIDs(symbol string) ([]TileID, error) {
	for _, e := range m.entries {
		if e.symbol == symbol {
			ids := make([]TileID, len(e.ids))
			copy(ids, e.ids)
			return ids, nil
		}
	}
	if symbol == m.outBorder {
		return []TileID{Earth}, nil
	}
	return nil, NotFoundf("undefined symbol %s", symbol)
}

func (m *tableSymbolMap) Symbol(ids []TileID) (string, bool) {
	for _, e := range m.entries {
		if sameIDs(e.ids, ids) {
			return e.symbol, true
		}
	}
	return "", false
}

func (m *tableSymbolMap) PlayerSymbols() []string {
	var out []string
	for _, e := range m.entries {
		for _, id := range e.ids {
			if id == Player {
				out = append(out, e.symbol)
				break
			}
		}
	}
	return out
}

func (m *tableSymbolMap) Undefined() string {
	return m.undefined
}

func (m *tableSymbolMap) OutBorder() string {
	return m.outBorder
}

func (m *tableSymbolMap) WallSymbol() string {
	if s, ok := m.Symbol([]TileID{Wall}); ok {
		return s
	}
	return m.undefined
}

func sameIDs(a, b []TileID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
