package levels

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
)

// DefaultPack names the pack of the built-in level
const DefaultPack = "default"

// Level is one puzzle of a pack
type Level struct {
	ID          string     `json:"id"`
	Pack        string     `json:"pack"`
	Index       int        `json:"index"`
	Author      string     `json:"author,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Map         string     `json:"map"`
}

// Grid parses the level map. A nil repair leaves the map as written.
func (l *Level) Grid(repair *engine.RepairOptions, symbols engine.SymbolMap) (*engine.Grid, error) {
	return engine.ParseGrid(l.Map, repair, symbols)
}

// Title returns the level name, or its ID for unnamed levels
func (l *Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Info summarizes the level for listings. Levels whose map does not parse
// are listed without their counts.
func (l *Level) Info() *LevelInfo {
	info := &LevelInfo{
		ID:          l.ID,
		Pack:        l.Pack,
		Index:       l.Index,
		Name:        l.Title(),
		Author:      l.Author,
		Description: l.Description,
	}
	if g, err := l.Grid(nil, engine.Standard); err == nil {
		info.Width = g.Width()
		info.Height = g.Height()
		info.Balls = g.Count(engine.Ball)
		info.Targets = g.Count(engine.Target)
	}
	return info
}

// LevelInfo describes a level without its map
type LevelInfo struct {
	ID          string `json:"id"`
	Pack        string `json:"pack"`
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Balls       int    `json:"balls"`
	Targets     int    `json:"targets"`
}

// PackInfo describes a pack file
type PackInfo struct {
	Filename    string `json:"filename"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Levels      int    `json:"levels"`
}

// LevelID joins a pack name and a 1-based index
func LevelID(pack string, index int) string {
	return fmt.Sprintf("%s/%d", pack, index)
}

// ParseLevelID splits "pack/index". A bare pack name means its first level.
func ParseLevelID(id string) (string, int, error) {
	id = strings.TrimSpace(id)
	pack, num, found := strings.Cut(id, "/")
	if pack == "" {
		return "", 0, fmt.Errorf("%w: empty level id", ErrInvalidLevel)
	}
	if !found {
		return pack, 1, nil
	}
	index, err := strconv.Atoi(num)
	if err != nil || index < 1 {
		return "", 0, fmt.Errorf("%w: bad level index %q", ErrInvalidLevel, num)
	}
	return pack, index, nil
}

// defaultLevel is served when no pack provides a level
func defaultLevel() *Level {
	return &Level{
		ID:     LevelID(DefaultPack, 1),
		Pack:   DefaultPack,
		Index:  1,
		Name:   "test",
		Author: "author",
		Map:    "-#####\n-#--*#\n-#-.-#\n##-$-#\n#-@-##\n#####\n",
	}
}
