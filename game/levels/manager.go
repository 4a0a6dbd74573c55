package levels

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/sokoban-game/game/engine"
)

const packExt = ".txt"

var (
	ErrPackNotFound  = errors.New("level pack not found")
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level pack loading and caching
type Manager struct {
	levelsDir    string
	defaultLevel *Level
	packs        map[string]*Pack
	mu           sync.RWMutex
}

// NewManager creates a new level manager over a directory of pack files
func NewManager(levelsDir string) (*Manager, error) {
	if _, err := os.Stat(levelsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("levels directory does not exist: %s", levelsDir)
	}

	return &Manager{
		levelsDir:    levelsDir,
		defaultLevel: defaultLevel(),
		packs:        make(map[string]*Pack),
	}, nil
}

// Dir returns the directory packs are read from
func (m *Manager) Dir() string {
	return m.levelsDir
}

// LoadPack loads a pack by name
func (m *Manager) LoadPack(name string) (*Pack, error) {
	name = strings.TrimSuffix(name, packExt)

	m.mu.RLock()
	if pack, exists := m.packs[name]; exists {
		m.mu.RUnlock()
		return pack, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if pack, exists := m.packs[name]; exists {
		return pack, nil
	}

	pack, err := m.readPack(name)
	if err != nil {
		return nil, err
	}
	m.packs[name] = pack
	return pack, nil
}

// readPack parses a pack file without touching the cache
func (m *Manager) readPack(name string) (*Pack, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrPackNotFound, name)
	}

	data, err := os.ReadFile(filepath.Join(m.levelsDir, name+packExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPackNotFound, name)
		}
		return nil, fmt.Errorf("failed to read pack file: %w", err)
	}

	pack, warnings, err := ParsePack(name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("level pack block skipped", "pack", name, "block", w.Block, "reason", w.Message)
	}
	return pack, nil
}

// ReloadPack drops a cached pack and reads it again
func (m *Manager) ReloadPack(name string) error {
	name = strings.TrimSuffix(name, packExt)
	pack, err := m.readPack(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.packs[name] = pack
	m.mu.Unlock()
	return nil
}

// packNames lists pack names found in the directory, sorted
func (m *Manager) packNames() ([]string, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), packExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), packExt))
	}
	sort.Strings(names)
	return names, nil
}

// ListPacks returns information about all available packs
func (m *Manager) ListPacks() ([]*PackInfo, error) {
	names, err := m.packNames()
	if err != nil {
		return nil, err
	}

	var packs []*PackInfo
	for _, name := range names {
		pack, err := m.LoadPack(name)
		if err != nil {
			// Skip unreadable packs
			slog.Warn("skipping level pack", "pack", name, "error", err)
			continue
		}
		packs = append(packs, &PackInfo{
			Filename:    name + packExt,
			Name:        name,
			Description: pack.Description,
			Levels:      len(pack.Levels),
		})
	}
	return packs, nil
}

// ListLevels describes the levels of one pack, or of all packs when pack
// is empty. With no packs on disk the built-in level is listed.
func (m *Manager) ListLevels(pack string) ([]*LevelInfo, error) {
	var names []string
	if pack != "" {
		names = []string{pack}
	} else {
		var err error
		if names, err = m.packNames(); err != nil {
			return nil, err
		}
	}

	var infos []*LevelInfo
	for _, name := range names {
		p, err := m.LoadPack(name)
		if err != nil {
			if pack != "" {
				return nil, err
			}
			continue
		}
		for _, l := range p.Levels {
			infos = append(infos, l.Info())
		}
	}

	if pack == "" && len(infos) == 0 {
		infos = append(infos, m.Default().Info())
	}
	return infos, nil
}

// Level loads a level by its "pack/index" ID
func (m *Manager) Level(id string) (*Level, error) {
	packName, index, err := ParseLevelID(id)
	if err != nil {
		return nil, err
	}

	pack, err := m.LoadPack(packName)
	if err != nil {
		if packName == DefaultPack && errors.Is(err, ErrPackNotFound) && index == 1 {
			return m.Default(), nil
		}
		return nil, err
	}
	return pack.Level(index)
}

// Random picks a level of the named pack, or of any pack when the name is
// empty. The built-in level is used when no pack has levels.
func (m *Manager) Random(pack string) (*Level, error) {
	if pack != "" {
		p, err := m.LoadPack(pack)
		if err != nil {
			return nil, err
		}
		if len(p.Levels) == 0 {
			return nil, fmt.Errorf("%w: pack %s is empty", ErrLevelNotFound, pack)
		}
		return p.Levels[rand.IntN(len(p.Levels))], nil
	}

	names, err := m.packNames()
	if err != nil {
		return nil, err
	}
	var all []*Level
	for _, name := range names {
		p, err := m.LoadPack(name)
		if err != nil {
			continue
		}
		all = append(all, p.Levels...)
	}
	if len(all) == 0 {
		return m.Default(), nil
	}
	return all[rand.IntN(len(all))], nil
}

// Default returns the default level
func (m *Manager) Default() *Level {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by ID
func (m *Manager) SetDefault(id string) error {
	level, err := m.Level(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache drops every cached pack; they are read again on next use
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packs = make(map[string]*Pack)
}

// ValidateLevel checks that a level parses and is playable
func (m *Manager) ValidateLevel(level *Level) error {
	grid, err := level.Grid(nil, engine.Standard)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := engine.ValidateGrid(grid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return nil
}

// SavePack validates every level of a pack and writes it to disk
func (m *Manager) SavePack(pack *Pack) error {
	if pack == nil || pack.Name == "" || strings.ContainsAny(pack.Name, `/\`) {
		return fmt.Errorf("%w: pack needs a plain name", ErrInvalidLevel)
	}
	for _, l := range pack.Levels {
		if err := m.ValidateLevel(l); err != nil {
			return fmt.Errorf("level %d: %w", l.Index, err)
		}
	}

	var buf bytes.Buffer
	if err := WritePack(&buf, pack); err != nil {
		return fmt.Errorf("failed to encode pack: %w", err)
	}

	packPath := filepath.Join(m.levelsDir, pack.Name+packExt)
	if err := os.WriteFile(packPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write pack file: %w", err)
	}

	m.mu.Lock()
	m.packs[pack.Name] = pack
	m.mu.Unlock()
	return nil
}
