// Package settings loads the server settings file.
//
// Settings are read from YAML on top of Default, then selected environment
// variables override the file:
//
//	LEVELS_DIR        levels_dir
//	SESSIONS_BACKEND  sessions.backend
//	SESSIONS_DIR      sessions.dir
//	SQLITE_PATH       sessions.sqlite_path
//	POSTGRES_DSN      sessions.postgres_dsn
//	REDIS_ADDR        sessions.redis_addr
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/sokoban-game/game/engine"
)

// Session storage backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendRedis}

type Settings struct {
	Server       Server   `yaml:"server"`
	LevelsDir    string   `yaml:"levels_dir"`
	DefaultLevel string   `yaml:"default_level"`
	Game         Game     `yaml:"game"`
	Sessions     Sessions `yaml:"sessions"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Game struct {
	Rule         string                `yaml:"rule"`
	Repair       *engine.RepairOptions `yaml:"repair"`
	Symbols      string                `yaml:"symbols"`
	MaxBulkMoves int                   `yaml:"max_bulk_moves"`
}

type Sessions struct {
	Backend         string        `yaml:"backend"`
	Dir             string        `yaml:"dir"`
	SQLitePath      string        `yaml:"sqlite_path"`
	PostgresDSN     string        `yaml:"postgres_dsn"`
	RedisAddr       string        `yaml:"redis_addr"`
	RedisDB         int           `yaml:"redis_db"`
	RedisPrefix     string        `yaml:"redis_prefix"`
	Compress        bool          `yaml:"compress"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	SyncInterval    time.Duration `yaml:"sync_interval"`
}

// Default returns the settings used when no file is present
func Default() Settings {
	return Settings{
		Server:       Server{Host: "localhost", Port: 8080},
		LevelsDir:    "levels",
		DefaultLevel: "",
		Game: Game{
			Rule:         "classic",
			Symbols:      "standard",
			MaxBulkMoves: engine.MaxBulkMoves,
		},
		Sessions: Sessions{
			Backend:         BackendFile,
			Dir:             "sessions",
			SQLitePath:      "sessions.db",
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "sokoban:session:",
			Compress:        true,
			TTL:             24 * time.Hour,
			CleanupInterval: time.Hour,
			SyncInterval:    5 * time.Second,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &s); err != nil {
				return s, fmt.Errorf("%s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return s, err
		}
	}
	s.ApplyEnv(os.Getenv)
	return s, s.Validate()
}

// ApplyEnv overrides settings from environment variables
func (s *Settings) ApplyEnv(getenv func(string) string) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"LEVELS_DIR", &s.LevelsDir},
		{"SESSIONS_BACKEND", &s.Sessions.Backend},
		{"SESSIONS_DIR", &s.Sessions.Dir},
		{"SQLITE_PATH", &s.Sessions.SQLitePath},
		{"POSTGRES_DSN", &s.Sessions.PostgresDSN},
		{"REDIS_ADDR", &s.Sessions.RedisAddr},
	}
	for _, o := range overrides {
		if v := getenv(o.key); v != "" {
			*o.target = v
		}
	}
}

// Validate checks the settings for consistency
func (s Settings) Validate() error {
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Server.Port)
	}
	if s.LevelsDir == "" {
		return errors.New("levels_dir is required")
	}
	if _, err := engine.NewRule(s.Game.Rule); err != nil {
		return fmt.Errorf("game.rule: %w", err)
	}
	if s.Game.MaxBulkMoves < 1 || s.Game.MaxBulkMoves > engine.MaxBulkMoves {
		return fmt.Errorf("game.max_bulk_moves must be between 1 and %d, got %d", engine.MaxBulkMoves, s.Game.MaxBulkMoves)
	}
	return s.Sessions.Validate()
}

// Validate checks the session storage settings
func (s Sessions) Validate() error {
	backend := strings.ToLower(s.Backend)
	known := false
	for _, b := range backends {
		if b == backend {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("sessions.backend must be one of %s, got %q", strings.Join(backends, ", "), s.Backend)
	}

	switch backend {
	case BackendFile:
		if s.Dir == "" {
			return errors.New("sessions.dir is required for the file backend")
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			return errors.New("sessions.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if s.PostgresDSN == "" {
			return errors.New("sessions.postgres_dsn is required for the postgres backend")
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("sessions.redis_addr is required for the redis backend")
		}
	}

	if s.TTL < 0 || s.CleanupInterval < 0 || s.SyncInterval < 0 {
		return errors.New("sessions durations cannot be negative")
	}
	return nil
}

// Addr returns the host:port the server listens on
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}
