package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, "localhost:8080", s.Addr())
	assert.Equal(t, BackendFile, s.Sessions.Backend)
	assert.Equal(t, 24*time.Hour, s.Sessions.TTL)
	assert.Nil(t, s.Game.Repair)
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
server:
  port: 9090
levels_dir: packs
default_level: microban/1
game:
  symbols: console
  max_bulk_moves: 10
  repair:
    add_walls: true
    delete_unused_tiles: true
sessions:
  backend: sqlite
  sqlite_path: /tmp/sessions.db
  ttl: 2h
  sync_interval: 30s
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", s.Server.Host, "unset keys keep their defaults")
	assert.Equal(t, 9090, s.Server.Port)
	assert.Equal(t, "packs", s.LevelsDir)
	assert.Equal(t, "microban/1", s.DefaultLevel)
	assert.Equal(t, "console", s.Game.Symbols)
	assert.Equal(t, 10, s.Game.MaxBulkMoves)
	require.NotNil(t, s.Game.Repair)
	assert.True(t, s.Game.Repair.AddWalls)
	assert.False(t, s.Game.Repair.RemoveLockedObjects)
	assert.Equal(t, BackendSQLite, s.Sessions.Backend)
	assert.Equal(t, 2*time.Hour, s.Sessions.TTL)
	assert.Equal(t, 30*time.Second, s.Sessions.SyncInterval)
	assert.Equal(t, time.Hour, s.Sessions.CleanupInterval)
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server, s.Server)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeSettings(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeSettings(t, "sessions:\n  backend: floppy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sessions.backend")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LEVELS_DIR":       "/srv/levels",
		"SESSIONS_BACKEND": "redis",
		"REDIS_ADDR":       "cache:6379",
	}
	s := Default()
	s.ApplyEnv(func(key string) string { return env[key] })

	assert.Equal(t, "/srv/levels", s.LevelsDir)
	assert.Equal(t, BackendRedis, s.Sessions.Backend)
	assert.Equal(t, "cache:6379", s.Sessions.RedisAddr)
	assert.Equal(t, "sessions", s.Sessions.Dir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Settings)
		contains string
	}{
		{"bad port", func(s *Settings) { s.Server.Port = 0 }, "server.port"},
		{"no levels dir", func(s *Settings) { s.LevelsDir = "" }, "levels_dir"},
		{"unknown rule", func(s *Settings) { s.Game.Rule = "chess" }, "game.rule"},
		{"too many bulk moves", func(s *Settings) { s.Game.MaxBulkMoves = 500 }, "max_bulk_moves"},
		{"postgres without dsn", func(s *Settings) { s.Sessions.Backend = BackendPostgres }, "postgres_dsn"},
		{"redis without addr", func(s *Settings) {
			s.Sessions.Backend = BackendRedis
			s.Sessions.RedisAddr = ""
		}, "redis_addr"},
		{"negative ttl", func(s *Settings) { s.Sessions.TTL = -time.Second }, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	s := Default()
	s.Sessions.Backend = "MEMORY"
	assert.NoError(t, s.Validate(), "backend names are case-insensitive")
}
