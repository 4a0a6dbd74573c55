package session

import (
	"fmt"
	"strings"

	"github.com/wricardo/sokoban-game/settings"
)

// NewPersistence builds the backend named in cfg. The memory backend has
// no persistence and returns nil.
func NewPersistence(cfg settings.Sessions) (SessionPersistence, error) {
	switch strings.ToLower(cfg.Backend) {
	case settings.BackendMemory:
		return nil, nil
	case settings.BackendFile, "":
		p, err := NewFilePersistence(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return p, nil
	case settings.BackendSQLite, settings.BackendPostgres:
		dialect, dsn := DialectSQLite, cfg.SQLitePath
		if strings.EqualFold(cfg.Backend, settings.BackendPostgres) {
			dialect, dsn = DialectPostgres, cfg.PostgresDSN
		}
		p, err := NewSQLPersistence(dialect, dsn, cfg.Compress)
		if err != nil {
			return nil, err
		}
		return p, nil
	case settings.BackendRedis:
		client, err := DialRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		p, err := NewRedisPersistence(client, cfg.RedisPrefix, cfg.TTL, cfg.Compress)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
