package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/wricardo/sokoban-game/game/service"
)

const (
	defaultRedisPrefix  = "sokoban:session:"
	redisOpTimeout      = 5 * time.Second
	redisIndexKeySuffix = "@index"
)

// RedisPersistence implements SessionPersistence on Redis string keys.
// A set at <prefix>index tracks the stored IDs.
type RedisPersistence struct {
	client   redis.UniversalClient
	prefix   string
	ttl      time.Duration
	compress bool
}

// NewRedisPersistence wraps client. A zero ttl keeps sessions forever.
func NewRedisPersistence(client redis.UniversalClient, prefix string, ttl time.Duration, compress bool) (*RedisPersistence, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisPersistence{client: client, prefix: prefix, ttl: ttl, compress: compress}, nil
}

// DialRedis connects to addr and checks the connection
func DialRedis(addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + strings.ToLower(id)
}

func (rp *RedisPersistence) indexKey() string {
	return rp.prefix + redisIndexKeySuffix
}

// Save stores the session and records it in the index
func (rp *RedisPersistence) Save(session *service.Session) error {
	blob, err := encodeSession(session, rp.compress)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := rp.client.TxPipeline()
	pipe.Set(ctx, rp.key(session.ID), blob, rp.ttl)
	pipe.SAdd(ctx, rp.indexKey(), strings.ToLower(session.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Load fetches and restores a session
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	blob, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	return decodeSession(blob)
}

// Delete removes the session key and its index entry
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	removed, err := rp.client.Del(ctx, rp.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	if err := rp.client.SRem(ctx, rp.indexKey(), strings.ToLower(id)).Err(); err != nil {
		return fmt.Errorf("failed to update session index: %w", err)
	}
	if removed == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the indexed IDs whose keys are still alive, pruning
// entries whose key expired.
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	members, err := rp.client.SMembers(ctx, rp.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session index: %w", err)
	}

	ids := make([]string, 0, len(members))
	for _, id := range members {
		n, err := rp.client.Exists(ctx, rp.key(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if n == 0 {
			rp.client.SRem(ctx, rp.indexKey(), id)
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Exists checks whether the session key is present
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}

// Close closes the underlying client
func (rp *RedisPersistence) Close() error {
	return rp.client.Close()
}
