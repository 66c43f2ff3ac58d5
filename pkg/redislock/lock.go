// Package redislock provides a single-holder lock on Redis so that only one
// process at a time runs a given job.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotHeld is returned by Release when the lock expired or belongs to someone else
var ErrNotHeld = errors.New("redislock: lock not held")

// Only delete the key if it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Locker hands out leases on named keys
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

// Lease is a held lock; call Release when the guarded work is done
type Lease struct {
	rdb   *redis.Client
	key   string
	token string
}

// Connect opens a Redis client and verifies connectivity
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// New creates a Locker whose leases expire after ttl if never released
func New(rdb *redis.Client, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl}
}

// TryAcquire takes the lock without waiting. It returns nil, nil when another
// holder has it.
func (l *Locker) TryAcquire(ctx context.Context, key string) (*Lease, error) {
	token := uuid.New().String()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx failed: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &Lease{rdb: l.rdb, key: key, token: token}, nil
}

// Release deletes the lock if this lease still owns it
func (le *Lease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, le.rdb, []string{le.key}, le.token).Int()
	if err != nil {
		return fmt.Errorf("redis release failed: %w", err)
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}
