package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"disposal-backend/pkg/redislock"
)

var (
	// ErrCycleInProgress is returned when a cycle is requested while another is running
	ErrCycleInProgress = errors.New("notification cycle already in progress")
	// ErrDisabled is returned when the dispatcher is not running
	ErrDisabled = errors.New("notifications disabled")
)

// dispatchLockKey is the shared lock name used when several instances run
const dispatchLockKey = "notify:dispatch:lock"

// Lease is a held distributed lock
type Lease interface {
	Release(ctx context.Context) error
}

// Locker grants at most one instance the right to run a cycle. TryAcquire
// returns a nil Lease without error when another holder has the lock.
type Locker interface {
	TryAcquire(ctx context.Context, key string) (Lease, error)
}

// RedisLocker adapts a redislock.Locker to Locker
func RedisLocker(l *redislock.Locker) Locker {
	return redisLocker{l: l}
}

type redisLocker struct {
	l *redislock.Locker
}

func (r redisLocker) TryAcquire(ctx context.Context, key string) (Lease, error) {
	lease, err := r.l.TryAcquire(ctx, key)
	if err != nil || lease == nil {
		return nil, err
	}
	return lease, nil
}

// cycleGuard keeps cycles from overlapping inside the process and, when a
// Locker is set, across instances.
type cycleGuard struct {
	mu      sync.Mutex
	running atomic.Bool
	locker  Locker
}

// enter returns a release func, or ErrCycleInProgress if a cycle is running
func (g *cycleGuard) enter(ctx context.Context) (func(), error) {
	if !g.mu.TryLock() {
		return nil, ErrCycleInProgress
	}

	var lease Lease
	if g.locker != nil {
		l, err := g.locker.TryAcquire(ctx, dispatchLockKey)
		if err != nil {
			g.mu.Unlock()
			return nil, fmt.Errorf("acquire dispatch lock: %w", err)
		}
		if l == nil {
			g.mu.Unlock()
			return nil, ErrCycleInProgress
		}
		lease = l
	}

	g.running.Store(true)
	return func() {
		g.running.Store(false)
		if lease != nil {
			// Release failures are left to the lock TTL
			_ = lease.Release(context.WithoutCancel(ctx))
		}
		g.mu.Unlock()
	}, nil
}

func (g *cycleGuard) isRunning() bool {
	return g.running.Load()
}
