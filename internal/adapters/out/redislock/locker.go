// Package redislock implements ports.Locker on Redis so several service instances share
// one set of agent, group and order locks.
package redislock

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL   = 30 * time.Second
	DefaultWait  = 5 * time.Second
	keyPrefix    = "dispatch:lock:"
	pollInterval = 10 * time.Millisecond
)

// releaseScript deletes each key only if it still holds our token.
// KEYS = lock keys, ARGV[1] = token
var releaseScript = redis.NewScript(`
local released = 0
for _, key in ipairs(KEYS) do
    if redis.call("GET", key) == ARGV[1] then
        released = released + redis.call("DEL", key)
    end
end
return released
`)

var _ ports.Locker = &Locker{}

// Locker takes keys with SET NX PX. A lease that is never released expires after ttl.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
}

// NewLocker creates a Locker. Non-positive ttl or wait fall back to the defaults.
func NewLocker(client redis.UniversalClient, ttl, wait time.Duration) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Locker{client: client, ttl: ttl, wait: wait}, nil
}

// Acquire takes every key in sorted order. It gives up with ports.ErrLockNotAcquired once
// the wait budget is spent, or with ctx.Err() when ctx ends first. Keys taken so far are
// released before returning an error.
func (l *Locker) Acquire(ctx context.Context, keys ...string) (ports.Lease, error) {
	started := time.Now()
	defer func() {
		metrics.LockWaitSeconds.WithLabelValues("redis").Observe(time.Since(started).Seconds())
	}()

	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := &lease{client: l.client, token: uuid.NewString(), keys: make([]string, 0, len(sorted))}
	deadline := started.Add(l.wait)
	for _, key := range sorted {
		if err := l.take(ctx, keyPrefix+key, held.token, deadline); err != nil {
			_ = held.Release(context.WithoutCancel(ctx))
			return nil, err
		}
		held.keys = append(held.keys, keyPrefix+key)
	}
	return held, nil
}

func (l *Locker) take(ctx context.Context, key, token string, deadline time.Time) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ports.ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

type lease struct {
	once   sync.Once
	err    error
	client redis.UniversalClient
	token  string
	keys   []string
}

func (l *lease) Release(ctx context.Context) error {
	l.once.Do(func() {
		if len(l.keys) == 0 {
			return
		}
		l.err = releaseScript.Run(ctx, l.client, l.keys, l.token).Err()
	})
	return l.err
}
