// Package locks provides the in-process implementation of ports.Locker.
package locks

import (
	"context"
	"slices"
	"sync"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

var _ ports.Locker = &KeyedLocker{}

// KeyedLocker is a set of named mutexes that honour context cancellation.
// Entries are created on first use and dropped once nobody holds or waits for them.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	// ch has capacity 1; a full channel means the key is held.
	ch   chan struct{}
	refs int
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{entries: make(map[string]*entry)}
}

// Acquire locks every key in sorted order, or none if ctx ends first.
func (l *KeyedLocker) Acquire(ctx context.Context, keys ...string) (ports.Lease, error) {
	started := time.Now()
	defer func() {
		metrics.LockWaitSeconds.WithLabelValues("memory").Observe(time.Since(started).Seconds())
	}()

	sorted := normalizeKeys(keys)
	held := make([]string, 0, len(sorted))
	for _, key := range sorted {
		if err := l.lock(ctx, key); err != nil {
			for _, k := range held {
				l.unlock(k)
			}
			return nil, err
		}
		held = append(held, key)
	}
	return &lease{locker: l, keys: held}, nil
}

func (l *KeyedLocker) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.drop(key, e)
		l.mu.Unlock()
		return ctx.Err()
	}
}

func (l *KeyedLocker) unlock(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	<-e.ch
	l.drop(key, e)
}

// drop must be called with l.mu held.
func (l *KeyedLocker) drop(key string, e *entry) {
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

type lease struct {
	once   sync.Once
	locker *KeyedLocker
	keys   []string
}

func (l *lease) Release(_ context.Context) error {
	l.once.Do(func() {
		for i := len(l.keys) - 1; i >= 0; i-- {
			l.locker.unlock(l.keys[i])
		}
	})
	return nil
}

// normalizeKeys sorts and de-duplicates keys so overlapping sets are always taken in the
// same order.
func normalizeKeys(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
