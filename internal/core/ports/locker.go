package ports

import (
	"context"
	"errors"
)

// ErrLockNotAcquired is returned when a lock could not be taken before the wait deadline.
var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker serializes work on agents, groups and orders across goroutines and, for the
// Redis implementation, across processes.
//
// Acquire takes every key or none. Implementations sort the keys before locking so two
// callers asking for overlapping sets can never deadlock.
//
// Example:
//
//	lease, err := locker.Acquire(ctx, ports.OrderLockKey(orderID), ports.GroupLockKey(groupID))
//	if err != nil {
//	    return err
//	}
//	defer lease.Release(context.WithoutCancel(ctx))
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (Lease, error)
}

// Lease is a set of held locks.
type Lease interface {
	// Release frees every key of the lease. Releasing twice is a no-op.
	Release(ctx context.Context) error
}
