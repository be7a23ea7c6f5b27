package redis

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when another holder owns the lease.
var ErrLockHeld = errors.New("entity lock held")

// DefaultLockLease bounds how long a crashed holder can block an entity.
const DefaultLockLease = 10 * time.Second

var (
	lockSetNX = SetNX
	lockGet   = Get
	lockDel   = Del
)

// EntityLock serializes mutating operations per entity id. The lease is
// advisory; the optimistic status check in the store remains the hard
// guarantee against torn writes.
type EntityLock struct {
	prefix string
	lease  time.Duration
}

// NewEntityLock creates a lock namespace, e.g. NewEntityLock("ledger").
func NewEntityLock(prefix string, lease time.Duration) *EntityLock {
	if lease <= 0 {
		lease = DefaultLockLease
	}
	return &EntityLock{prefix: prefix, lease: lease}
}

// Acquire takes the lease for the entity, returning ErrLockHeld when another
// holder owns it. token identifies the holder for safe release.
func (l *EntityLock) Acquire(ctx context.Context, entityID, token string) error {
	ok, err := lockSetNX(ctx, l.key(entityID), token, l.lease)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Release drops the lease if this holder still owns it. A lease that expired
// and was re-acquired by someone else is left alone.
func (l *EntityLock) Release(ctx context.Context, entityID, token string) error {
	val, err := lockGet(ctx, l.key(entityID))
	if err != nil {
		return nil // already expired
	}
	if val != token {
		return nil
	}
	return lockDel(ctx, l.key(entityID))
}

func (l *EntityLock) key(entityID string) string {
	return "lock:" + l.prefix + ":" + entityID
}
