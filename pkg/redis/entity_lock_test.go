package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func TestEntityLock_AcquireAndRelease(t *testing.T) {
	setupMiniredis(t)
	lock := NewEntityLock("ledger", time.Second)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, "entry-1", "holder-a"))

	// Second holder is refused while the lease lives.
	require.ErrorIs(t, lock.Acquire(ctx, "entry-1", "holder-b"), ErrLockHeld)

	// A different entity is unaffected.
	require.NoError(t, lock.Acquire(ctx, "entry-2", "holder-b"))

	require.NoError(t, lock.Release(ctx, "entry-1", "holder-a"))
	require.NoError(t, lock.Acquire(ctx, "entry-1", "holder-b"))
}

func TestEntityLock_ReleaseWrongTokenKeepsLease(t *testing.T) {
	setupMiniredis(t)
	lock := NewEntityLock("ledger", time.Second)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, "entry-1", "holder-a"))
	require.NoError(t, lock.Release(ctx, "entry-1", "holder-b"))

	// holder-a still owns it.
	require.ErrorIs(t, lock.Acquire(ctx, "entry-1", "holder-c"), ErrLockHeld)
}

func TestEntityLock_ExpiredLeaseReacquirable(t *testing.T) {
	mr := setupMiniredis(t)
	lock := NewEntityLock("ledger", time.Second)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx, "entry-1", "holder-a"))
	mr.FastForward(2 * time.Second)
	require.NoError(t, lock.Acquire(ctx, "entry-1", "holder-b"))

	// Releasing with the stale token must not drop the new holder's lease.
	require.NoError(t, lock.Release(ctx, "entry-1", "holder-a"))
	require.ErrorIs(t, lock.Acquire(ctx, "entry-1", "holder-c"), ErrLockHeld)
}

func TestEntityLock_DefaultLease(t *testing.T) {
	lock := NewEntityLock("ledger", 0)
	require.Equal(t, DefaultLockLease, lock.lease)
}
