package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ portssvc.SweepLocker = (*LocalLease)(nil)
	_ portssvc.SweepLocker = (*RedisLease)(nil)
)

func TestLocalLease_Exclusive(t *testing.T) {
	ctx := context.Background()
	lease := NewLocalLease()

	ok, err := lease.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lease.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	require.NoError(t, lease.Unlock(ctx))

	ok, err = lease.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "lease is reusable after release")
}

func TestLocalLease_UnlockWithoutHold(t *testing.T) {
	assert.ErrorIs(t, NewLocalLease().Unlock(context.Background()), ErrNotHeld)
}

func TestLocalLease_ConcurrentContenders(t *testing.T) {
	ctx := context.Background()
	lease := NewLocalLease()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := lease.TryLock(ctx); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestRedisLease_UnlockWithoutHold(t *testing.T) {
	lease := NewRedisLease(nil, SweepLockKey, 0)
	assert.ErrorIs(t, lease.Unlock(context.Background()), ErrNotHeld)
}
