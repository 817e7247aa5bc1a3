package service

import (
	"context"
	"testing"
	"time"

	"equiprent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestProductLocks_AcquireRelease(t *testing.T) {
	locks := newProductLocks()
	ctx := context.Background()

	assert.NoError(t, locks.Acquire(ctx, 1))

	// Held lock times out a second acquirer
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, locks.Acquire(timeoutCtx, 1), domain.ErrLockTimeout)

	// A different product is independent
	assert.NoError(t, locks.Acquire(ctx, 2))
	locks.Release(2)

	locks.Release(1)
	assert.NoError(t, locks.Acquire(ctx, 1))
	locks.Release(1)
}

func TestProductLocks_DropsIdleEntries(t *testing.T) {
	locks := newProductLocks()
	ctx := context.Background()

	assert.NoError(t, locks.AcquireAll(ctx, []int32{1, 2, 3}))
	assert.Len(t, locks.sems, 3)
	locks.ReleaseAll([]int32{1, 2, 3})
	assert.Empty(t, locks.sems)

	// A timed-out waiter must not leave an entry behind either
	assert.NoError(t, locks.Acquire(ctx, 1))
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, locks.Acquire(timeoutCtx, 1), domain.ErrLockTimeout)
	assert.Len(t, locks.sems, 1)
	locks.Release(1)
	assert.Empty(t, locks.sems)
}

func TestProductLocks_AcquireAllRollsBack(t *testing.T) {
	locks := newProductLocks()
	ctx := context.Background()

	// Hold the middle lock so AcquireAll fails partway through
	assert.NoError(t, locks.Acquire(ctx, 2))

	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := locks.AcquireAll(timeoutCtx, []int32{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	// Lock 1 must have been rolled back
	assert.NoError(t, locks.Acquire(ctx, 1))
	locks.Release(1)

	locks.Release(2)
	assert.NoError(t, locks.AcquireAll(ctx, []int32{1, 2, 3}))
	locks.ReleaseAll([]int32{1, 2, 3})
}
