package service

import (
	"context"
	"sync"

	"equiprent-backend/internal/domain"
)

// productLocks serializes booking commits per product id. The wait is bounded
// by the caller's context deadline so contention cannot queue requests forever.
// Semaphores are reference-counted and dropped from the map once nobody holds
// or waits on them, so the map tracks only products with in-flight bookings.
type productLocks struct {
	mu   sync.Mutex
	sems map[int32]*productSem
}

type productSem struct {
	ch   chan struct{}
	refs int
}

func newProductLocks() *productLocks {
	return &productLocks{sems: make(map[int32]*productSem)}
}

func (l *productLocks) ref(productID int32) *productSem {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[productID]
	if !ok {
		s = &productSem{ch: make(chan struct{}, 1)}
		l.sems[productID] = s
	}
	s.refs++
	return s
}

func (l *productLocks) unref(productID int32, s *productSem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.sems, productID)
	}
}

func (l *productLocks) Acquire(ctx context.Context, productID int32) error {
	s := l.ref(productID)
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(productID, s)
		return domain.ErrLockTimeout
	}
}

// AcquireAll takes the locks in ascending product-id order so two multi-line
// bookings can never deadlock against each other. On failure, locks already
// taken are released.
func (l *productLocks) AcquireAll(ctx context.Context, productIDs []int32) error {
	for i, id := range productIDs {
		if err := l.Acquire(ctx, id); err != nil {
			for j := 0; j < i; j++ {
				l.Release(productIDs[j])
			}
			return err
		}
	}
	return nil
}

func (l *productLocks) Release(productID int32) {
	l.mu.Lock()
	s := l.sems[productID]
	l.mu.Unlock()
	<-s.ch
	l.unref(productID, s)
}

func (l *productLocks) ReleaseAll(productIDs []int32) {
	for _, id := range productIDs {
		l.Release(id)
	}
}
