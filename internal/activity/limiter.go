package activity

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the in-flight request bound used when none is configured.
const DefaultConcurrency = 5

// Limiter caps the number of simultaneous upstream requests. Waiters are
// served in FIFO order.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewLimiter returns a limiter with n slots; n <= 0 selects DefaultConcurrency.
func NewLimiter(n int) *Limiter {
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(n)), capacity: n}
}

// Capacity is the number of slots.
func (l *Limiter) Capacity() int { return l.capacity }

// Do runs fn while holding a slot. The slot is released when fn returns,
// whatever the outcome. An error is returned without running fn if ctx is
// done before a slot frees up.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}
