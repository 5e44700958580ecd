package docgen

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultPoolSize is the number of renders allowed to run concurrently.
const DefaultPoolSize = 4

// Pool bounds concurrent render jobs. Callers beyond the limit wait for a
// slot; the wait queue itself is unbounded.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// NewPool creates a pool with size slots.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return int(p.size)
}

// Do runs fn once a slot is free. Waiting honours ctx; fn itself is not
// interrupted once started.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p == nil || p.sem == nil {
		return fn(ctx)
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}
