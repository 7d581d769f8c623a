package service

import (
	"context"
	"sync"
	"time"

	dErrors "quotient/pkg/domain-errors"
)

// StoreTx provides a transactional boundary for calculation store
// access. Implementations may wrap a database transaction or, in-memory,
// a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// defaultTxTimeout is the maximum duration for a calculation transaction.
const defaultTxTimeout = 5 * time.Second

type memoryTx struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

// NewMemoryTx wraps an in-memory store with a mutex-based transaction
// boundary.
func NewMemoryTx(store Store) StoreTx {
	return &memoryTx{store: store}
}

func (t *memoryTx) RunInTx(ctx context.Context, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store)
}
