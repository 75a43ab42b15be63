package service

import (
	"context"
	"errors"
	"time"

	"github.com/tripsplit/tripsplit/internal/storage"
)

// Error taxonomy for engine callers. InvalidInput is never retried;
// NotFound lets the caller decide whether to re-prompt; TransientStore
// marks store timeouts/connectivity failures, retried once for reads and
// surfaced immediately for writes.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = storage.ErrNotFound
	ErrTransientStore = errors.New("transient store failure")
)

// storeTimeout bounds every store call so the engine surfaces a
// failure instead of hanging on a stuck store.
const storeTimeout = 3 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// classify wraps store timeouts as transient so callers can tell them from
// hard failures.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTransientStore, err)
	}
	return err
}

// readWithRetry runs a read against the store, retrying exactly once when
// the first attempt times out. Writes never go through here: a duplicate
// side effect is worse than a surfaced error.
func readWithRetry[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	cctx, cancel := withTimeout(ctx)
	out, err := read(cctx)
	cancel()
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return out, classify(err)
	}

	cctx, cancel = withTimeout(ctx)
	defer cancel()
	out, err = read(cctx)
	return out, classify(err)
}
