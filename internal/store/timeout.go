package store

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single store operation.
const DefaultTimeout = 3 * time.Second

// ReadContext bounds a read by timeout while still honouring the caller's
// cancellation.
func ReadContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// WriteContext bounds a write by timeout but detaches it from the caller's
// cancellation: once started, a transaction commits or rolls back on its own
// outcome, not because the client went away.
func WriteContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return ReadContext(context.WithoutCancel(ctx), timeout)
}
