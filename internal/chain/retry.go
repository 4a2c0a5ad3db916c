package chain

import (
	"context"
	"math/rand"
	"time"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff. The
// delay doubles per attempt up to maxDelay, with a small random jitter so
// concurrent callers against the same endpoint do not retry in lockstep.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	const maxDelay = 30 * time.Second

	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
		timer := time.NewTimer(delay + jitter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}
