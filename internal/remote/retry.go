package remote

import (
	"context"
	"time"
)

// Backoff is the bounded retry policy for backend calls: each attempt gets
// its own timeout window, failed attempts wait Base*attempt before the next
// try, and exhausting Attempts is a hard failure for the call.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Timeout  time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{Attempts: 3, Base: 500 * time.Millisecond, Timeout: 8 * time.Second}
}

// Do runs op under the policy. Rejections and context cancellation return
// immediately; only transient errors are retried.
func Do(ctx context.Context, b Backoff, op func(ctx context.Context) error) error {
	if b.Attempts <= 0 {
		b.Attempts = 1
	}

	var err error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		actx, cancel := context.WithTimeout(ctx, b.Timeout)
		err = op(actx)
		cancel()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == b.Attempts {
			break
		}
		select {
		case <-time.After(b.Base * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
