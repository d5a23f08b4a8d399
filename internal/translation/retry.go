package translation

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts is the total number of calls made for one request,
	// including the first.
	DefaultMaxAttempts = 20

	defaultBackoffMultiplier = 2 * time.Second
	defaultBackoffMin        = 4 * time.Second
	defaultBackoffMax        = 60 * time.Second
)

// Policy describes how a call is retried: which errors qualify, how long
// to wait between attempts and how many attempts are made in total.
type Policy struct {
	MaxAttempts int
	Retryable   func(error) bool
	Backoff     func(attempt int) time.Duration

	// Sleep waits for d or until ctx is done. Tests replace it to avoid
	// real waits.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry is called before each wait, with the 1-based number of the
	// attempt that failed.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultPolicy retries transient provider errors up to 20 attempts,
// waiting min(max(4s, 2s*2^n), 60s) after the n-th retry (n starting at 0).
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Retryable:   IsTransient,
		Backoff:     ExponentialBackoff(defaultBackoffMultiplier, defaultBackoffMin, defaultBackoffMax),
		Sleep:       sleepContext,
	}
}

// ExponentialBackoff returns a schedule of multiplier*2^(attempt-1) clamped
// to [floor, ceiling], where attempt is the 1-based number of the failed
// attempt.
func ExponentialBackoff(multiplier, floor, ceiling time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		wait := ceiling
		// Past 2^30 the product overflows; the cap applies long before.
		if attempt <= 31 {
			wait = multiplier * time.Duration(int64(1)<<(attempt-1))
		}
		if wait < floor {
			wait = floor
		}
		if wait > ceiling || wait <= 0 {
			wait = ceiling
		}
		return wait
	}
}

// Do calls fn until it succeeds, returns an error the policy does not
// consider retryable, or the attempt budget runs out. In the last case the
// final error is wrapped with ErrRetriesExhausted.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		if attempt == maxAttempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, maxAttempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
