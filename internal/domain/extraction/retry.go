package extraction

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig bounds how often and how slowly a model call is repeated.
type RetryConfig struct {
	MaxRetries    int // extra attempts after the first call
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        float64 // +/- share of each delay, 0 disables
}

// DefaultModelRetryConfig covers provider rate limits and short outages.
var DefaultModelRetryConfig = RetryConfig{
	MaxRetries:    2,
	InitialDelay:  time.Second,
	MaxDelay:      10 * time.Second,
	BackoffFactor: 2,
	Jitter:        0.2,
}

// backoff returns the wait before retry number n (zero based).
func (c RetryConfig) backoff(n int) time.Duration {
	d := float64(c.InitialDelay)
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	for range n {
		d *= factor
		if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
			break
		}
	}
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.Jitter > 0 {
		d *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

// retryable reports whether err is an *Error flagged Retryable. Context
// errors and untyped errors end the loop.
func retryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsRetryable()
}

// WithRetry calls fn until it succeeds, returns a non-retryable error, the
// retry budget runs out or ctx is done. The last error from fn is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		if !retryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		timer := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
