package evm

import (
	"context"
	"fmt"
	"time"
)

// Default retry behavior.
const (
	DefaultMaxRetries  = 5
	DefaultBaseDelay   = 2 * time.Second
	DefaultMaxDelay    = 30 * time.Second
	DefaultBackoffMult = 1.5
)

// RetryPolicy bounds the retry loop for transient failures. Permanent
// failures (range/size limits, reverts) are returned immediately so callers
// can subdivide instead.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryPolicy returns the stock policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
		Multiplier: DefaultBackoffMult,
	}
}

// Do runs fn, retrying transient errors with exponential backoff.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	delay := p.BaseDelay
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
			if delay > p.MaxDelay {
				delay = p.MaxDelay
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
