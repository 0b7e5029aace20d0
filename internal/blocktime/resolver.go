// Package blocktime locates the block nearest a target timestamp by binary
// search over block headers.
package blocktime

import (
	"context"
	"fmt"
	"time"

	"evm-sniper-lab/internal/evm"
)

// Resolver binary-searches block timestamps. Probes are spaced by ProbeDelay
// to stay under provider rate limits.
type Resolver struct {
	client     evm.Client
	probeDelay time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProbeDelay sets the pause between header probes.
func WithProbeDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.probeDelay = d
	}
}

// NewResolver creates a Resolver over the given client.
func NewResolver(client evm.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:     client,
		probeDelay: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BlockAtOrAfter returns the lowest block whose timestamp is >= target.
// The result is clamped to [0, maxBlock]: a target before genesis (including
// non-positive timestamps) resolves to block 0, a target after the newest
// header resolves to maxBlock.
func (r *Resolver) BlockAtOrAfter(ctx context.Context, target int64, maxBlock uint64) (uint64, error) {
	if target <= 0 {
		return 0, nil
	}

	lo, hi := uint64(0), maxBlock
	for lo < hi {
		if err := r.pause(ctx); err != nil {
			return 0, err
		}

		mid := lo + (hi-lo)/2
		ts, err := r.client.BlockTime(ctx, mid)
		if err != nil {
			return 0, fmt.Errorf("block %d timestamp: %w", mid, err)
		}

		if int64(ts) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

func (r *Resolver) pause(ctx context.Context) error {
	if r.probeDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.probeDelay):
		return nil
	}
}
