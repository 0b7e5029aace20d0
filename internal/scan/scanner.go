// Package scan fetches event logs across wide block ranges by splitting them
// into fixed-size chunks and bisecting any chunk the provider rejects as too
// large.
package scan

import (
	"context"
	"log"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/evm"
)

// Defaults for chunked scanning.
const (
	DefaultChunkSize      = 10_000
	DefaultChunkDelay     = 100 * time.Millisecond
	DefaultMaxBisectDepth = 12
)

// Scanner pages eth_getLogs queries over a block range.
type Scanner struct {
	client         evm.Client
	chunkSize      uint64
	chunkDelay     time.Duration
	maxBisectDepth int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChunkSize sets the block span of a single query.
func WithChunkSize(n uint64) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithChunkDelay sets the pause between consecutive chunk queries.
func WithChunkDelay(d time.Duration) Option {
	return func(s *Scanner) {
		s.chunkDelay = d
	}
}

// WithMaxBisectDepth caps the recursive split depth for oversized chunks.
func WithMaxBisectDepth(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxBisectDepth = n
		}
	}
}

// NewScanner creates a Scanner over the given client.
func NewScanner(client evm.Client, opts ...Option) *Scanner {
	s := &Scanner{
		client:         client,
		chunkSize:      DefaultChunkSize,
		chunkDelay:     DefaultChunkDelay,
		maxBisectDepth: DefaultMaxBisectDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logs returns all logs for address matching topics in [from, to], ordered
// by ascending block. Chunks that the provider rejects as too large are
// split in half and retried; a single block that still fails is skipped.
func (s *Scanner) Logs(ctx context.Context, address common.Address, topics [][]common.Hash, from, to uint64) ([]types.Log, error) {
	if from > to {
		return nil, nil
	}

	var all []types.Log
	for start := from; start <= to; {
		end := start + s.chunkSize - 1
		if end > to {
			end = to
		}

		logs, err := s.fetch(ctx, address, topics, start, end, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, logs...)

		if end == to {
			break
		}
		start = end + 1

		if s.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.chunkDelay):
			}
		}
	}
	return all, nil
}

// fetch queries one range, bisecting on range-limit errors.
func (s *Scanner) fetch(ctx context.Context, address common.Address, topics [][]common.Hash, from, to uint64, depth int) ([]types.Log, error) {
	logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{address},
		Topics:    topics,
	})
	if err == nil {
		return logs, nil
	}

	if !evm.IsRangeLimited(err) {
		return nil, err
	}

	// A single block that the provider still rejects cannot be subdivided.
	if from == to || depth >= s.maxBisectDepth {
		log.Printf("[scan] skipping blocks %d-%d: %v", from, to, err)
		return nil, nil
	}

	mid := from + (to-from)/2

	left, err := s.fetch(ctx, address, topics, from, mid, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := s.fetch(ctx, address, topics, mid+1, to, depth+1)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}
