// Package extract pulls candidate early buyers out of a token's ERC-20
// Transfer history.
package extract

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm"
)

// LogSource fetches Transfer logs for a token over a block range.
type LogSource interface {
	Logs(ctx context.Context, address common.Address, topics [][]common.Hash, from, to uint64) ([]types.Log, error)
}

// Extractor aggregates Transfer recipients into candidate buyers, excluding
// known infrastructure addresses.
type Extractor struct {
	source   LogSource
	denylist map[common.Address]bool
}

// NewExtractor creates an Extractor. Denied addresses (routers, aggregators)
// are never reported as buyers.
func NewExtractor(source LogSource, denied []common.Address) *Extractor {
	deny := make(map[common.Address]bool, len(denied)+1)
	for _, a := range denied {
		deny[a] = true
	}
	deny[common.Address{}] = true

	return &Extractor{source: source, denylist: deny}
}

// Buyers extracts early buyers of a freshly launched token. The window is
// anchored on the token's first on-chain transfer activity rather than the
// pool creation block, and the first skipBlocks after that activity are
// dropped to exclude same-block and sniper-bot fills.
func (e *Extractor) Buyers(ctx context.Context, token common.Address, genesisBlock, windowBlocks, skipBlocks uint64) (map[common.Address]domain.CandidateBuyer, error) {
	logs, err := e.source.Logs(ctx, token, [][]common.Hash{{evm.TransferTopic}}, genesisBlock, genesisBlock+windowBlocks)
	if err != nil {
		return nil, fmt.Errorf("transfer logs for %s: %w", token.Hex(), err)
	}
	if len(logs) == 0 {
		return map[common.Address]domain.CandidateBuyer{}, nil
	}

	firstActivity := logs[0].BlockNumber
	for _, lg := range logs {
		if lg.BlockNumber < firstActivity {
			firstActivity = lg.BlockNumber
		}
	}

	return e.collect(token, logs, firstActivity+skipBlocks, firstActivity+windowBlocks), nil
}

// BuyersInRange extracts buyers over an arbitrary trailing window, with no
// sniper skip. Used for tokens old enough that launch-block bots are no
// longer in play.
func (e *Extractor) BuyersInRange(ctx context.Context, token common.Address, from, to uint64) (map[common.Address]domain.CandidateBuyer, error) {
	logs, err := e.source.Logs(ctx, token, [][]common.Hash{{evm.TransferTopic}}, from, to)
	if err != nil {
		return nil, fmt.Errorf("transfer logs for %s: %w", token.Hex(), err)
	}
	return e.collect(token, logs, from, to), nil
}

// collect folds Transfer logs in [from, to] into per-recipient candidates.
func (e *Extractor) collect(token common.Address, logs []types.Log, from, to uint64) map[common.Address]domain.CandidateBuyer {
	buyers := make(map[common.Address]domain.CandidateBuyer)

	for _, lg := range logs {
		if lg.BlockNumber < from || lg.BlockNumber > to {
			continue
		}
		if len(lg.Topics) < 3 {
			continue
		}

		to := evm.TopicAddress(lg.Topics[2])
		if e.denylist[to] || to == token {
			continue
		}

		amount := new(big.Int).SetBytes(lg.Data)

		b, ok := buyers[to]
		if !ok {
			b = domain.CandidateBuyer{
				Address:    to,
				Received:   new(big.Int),
				FirstBlock: lg.BlockNumber,
			}
		}
		b.Received.Add(b.Received, amount)
		if lg.BlockNumber < b.FirstBlock {
			b.FirstBlock = lg.BlockNumber
		}
		buyers[to] = b
	}

	return buyers
}

// SortedAddresses returns candidate addresses in deterministic order.
func SortedAddresses(buyers map[common.Address]domain.CandidateBuyer) []common.Address {
	addrs := make([]common.Address, 0, len(buyers))
	for a := range buyers {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Hex() < addrs[j].Hex()
	})
	return addrs
}
