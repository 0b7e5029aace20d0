package trending

import (
	"context"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm"
)

// PoolCreatedTopic is the topic0 of the Uniswap V3 factory event
// PoolCreated(address,address,uint24,int24,address).
var PoolCreatedTopic = crypto.Keccak256Hash([]byte("PoolCreated(address,address,uint24,int24,address)"))

// Known quote assets on Base; the other side of the pool is the new token.
var quoteAssets = map[common.Address]bool{
	common.HexToAddress("0x4200000000000000000000000000000000000006"): true, // WETH
	common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"): true, // USDC
}

// LogSource fetches logs over a block range.
type LogSource interface {
	Logs(ctx context.Context, address common.Address, topics [][]common.Hash, from, to uint64) ([]types.Log, error)
}

// FactoryScanner finds tokens directly from factory PoolCreated events,
// catching launches hours before any market-data feed indexes them.
type FactoryScanner struct {
	client  evm.Client
	source  LogSource
	factory common.Address
}

// NewFactoryScanner creates a scanner over one factory contract.
func NewFactoryScanner(client evm.Client, source LogSource, factory common.Address) *FactoryScanner {
	return &FactoryScanner{client: client, source: source, factory: factory}
}

// RecentPools returns tokens from pools created in the last scanBlocks.
// Only pools quoted in a known asset count; token/token pools are noise.
// Feed fields stay zero: nothing has priced these tokens yet.
func (f *FactoryScanner) RecentPools(ctx context.Context, scanBlocks uint64) ([]domain.TrendingToken, error) {
	head, err := f.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("head block: %w", err)
	}
	from := uint64(0)
	if head > scanBlocks {
		from = head - scanBlocks
	}

	logs, err := f.source.Logs(ctx, f.factory, [][]common.Hash{{PoolCreatedTopic}}, from, head)
	if err != nil {
		return nil, fmt.Errorf("pool created logs: %w", err)
	}

	seen := make(map[common.Address]bool)
	var out []domain.TrendingToken

	for _, lg := range logs {
		if len(lg.Topics) < 3 {
			continue
		}
		token0 := evm.TopicAddress(lg.Topics[1])
		token1 := evm.TopicAddress(lg.Topics[2])

		var token common.Address
		switch {
		case quoteAssets[token0] && !quoteAssets[token1]:
			token = token1
		case quoteAssets[token1] && !quoteAssets[token0]:
			token = token0
		default:
			continue
		}

		if seen[token] {
			continue
		}
		seen[token] = true

		t := domain.TrendingToken{
			Name:    domain.FreshTokenName,
			Address: token,
		}
		if ts, err := f.client.BlockTime(ctx, lg.BlockNumber); err == nil {
			t.FallbackTime = int64(ts)
		} else {
			log.Printf("[trending] block %d timestamp: %v", lg.BlockNumber, err)
		}
		out = append(out, t)
	}

	return out, nil
}
