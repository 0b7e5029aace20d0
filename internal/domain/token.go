package domain

import "github.com/ethereum/go-ethereum/common"

// TrendingToken is a candidate token produced by the discovery feed.
// Immutable once fetched; the profiler consumes it read-only.
type TrendingToken struct {
	Name         string         `json:"name"`
	Address      common.Address `json:"address"`
	FallbackTime int64          `json:"fallbackTime"` // pool creation hint, unix seconds
	AgeHours     float64        `json:"ageHours,omitempty"`
	VolumeUSD    float64        `json:"volume,omitempty"`
	LiquidityUSD float64        `json:"liquidity,omitempty"`
}

// FreshTokenName marks tokens discovered via the raw PoolCreated scan,
// whose real name is unknown until the metadata lookup resolves it.
const FreshTokenName = "RPC_FRESH"
