package domain

import "github.com/ethereum/go-ethereum/common"

// WalletHit aggregates one wallet's qualifying appearances across tokens.
// A wallet hit by several independent tokens is a stronger smart-money
// signal than a single large position.
type WalletHit struct {
	Address      common.Address `json:"address"`
	Tokens       []string       `json:"tokens"`
	EstimatedPnL USDAmount      `json:"pnl"`
	Tier         string         `json:"tier"`
}

// Tier labels by estimated PnL.
const (
	TierWhale   = "WHALE"
	TierShark   = "SHARK"
	TierDolphin = "DOLPHIN"
	TierFish    = "FISH"
)

// TierFor maps an estimated PnL in USD to a tier label.
func TierFor(pnlUSD float64) string {
	switch {
	case pnlUSD >= 50000:
		return TierWhale
	case pnlUSD >= 10000:
		return TierShark
	case pnlUSD >= 2000:
		return TierDolphin
	default:
		return TierFish
	}
}
