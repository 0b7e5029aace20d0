// Package profit estimates wallet PnL and builds the final smart-money
// ranking.
package profit

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
)

// RetentionPct returns what share of the bought amount is still held,
// in whole percent. A zero buy reports full retention.
func RetentionPct(balance, buy *big.Int) int64 {
	if buy == nil || buy.Sign() <= 0 {
		return 100
	}
	pct := new(big.Int).Mul(balance, big.NewInt(100))
	pct.Div(pct, buy)
	if !pct.IsInt64() {
		return 100
	}
	return pct.Int64()
}

// HoldingValueUSD prices a raw token balance against the current market
// price. Result quality follows the price quality.
func HoldingValueUSD(balance *big.Int, decimals int32, price domain.USDPrice) domain.USDAmount {
	amount := decimal.NewFromBigInt(balance, -decimals)
	return domain.USDAmount{
		Value:   amount.Mul(price.Value),
		Quality: price.Quality,
	}
}

// SoldOutValueUSD is the fixed PnL weight credited for a verified clean
// exit. The actual realized profit is unknowable without per-fill price
// history, so the weight is always estimated.
func SoldOutValueUSD(cfg config.ClassifyConfig) domain.USDAmount {
	return domain.USDAmount{
		Value:   decimal.NewFromFloat(cfg.SoldOutWeightUSD),
		Quality: domain.PriceEstimated,
	}
}

// Estimator applies the diamond-hand admission rules for wallets that still
// hold their position.
type Estimator struct {
	cfg config.ClassifyConfig
}

// NewEstimator creates an Estimator.
func NewEstimator(cfg config.ClassifyConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// DiamondHold reports whether a still-holding wallet qualifies as a diamond
// hand worth following, and the USD value of its holding.
//
// Fresh tokens have a usable entry-price estimate, so the position must show
// a real multiple on top of a minimum holding value. Old tokens have no
// trustworthy entry estimate; admission falls back to a higher flat holding
// floor.
func (e *Estimator) DiamondHold(balance *big.Int, decimals int32, meta domain.TokenMetadata, now time.Time) (bool, domain.USDAmount) {
	holding := HoldingValueUSD(balance, decimals, meta.CurrentPriceUSD)
	holdingUSD := holding.Value.InexactFloat64()

	fresh := meta.AgeAt(now).Hours() <= e.cfg.FreshAgeHours
	if fresh {
		ok := meta.GrowthMultiple() >= e.cfg.DiamondMinMultiple &&
			holdingUSD >= e.cfg.DiamondMinHoldUSD
		return ok, holding
	}
	return holdingUSD >= e.cfg.DiamondMinHoldUSDOld, holding
}
