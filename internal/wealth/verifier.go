// Package wealth filters ranked wallets by verifiable on-chain net worth.
// A profitable-looking wallet that holds nothing today is either rotated
// or was never real money.
package wealth

import (
	"context"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm"
)

// PriceSource returns the current USD price of a token.
type PriceSource interface {
	Price(ctx context.Context, token common.Address) (float64, error)
}

// VerifiedWallet is a wallet with its priced holdings.
type VerifiedWallet struct {
	Address     common.Address     `json:"address"`
	NetWorthUSD float64            `json:"netWorthUsd"`
	Holdings    map[string]float64 `json:"holdings"` // symbol -> USD value
}

// Verifier prices native and tracked ERC-20 balances.
type Verifier struct {
	client evm.Client
	prices PriceSource
	cfg    config.WealthConfig

	// ethPrice is resolved once per run from the WETH tracked entry.
	ethPrice float64
}

// NewVerifier creates a Verifier. prices may be nil; fallback prices from
// the config are then the only source.
func NewVerifier(client evm.Client, prices PriceSource, cfg config.WealthConfig) *Verifier {
	return &Verifier{client: client, prices: prices, cfg: cfg}
}

// Verify prices each wallet and returns those above the net-worth floor,
// preserving input order. Tracked token prices resolve once for the whole
// batch; a price failure falls back to the configured price, and a zero
// fallback drops that token from the valuation rather than guessing.
func (v *Verifier) Verify(ctx context.Context, wallets []common.Address) ([]VerifiedWallet, error) {
	tokenPrices := v.resolvePrices(ctx)

	var out []VerifiedWallet
	for _, wallet := range wallets {
		vw, err := v.price(ctx, wallet, tokenPrices)
		if err != nil {
			log.Printf("[wealth] pricing %s: %v", wallet.Hex(), err)
			continue
		}
		if vw.NetWorthUSD >= v.cfg.MinNetWorthUSD {
			out = append(out, vw)
		}
	}
	return out, nil
}

func (v *Verifier) resolvePrices(ctx context.Context) map[string]float64 {
	prices := make(map[string]float64, len(v.cfg.Tokens))
	for _, t := range v.cfg.Tokens {
		price := t.FallbackPrice
		if v.prices != nil {
			if p, err := v.prices.Price(ctx, common.HexToAddress(t.Address)); err == nil && p > 0 {
				price = p
			}
		}
		prices[t.Symbol] = price
		if t.Symbol == "WETH" {
			v.ethPrice = price
		}
	}
	return prices
}

func (v *Verifier) price(ctx context.Context, wallet common.Address, tokenPrices map[string]float64) (VerifiedWallet, error) {
	vw := VerifiedWallet{Address: wallet, Holdings: make(map[string]float64)}

	native, err := v.client.BalanceAt(ctx, wallet)
	if err != nil {
		return vw, err
	}
	ethValue := decimal.NewFromBigInt(native, -18).InexactFloat64() * v.ethPrice
	if ethValue > 0 {
		vw.Holdings["ETH"] = ethValue
		vw.NetWorthUSD += ethValue
	}

	for _, t := range v.cfg.Tokens {
		price := tokenPrices[t.Symbol]
		if price <= 0 {
			continue
		}
		bal, err := evm.TokenBalance(ctx, v.client, common.HexToAddress(t.Address), wallet)
		if err != nil {
			log.Printf("[wealth] %s balance of %s: %v", t.Symbol, wallet.Hex(), err)
			continue
		}
		if bal.Sign() == 0 {
			continue
		}
		value := decimal.NewFromBigInt(bal, -t.Decimals).InexactFloat64() * price
		vw.Holdings[t.Symbol] = value
		vw.NetWorthUSD += value
	}

	return vw, nil
}
