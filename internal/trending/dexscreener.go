package trending

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/domain"
)

const dexScreenerBase = "https://api.dexscreener.com"

// DexScreener resolves token metadata and symbol-to-address lookups.
type DexScreener struct {
	api   *apiClient
	chain string
}

// NewDexScreener creates a client scoped to one chain ID ("base").
func NewDexScreener(chain string) *DexScreener {
	return &DexScreener{api: newAPIClient(), chain: chain}
}

type dsPair struct {
	ChainID   string  `json:"chainId"`
	PriceUSD  string  `json:"priceUsd"`
	FDV       float64 `json:"fdv"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	PairCreatedAt int64 `json:"pairCreatedAt"` // unix milliseconds
	BaseToken     struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
		Name    string `json:"name"`
	} `json:"baseToken"`
}

type dsTokenResponse struct {
	Pairs []dsPair `json:"pairs"`
}

// Metadata fetches market data for a token. fallbackCreated is used when the
// feed has no pair creation time (fresh pools found on chain carry the block
// timestamp instead).
//
// The entry price is back-solved from the 24h change: a wallet that bought a
// day ago paid roughly current/(1+h24). It is a heuristic and is tagged
// estimated; an unusable change (<= -100%) yields a zero entry estimate.
func (d *DexScreener) Metadata(ctx context.Context, token common.Address, fallbackCreated int64) (domain.TokenMetadata, error) {
	var resp dsTokenResponse
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", dexScreenerBase, token.Hex())
	if err := d.api.getJSON(ctx, url, &resp); err != nil {
		return domain.TokenMetadata{}, err
	}

	pair, ok := d.bestPair(resp.Pairs)
	if !ok {
		return domain.TokenMetadata{}, fmt.Errorf("no %s pairs for %s", d.chain, token.Hex())
	}

	price, err := strconv.ParseFloat(pair.PriceUSD, 64)
	if err != nil {
		return domain.TokenMetadata{}, fmt.Errorf("bad price %q for %s", pair.PriceUSD, token.Hex())
	}

	createdAt := time.Unix(fallbackCreated, 0)
	if pair.PairCreatedAt > 0 {
		createdAt = time.UnixMilli(pair.PairCreatedAt)
	}

	return domain.TokenMetadata{
		CreatedAt:       createdAt,
		CurrentPriceUSD: domain.ObservedUSD(price),
		EntryPriceUSD:   domain.EstimatedUSD(backSolveEntry(price, pair.PriceChange.H24)),
		FDV:             pair.FDV,
	}, nil
}

// backSolveEntry reverses the 24h change out of the current price. A change
// at or below -100% leaves no usable estimate.
func backSolveEntry(price, change24hPct float64) float64 {
	denom := 1 + change24hPct/100
	if denom <= 0 {
		return 0
	}
	return price / denom
}

// bestPair picks the deepest pool on the configured chain.
func (d *DexScreener) bestPair(pairs []dsPair) (dsPair, bool) {
	var best dsPair
	found := false
	for _, p := range pairs {
		if !strings.EqualFold(p.ChainID, d.chain) {
			continue
		}
		if !found || p.Liquidity.USD > best.Liquidity.USD {
			best = p
			found = true
		}
	}
	return best, found
}

// Price returns the current USD price of a token from its deepest pool.
func (d *DexScreener) Price(ctx context.Context, token common.Address) (float64, error) {
	meta, err := d.Metadata(ctx, token, 0)
	if err != nil {
		return 0, err
	}
	return meta.CurrentPriceUSD.Value.InexactFloat64(), nil
}

type dsSearchResponse struct {
	Pairs []dsPair `json:"pairs"`
}

// ResolveSymbol finds the chain address of a token by its ticker symbol,
// picking the deepest matching pool. Market-cap feeds report tickers only,
// so cross-chain names are resolved here.
func (d *DexScreener) ResolveSymbol(ctx context.Context, symbol string) (common.Address, bool, error) {
	var resp dsSearchResponse
	url := fmt.Sprintf("%s/latest/dex/search?q=%s", dexScreenerBase, symbol)
	if err := d.api.getJSON(ctx, url, &resp); err != nil {
		return common.Address{}, false, err
	}

	var best dsPair
	found := false
	for _, p := range resp.Pairs {
		if !strings.EqualFold(p.ChainID, d.chain) {
			continue
		}
		if !strings.EqualFold(p.BaseToken.Symbol, symbol) {
			continue
		}
		if !found || p.Liquidity.USD > best.Liquidity.USD {
			best = p
			found = true
		}
	}
	if !found {
		return common.Address{}, false, nil
	}
	return common.HexToAddress(best.BaseToken.Address), true, nil
}
