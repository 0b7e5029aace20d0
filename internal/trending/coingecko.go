package trending

import (
	"context"
	"fmt"
	"time"

	"evm-sniper-lab/internal/domain"
)

const coinGeckoBase = "https://api.coingecko.com/api/v3"

// CoinGecko lists trending searches and top market-cap coins. Both feeds
// report tickers only; addresses come from a DexScreener symbol lookup.
type CoinGecko struct {
	api       *apiClient
	resolver  *DexScreener
	pageDelay time.Duration
}

// NewCoinGecko creates a client using resolver for address lookups.
func NewCoinGecko(resolver *DexScreener, pageDelay time.Duration) *CoinGecko {
	return &CoinGecko{api: newAPIClient(), resolver: resolver, pageDelay: pageDelay}
}

type cgTrendingResponse struct {
	Coins []struct {
		Item struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"item"`
	} `json:"coins"`
}

type cgMarket struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Trending returns currently trending searches resolved to chain addresses.
// Symbols with no pool on the configured chain are skipped silently; most
// trending coins live elsewhere.
func (c *CoinGecko) Trending(ctx context.Context) ([]domain.TrendingToken, error) {
	var resp cgTrendingResponse
	if err := c.api.getJSON(ctx, coinGeckoBase+"/search/trending", &resp); err != nil {
		return nil, err
	}

	var out []domain.TrendingToken
	for _, coin := range resp.Coins {
		t, ok := c.resolve(ctx, coin.Item.Name, coin.Item.Symbol)
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// TopMarketCap returns the top N coins by market cap resolved to chain
// addresses.
func (c *CoinGecko) TopMarketCap(ctx context.Context, n int) ([]domain.TrendingToken, error) {
	var markets []cgMarket
	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1", coinGeckoBase, n)
	if err := c.api.getJSON(ctx, url, &markets); err != nil {
		return nil, err
	}

	var out []domain.TrendingToken
	for _, m := range markets {
		t, ok := c.resolve(ctx, m.Name, m.Symbol)
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *CoinGecko) resolve(ctx context.Context, name, symbol string) (domain.TrendingToken, bool) {
	if c.pageDelay > 0 {
		select {
		case <-ctx.Done():
			return domain.TrendingToken{}, false
		case <-time.After(c.pageDelay):
		}
	}

	addr, ok, err := c.resolver.ResolveSymbol(ctx, symbol)
	if err != nil || !ok {
		return domain.TrendingToken{}, false
	}
	return domain.TrendingToken{Name: name, Address: addr}, true
}
