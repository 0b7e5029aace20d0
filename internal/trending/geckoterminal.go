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

const geckoTerminalBase = "https://api.geckoterminal.com/api/v2"

// GeckoTerminal lists freshly created pools on one network.
type GeckoTerminal struct {
	api       *apiClient
	network   string
	pageDelay time.Duration
}

// NewGeckoTerminal creates a client for one network ("base").
func NewGeckoTerminal(network string, pageDelay time.Duration) *GeckoTerminal {
	return &GeckoTerminal{api: newAPIClient(), network: network, pageDelay: pageDelay}
}

type gtPoolsResponse struct {
	Data []struct {
		Attributes struct {
			Name        string `json:"name"`
			ReserveUSD  string `json:"reserve_in_usd"`
			PoolCreated string `json:"pool_created_at"` // RFC 3339
			VolumeUSD   struct {
				H24 string `json:"h24"`
			} `json:"volume_usd"`
		} `json:"attributes"`
		Relationships struct {
			BaseToken struct {
				Data struct {
					ID string `json:"id"` // "<network>_<address>"
				} `json:"data"`
			} `json:"base_token"`
		} `json:"relationships"`
	} `json:"data"`
}

// NewPools fetches the latest created pools, newest first, across pages.
func (g *GeckoTerminal) NewPools(ctx context.Context, pages int) ([]domain.TrendingToken, error) {
	var out []domain.TrendingToken

	for page := 1; page <= pages; page++ {
		if page > 1 && g.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.pageDelay):
			}
		}

		var resp gtPoolsResponse
		url := fmt.Sprintf("%s/networks/%s/new_pools?page=%d", geckoTerminalBase, g.network, page)
		if err := g.api.getJSON(ctx, url, &resp); err != nil {
			return nil, err
		}

		for _, pool := range resp.Data {
			addr, ok := tokenIDAddress(pool.Relationships.BaseToken.Data.ID)
			if !ok {
				continue
			}

			liquidity, _ := strconv.ParseFloat(pool.Attributes.ReserveUSD, 64)
			volume, _ := strconv.ParseFloat(pool.Attributes.VolumeUSD.H24, 64)

			t := domain.TrendingToken{
				Name:         poolTokenName(pool.Attributes.Name),
				Address:      addr,
				LiquidityUSD: liquidity,
				VolumeUSD:    volume,
			}
			if created, err := time.Parse(time.RFC3339, pool.Attributes.PoolCreated); err == nil {
				t.FallbackTime = created.Unix()
				t.AgeHours = time.Since(created).Hours()
			}
			out = append(out, t)
		}
	}

	return out, nil
}

// tokenIDAddress splits a "<network>_<address>" token ID.
func tokenIDAddress(id string) (common.Address, bool) {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return common.Address{}, false
	}
	hex := id[idx+1:]
	if !common.IsHexAddress(hex) {
		return common.Address{}, false
	}
	return common.HexToAddress(hex), true
}

// poolTokenName strips the quote side from a "TOKEN / WETH" pool name.
func poolTokenName(name string) string {
	if idx := strings.Index(name, " / "); idx > 0 {
		return name[:idx]
	}
	return name
}
