package trending

import (
	"context"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/observability"
)

// stablecoinNames are excluded by name match; their buyers carry no signal.
var stablecoinNames = []string{
	"USD", "DAI", "TETHER", "FRAX", "EUR",
}

// Feed merges every discovery source into one analysis list. Source failures
// are isolated: a dead API degrades the list instead of aborting the run.
type Feed struct {
	coingecko *CoinGecko
	gecko     *GeckoTerminal
	factory   *FactoryScanner
	metrics   *observability.Metrics
	cfg       config.TrendingConfig
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithMetrics enables per-source discovery counters.
func WithMetrics(m *observability.Metrics) FeedOption {
	return func(f *Feed) {
		f.metrics = m
	}
}

// NewFeed assembles the feed. Any source may be nil to disable it.
func NewFeed(coingecko *CoinGecko, gecko *GeckoTerminal, factory *FactoryScanner, cfg config.TrendingConfig, opts ...FeedOption) *Feed {
	f := &Feed{coingecko: coingecko, gecko: gecko, factory: factory, cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result is the merged discovery output.
type Result struct {
	// Legends are established top-market-cap tokens; their early buyers are
	// the strongest signal.
	Legends []domain.TrendingToken `json:"legends"`
	// Trending are currently moving tokens from the market-data feeds.
	Trending []domain.TrendingToken `json:"trending"`
	// Fresh are pools seen on chain that no feed has indexed yet.
	Fresh []domain.TrendingToken `json:"fresh"`

	// Errors lists per-source failures for the run report.
	Errors []string `json:"errors,omitempty"`
}

// All returns every discovered token, legends first, deduplicated.
func (r Result) All() []domain.TrendingToken {
	seen := make(map[common.Address]bool)
	var out []domain.TrendingToken
	for _, group := range [][]domain.TrendingToken{r.Legends, r.Trending, r.Fresh} {
		for _, t := range group {
			if seen[t.Address] {
				continue
			}
			seen[t.Address] = true
			out = append(out, t)
		}
	}
	return out
}

// Collect queries every source and merges the results.
func (f *Feed) Collect(ctx context.Context) (Result, error) {
	var res Result

	if f.coingecko != nil {
		legends, err := f.coingecko.TopMarketCap(ctx, f.cfg.TopMarketCap)
		if err != nil {
			res.Errors = append(res.Errors, "coingecko markets: "+err.Error())
		} else {
			res.Legends = dropStablecoins(legends)
			f.count("coingecko", len(res.Legends))
		}

		hot, err := f.coingecko.Trending(ctx)
		if err != nil {
			res.Errors = append(res.Errors, "coingecko trending: "+err.Error())
		} else {
			kept := dropStablecoins(hot)
			res.Trending = append(res.Trending, kept...)
			f.count("coingecko", len(kept))
		}
	}

	if f.gecko != nil {
		pools, err := f.gecko.NewPools(ctx, f.cfg.FetchPages)
		if err != nil {
			res.Errors = append(res.Errors, "geckoterminal pools: "+err.Error())
		} else {
			kept := 0
			for _, t := range dropStablecoins(pools) {
				if t.LiquidityUSD < f.cfg.MinLiquidityUSD || t.VolumeUSD < f.cfg.MinVolume24hUSD {
					continue
				}
				res.Trending = append(res.Trending, t)
				kept++
			}
			f.count("geckoterminal", kept)
		}
	}

	if f.factory != nil {
		fresh, err := f.factory.RecentPools(ctx, f.cfg.ScanBlocks)
		if err != nil {
			res.Errors = append(res.Errors, "factory scan: "+err.Error())
		} else {
			res.Fresh = fresh
			f.count("factory", len(fresh))
		}
	}

	for _, p := range f.cfg.Pinned {
		res.Trending = append(res.Trending, domain.TrendingToken{
			Name:    p.Name,
			Address: common.HexToAddress(p.Address),
		})
	}
	f.count("pinned", len(f.cfg.Pinned))

	res.Trending = truncate(dedupe(res.Trending), f.cfg.KeepTrending)
	res.Fresh = truncate(dedupe(res.Fresh), f.cfg.KeepFresh)

	if len(res.Errors) > 0 {
		log.Printf("[trending] %d source failure(s): %s", len(res.Errors), strings.Join(res.Errors, "; "))
	}
	return res, nil
}

func (f *Feed) count(source string, n int) {
	if f.metrics == nil || n == 0 {
		return
	}
	f.metrics.TokensDiscovered.WithLabelValues(source).Add(float64(n))
}

func dropStablecoins(tokens []domain.TrendingToken) []domain.TrendingToken {
	out := tokens[:0]
	for _, t := range tokens {
		upper := strings.ToUpper(t.Name)
		stable := false
		for _, s := range stablecoinNames {
			if strings.Contains(upper, s) {
				stable = true
				break
			}
		}
		if !stable {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(tokens []domain.TrendingToken) []domain.TrendingToken {
	seen := make(map[common.Address]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if seen[t.Address] {
			continue
		}
		seen[t.Address] = true
		out = append(out, t)
	}
	return out
}

func truncate(tokens []domain.TrendingToken, n int) []domain.TrendingToken {
	if n > 0 && len(tokens) > n {
		return tokens[:n]
	}
	return tokens
}
