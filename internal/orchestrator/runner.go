// Package orchestrator coordinates the profiling pipeline.
// It coordinates: extraction → audit → classification → ranking
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/audit"
	"evm-sniper-lab/internal/blacklist"
	"evm-sniper-lab/internal/classify"
	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/extract"
	"evm-sniper-lab/internal/observability"
	"evm-sniper-lab/internal/profit"
)

// MetadataSource resolves market data for a token.
type MetadataSource interface {
	Metadata(ctx context.Context, token common.Address, fallbackCreated int64) (domain.TokenMetadata, error)
}

// BlockResolver locates the block at or after a timestamp.
type BlockResolver interface {
	BlockAtOrAfter(ctx context.Context, target int64, maxBlock uint64) (uint64, error)
}

// HeadSource reads the current chain head.
type HeadSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Runner executes the wallet-profiling pipeline over a token list.
type Runner struct {
	head       HeadSource
	resolver   BlockResolver
	metadata   MetadataSource
	extractor  *extract.Extractor
	auditor    *audit.Auditor
	classifier *classify.Classifier
	estimator  *profit.Estimator
	blacklist  *blacklist.Set
	metrics    *observability.Metrics
	cfg        config.Config

	minBuy  *big.Int
	now     func() time.Time
	verbose bool
}

// Options for creating a Runner.
type Options struct {
	Head       HeadSource
	Resolver   BlockResolver
	Metadata   MetadataSource
	Extractor  *extract.Extractor
	Auditor    *audit.Auditor
	Classifier *classify.Classifier
	Estimator  *profit.Estimator
	Blacklist  *blacklist.Set
	Config     config.Config

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics

	// Now overrides the clock in tests.
	Now     func() time.Time
	Verbose bool
}

// New creates a Runner.
func New(opts Options) (*Runner, error) {
	minBuy, ok := new(big.Int).SetString(opts.Config.Profile.MinBuyWei, 10)
	if !ok {
		return nil, fmt.Errorf("invalid minBuyWei %q", opts.Config.Profile.MinBuyWei)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		head:       opts.Head,
		resolver:   opts.Resolver,
		metadata:   opts.Metadata,
		extractor:  opts.Extractor,
		auditor:    opts.Auditor,
		classifier: opts.Classifier,
		estimator:  opts.Estimator,
		blacklist:  opts.Blacklist,
		metrics:    opts.Metrics,
		cfg:        opts.Config,
		minBuy:     minBuy,
		now:        now,
		verbose:    opts.Verbose,
	}, nil
}

// RunResult contains results from one pipeline run.
type RunResult struct {
	TokensAnalyzed   int
	TokensSkipped    int
	CandidatesSeen   int
	WalletsAdmitted  int
	Blacklisted      int
	Hits             []domain.WalletHit
	FailuresByReason map[string]int
	Errors           []string
}

// walletAgg accumulates one wallet's qualifying appearances across tokens.
type walletAgg struct {
	tokens []string
	pnl    domain.USDAmount
}

// Run profiles every token and returns the ranked wallet list.
// Phases:
//  1. Resolve chain head
//  2. Analyze tokens concurrently (extract → audit → classify → estimate)
//  3. Drop blacklisted wallets and rank
func (r *Runner) Run(ctx context.Context, tokens []domain.TrendingToken) (*RunResult, error) {
	result := &RunResult{FailuresByReason: make(map[string]int)}

	head, err := r.head.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain head: %w", err)
	}
	r.log("Profiling %d tokens at head %d", len(tokens), head)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		hits = make(map[common.Address]*walletAgg)
		sem  = make(chan struct{}, r.cfg.Profile.ConcurrentTokens)
	)

	for _, token := range tokens {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(token domain.TrendingToken) {
			defer wg.Done()
			defer func() { <-sem }()

			stats, err := r.analyzeToken(ctx, token, head, hits, &mu)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", token.Name, err))
				result.TokensSkipped++
				return
			}
			if stats.skipped {
				result.TokensSkipped++
				return
			}
			result.TokensAnalyzed++
			result.CandidatesSeen += stats.candidates
			result.WalletsAdmitted += stats.admitted
			result.Blacklisted += stats.blacklisted
			for reason, n := range stats.failures {
				result.FailuresByReason[reason] += n
			}
		}(token)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// A wallet blacklisted by any token in this run is excluded entirely,
	// including hits it earned on other tokens.
	ranked := make([]domain.WalletHit, 0, len(hits))
	for addr, agg := range hits {
		if r.blacklist.Has(addr) {
			continue
		}
		ranked = append(ranked, domain.WalletHit{
			Address:      addr,
			Tokens:       agg.tokens,
			EstimatedPnL: agg.pnl,
		})
	}
	result.Hits = profit.Rank(ranked, r.cfg.Profile.MinHitCount)

	if r.metrics != nil {
		r.metrics.TokensAnalyzed.Add(float64(result.TokensAnalyzed))
		r.metrics.TokensSkipped.Add(float64(result.TokensSkipped))
		r.metrics.CandidatesSeen.Add(float64(result.CandidatesSeen))
		r.metrics.WalletsAdmitted.Add(float64(result.WalletsAdmitted))
		r.metrics.WalletsBlacklisted.Add(float64(result.Blacklisted))
		for reason, n := range result.FailuresByReason {
			r.metrics.WalletsRejected.WithLabelValues(reason).Add(float64(n))
		}
		r.metrics.LastSuccessfulRun.SetToCurrentTime()
	}

	r.log("Run complete: %d tokens, %d candidates, %d admitted, %d ranked",
		result.TokensAnalyzed, result.CandidatesSeen, result.WalletsAdmitted, len(result.Hits))
	return result, nil
}

type tokenStats struct {
	skipped     bool
	candidates  int
	admitted    int
	blacklisted int
	failures    map[string]int
}

// analyzeToken runs extraction and wallet verification for one token.
func (r *Runner) analyzeToken(ctx context.Context, token domain.TrendingToken, head uint64, hits map[common.Address]*walletAgg, mu *sync.Mutex) (tokenStats, error) {
	stats := tokenStats{failures: make(map[string]int)}

	meta, err := r.metadata.Metadata(ctx, token.Address, token.FallbackTime)
	if err != nil {
		if token.FallbackTime == 0 {
			return stats, fmt.Errorf("metadata: %w", err)
		}
		// Fresh pools are often not indexed by any feed yet. The creation
		// time from the chain is enough to profile; PnL stays estimated.
		meta = domain.TokenMetadata{CreatedAt: time.Unix(token.FallbackTime, 0)}
	}

	now := r.now()
	ageHours := meta.AgeAt(now).Hours()

	// Dead dogs: old and still tiny. Their buyers were wrong.
	if ageHours > r.cfg.Profile.DeadTokenAgeHours && meta.FDV < r.cfg.Profile.DeadTokenMinFDV {
		r.log("  %s: dead (age %.0fh, FDV %.0f), skipping", token.Name, ageHours, meta.FDV)
		stats.skipped = true
		return stats, nil
	}

	var buyers map[common.Address]domain.CandidateBuyer
	if ageHours <= r.cfg.Profile.OldTokenAgeHours {
		genesis, err := r.resolver.BlockAtOrAfter(ctx, meta.CreatedAt.Unix(), head)
		if err != nil {
			return stats, fmt.Errorf("genesis block: %w", err)
		}
		buyers, err = r.extractor.Buyers(ctx, token.Address, genesis,
			r.cfg.Profile.GenesisWindowBlocks, r.cfg.Profile.MEVSkipBlocks)
		if err != nil {
			return stats, err
		}
	} else {
		from := uint64(0)
		if head > r.cfg.Profile.SwingWindowBlocks {
			from = head - r.cfg.Profile.SwingWindowBlocks
		}
		buyers, err = r.extractor.BuyersInRange(ctx, token.Address, from, head)
		if err != nil {
			return stats, err
		}
	}

	stats.candidates = len(buyers)
	r.log("  %s: %d candidate buyers", token.Name, len(buyers))

	pastBlock := uint64(0)
	if window := uint64(r.cfg.Audit.RecentWindowDays) * config.BlocksPerDay; head > window {
		pastBlock = head - window
	}

	batchSize := r.cfg.Profile.VerifyBatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	// Wallets are verified in concurrent batches of batchSize; BatchDelay
	// paces consecutive batches to stay under provider rate limits.
	var statsMu sync.Mutex
	addrs := extract.SortedAddresses(buyers)
	for start := 0; start < len(addrs); start += batchSize {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if start > 0 && r.cfg.Profile.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(r.cfg.Profile.BatchDelay):
			}
		}

		end := start + batchSize
		if end > len(addrs) {
			end = len(addrs)
		}

		var batch sync.WaitGroup
		for _, addr := range addrs[start:end] {
			batch.Add(1)
			go func(addr common.Address, buyer domain.CandidateBuyer) {
				defer batch.Done()

				admitted, pnl, reason := r.verifyWallet(ctx, token, meta, buyer, pastBlock, head, now)
				if reason != "" {
					statsMu.Lock()
					stats.failures[reason]++
					if reason == reasonSuspicious {
						stats.blacklisted++
					}
					statsMu.Unlock()
					return
				}
				if !admitted {
					return
				}

				statsMu.Lock()
				stats.admitted++
				statsMu.Unlock()

				mu.Lock()
				agg, ok := hits[addr]
				if !ok {
					agg = &walletAgg{}
					hits[addr] = agg
				}
				agg.tokens = append(agg.tokens, token.Name)
				agg.pnl = agg.pnl.Add(pnl)
				mu.Unlock()
			}(addr, buyers[addr])
		}
		batch.Wait()
	}

	return stats, nil
}

const (
	reasonSmallBuy   = "SmallBuy"
	reasonSuspicious = "Suspicious"
	reasonWeakHold   = "WeakHold"
	reasonBlacklist  = "Blacklisted"
	reasonError      = "Error"
)

// tokenDecimals is assumed for holding valuation; launchpad tokens on Base
// use 18 decimals across the board.
const tokenDecimals = 18

// verifyWallet runs the audit and sell-behavior gauntlet for one candidate.
// An empty reason with admitted=false means the wallet failed no check but
// earned no admission either (clean exit of a dust position, for example).
func (r *Runner) verifyWallet(ctx context.Context, token domain.TrendingToken, meta domain.TokenMetadata, buyer domain.CandidateBuyer, pastBlock, head uint64, now time.Time) (bool, domain.USDAmount, string) {
	if r.blacklist.Has(buyer.Address) {
		return false, domain.USDAmount{}, reasonBlacklist
	}
	if buyer.Received.Cmp(r.minBuy) < 0 {
		return false, domain.USDAmount{}, reasonSmallBuy
	}

	auditRes, err := r.auditor.Audit(ctx, buyer.Address, pastBlock, head)
	if err != nil {
		log.Printf("[orchestrator] audit %s: %v", buyer.Address.Hex(), err)
		return false, domain.USDAmount{}, reasonError
	}
	if !auditRes.Pass {
		return false, domain.USDAmount{}, auditRes.Reason
	}

	report, err := r.classifier.Classify(ctx, buyer.Address, token.Address, buyer.FirstBlock, head, buyer.Received)
	if err != nil {
		log.Printf("[orchestrator] classify %s: %v", buyer.Address.Hex(), err)
		return false, domain.USDAmount{}, reasonError
	}

	if report.Verdict == domain.SellSuspicious {
		r.blacklist.Add(buyer.Address)
		return false, domain.USDAmount{}, reasonSuspicious
	}

	retention := profit.RetentionPct(report.CurrentBalance, buyer.Received)

	if retention > r.cfg.Classify.DiamondRetentionPct {
		ok, holding := r.estimator.DiamondHold(report.CurrentBalance, tokenDecimals, meta, now)
		if !ok {
			return false, domain.USDAmount{}, reasonWeakHold
		}
		return true, holding, ""
	}

	// Position is gone; only a verified router exit earns admission.
	if report.Verdict == domain.SellLegit {
		return true, profit.SoldOutValueUSD(r.cfg.Classify), ""
	}
	return false, domain.USDAmount{}, ""
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
