// Package main provides the full pipeline entry point.
// Executes: discovery → profiling → wealth verification → liveness
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"evm-sniper-lab/internal/audit"
	"evm-sniper-lab/internal/blacklist"
	"evm-sniper-lab/internal/blocktime"
	"evm-sniper-lab/internal/classify"
	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/extract"
	"evm-sniper-lab/internal/liveness"
	"evm-sniper-lab/internal/observability"
	"evm-sniper-lab/internal/orchestrator"
	"evm-sniper-lab/internal/profit"
	"evm-sniper-lab/internal/reporting"
	"evm-sniper-lab/internal/scan"
	"evm-sniper-lab/internal/storage"
	"evm-sniper-lab/internal/trending"
	"evm-sniper-lab/internal/wealth"
)

func main() {
	configPath := flag.String("config", "", "Optional JSON config overriding defaults")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	skipTrending := flag.Bool("skip-trending", false, "Reuse existing trending_tokens.json")
	skipWealth := flag.Bool("skip-wealth", false, "Skip net-worth verification")
	skipLiveness := flag.Bool("skip-liveness", false, "Skip activity check")
	metricsAddr := flag.String("metrics-addr", "", "Expose Prometheus /metrics on this address")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.ApplyEnv()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go func() {
			if err := observability.Serve(*metricsAddr); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics server: %v\n", err)
			}
		}()
	}
	runStart := time.Now()

	dir, err := storage.NewDir(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Data dir error: %v\n", err)
		os.Exit(1)
	}

	local, archive, err := dial(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "RPC error: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()
	if archive != local {
		defer archive.Close()
	}

	routers := cfg.RouterAddresses()
	localScan := scan.NewScanner(local,
		scan.WithChunkSize(cfg.Scan.ChunkSize),
		scan.WithChunkDelay(cfg.Scan.ChunkDelay),
		scan.WithMaxBisectDepth(cfg.Scan.MaxBisectDepth))
	archiveScan := scan.NewScanner(archive,
		scan.WithChunkSize(cfg.Scan.ChunkSize),
		scan.WithChunkDelay(cfg.Scan.ChunkDelay),
		scan.WithMaxBisectDepth(cfg.Scan.MaxBisectDepth))

	dex := trending.NewDexScreener(cfg.Trending.Chain)

	// Step 1: discovery
	var tokens trending.Result
	if *skipTrending {
		if err := dir.ReadJSON(storage.TrendingFile, &tokens); err != nil {
			fmt.Fprintf(os.Stderr, "Trending file error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Reusing %d discovered tokens\n", len(tokens.All()))
	} else {
		fmt.Println("=== Step 1: Discovery ===")
		var feedOpts []trending.FeedOption
		if metrics != nil {
			feedOpts = append(feedOpts, trending.WithMetrics(metrics))
		}
		feed := trending.NewFeed(
			trending.NewCoinGecko(dex, cfg.Trending.PageDelay),
			trending.NewGeckoTerminal(cfg.Trending.Chain, cfg.Trending.PageDelay),
			trending.NewFactoryScanner(local, localScan, common.HexToAddress(cfg.Trending.FactoryAddress)),
			cfg.Trending, feedOpts...)
		tokens, err = feed.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Discovery error: %v\n", err)
			os.Exit(1)
		}
		if err := dir.WriteJSON(storage.TrendingFile, tokens); err != nil {
			fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Discovered %d tokens (%d legends, %d trending, %d fresh)\n",
			len(tokens.All()), len(tokens.Legends), len(tokens.Trending), len(tokens.Fresh))
	}

	// Step 2: profiling
	fmt.Println("=== Step 2: Profiling ===")
	bl, err := blacklist.Load(dir.Path(storage.BlacklistFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Blacklist error: %v\n", err)
		os.Exit(1)
	}

	auditor, err := audit.NewAuditor(local, archive, cfg.Audit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Auditor error: %v\n", err)
		os.Exit(1)
	}

	runner, err := orchestrator.New(orchestrator.Options{
		Head:       local,
		Resolver:   blocktime.NewResolver(local, blocktime.WithProbeDelay(cfg.Scan.ProbeDelay)),
		Metadata:   dex,
		Extractor:  extract.NewExtractor(archiveScan, routers),
		Auditor:    auditor,
		Classifier: classify.NewClassifier(local, archiveScan, routers, cfg.Classify),
		Estimator:  profit.NewEstimator(cfg.Classify),
		Blacklist:  bl,
		Config:     cfg,
		Metrics:    metrics,
		Verbose:    *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Runner error: %v\n", err)
		os.Exit(1)
	}

	result, err := runner.Run(ctx, tokens.All())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Profiling error: %v\n", err)
		os.Exit(1)
	}
	if err := bl.Save(dir.Path(storage.BlacklistFile)); err != nil {
		fmt.Fprintf(os.Stderr, "Blacklist save error: %v\n", err)
	}
	if err := dir.WriteJSON(storage.LegendsFile, result.Hits); err != nil {
		fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
		os.Exit(1)
	}

	report := &reporting.Report{
		GeneratedAt:      time.Now().UTC(),
		TokensAnalyzed:   result.TokensAnalyzed,
		TokensSkipped:    result.TokensSkipped,
		CandidatesSeen:   result.CandidatesSeen,
		WalletsAdmitted:  result.WalletsAdmitted,
		Blacklisted:      result.Blacklisted,
		Hits:             result.Hits,
		FailuresByReason: result.FailuresByReason,
		Errors:           append(tokens.Errors, result.Errors...),
	}

	// Step 3: wealth verification
	if !*skipWealth {
		fmt.Println("=== Step 3: Wealth Verification ===")
		addrs := make([]common.Address, len(result.Hits))
		for i, h := range result.Hits {
			addrs[i] = h.Address
		}
		verified, err := wealth.NewVerifier(local, dex, cfg.Wealth).Verify(ctx, addrs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Wealth error: %v\n", err)
			os.Exit(1)
		}
		report.Verified = verified
		if err := dir.WriteJSON(storage.VerifiedFile, verified); err != nil {
			fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Verified %d of %d wallets above $%.0f\n",
			len(verified), len(addrs), cfg.Wealth.MinNetWorthUSD)
	}

	// Step 4: liveness
	if !*skipLiveness {
		fmt.Println("=== Step 4: Liveness ===")
		checker := liveness.NewChecker(local, archive, routers, cfg.Liveness)
		tracked := make([]common.Address, 0, len(cfg.Wealth.Tokens))
		for _, t := range cfg.Wealth.Tokens {
			tracked = append(tracked, common.HexToAddress(t.Address))
		}
		subjects := report.Verified
		for _, v := range subjects {
			act, err := checker.Check(ctx, archiveScan, v.Address, tracked)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Liveness %s: %v\n", v.Address.Hex(), err)
				continue
			}
			report.Activity = append(report.Activity, act)
		}
		if err := dir.WriteJSON(storage.ActiveFile, report.Activity); err != nil {
			fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
			os.Exit(1)
		}
	}

	// Render artifacts
	if err := dir.WriteFile(storage.ReportFile, []byte(reporting.RenderMarkdown(report))); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}
	csvOut, err := reporting.RenderCSV(report.Hits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}
	if err := dir.WriteFile(storage.LegendsCSV, []byte(csvOut)); err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}

	if metrics != nil {
		metrics.RunDuration.Observe(time.Since(runStart).Seconds())
	}

	reporting.PrintConsole(report)
}

// dial connects both endpoints and checks connectivity. Without a remote
// archive endpoint the local node serves both roles.
func dial(ctx context.Context, cfg config.Config) (*evm.Node, *evm.Node, error) {
	retry := evm.RetryPolicy{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		Multiplier: cfg.Retry.Multiplier,
	}

	local, err := evm.Dial(ctx, cfg.RPC.LocalURL,
		evm.WithRetryPolicy(retry), evm.WithCallTimeout(cfg.RPC.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("local endpoint: %w", err)
	}
	if _, err := local.BlockNumber(ctx); err != nil {
		return nil, nil, fmt.Errorf("local endpoint unreachable: %w", err)
	}

	if cfg.RPC.RemoteURL == "" {
		return local, local, nil
	}
	archive, err := evm.Dial(ctx, cfg.RPC.RemoteURL,
		evm.WithRetryPolicy(retry), evm.WithCallTimeout(cfg.RPC.Timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("archive endpoint: %w", err)
	}
	return local, archive, nil
}
