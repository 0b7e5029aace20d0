// Package main runs the profiling step over a previously discovered token
// list, producing the ranked wallet artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"evm-sniper-lab/internal/audit"
	"evm-sniper-lab/internal/blacklist"
	"evm-sniper-lab/internal/blocktime"
	"evm-sniper-lab/internal/classify"
	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/extract"
	"evm-sniper-lab/internal/orchestrator"
	"evm-sniper-lab/internal/profit"
	"evm-sniper-lab/internal/reporting"
	"evm-sniper-lab/internal/scan"
	"evm-sniper-lab/internal/storage"
	"evm-sniper-lab/internal/trending"
)

func main() {
	configPath := flag.String("config", "", "Optional JSON config overriding defaults")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	dir, err := storage.NewDir(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Data dir error: %v\n", err)
		os.Exit(1)
	}

	var tokens trending.Result
	if err := dir.ReadJSON(storage.TrendingFile, &tokens); err != nil {
		fmt.Fprintf(os.Stderr, "Trending file error (run cmd/trending first): %v\n", err)
		os.Exit(1)
	}

	retry := evm.RetryPolicy{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		MaxDelay:   cfg.Retry.MaxDelay,
		Multiplier: cfg.Retry.Multiplier,
	}
	local, err := evm.Dial(ctx, cfg.RPC.LocalURL,
		evm.WithRetryPolicy(retry), evm.WithCallTimeout(cfg.RPC.Timeout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "RPC error: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	archive := local
	if cfg.RPC.RemoteURL != "" {
		archive, err = evm.Dial(ctx, cfg.RPC.RemoteURL,
			evm.WithRetryPolicy(retry), evm.WithCallTimeout(cfg.RPC.Timeout))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Archive RPC error: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
	}

	bl, err := blacklist.Load(dir.Path(storage.BlacklistFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Blacklist error: %v\n", err)
		os.Exit(1)
	}

	routers := cfg.RouterAddresses()
	archiveScan := scan.NewScanner(archive,
		scan.WithChunkSize(cfg.Scan.ChunkSize),
		scan.WithChunkDelay(cfg.Scan.ChunkDelay),
		scan.WithMaxBisectDepth(cfg.Scan.MaxBisectDepth))

	auditor, err := audit.NewAuditor(local, archive, cfg.Audit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Auditor error: %v\n", err)
		os.Exit(1)
	}

	runner, err := orchestrator.New(orchestrator.Options{
		Head:       local,
		Resolver:   blocktime.NewResolver(local, blocktime.WithProbeDelay(cfg.Scan.ProbeDelay)),
		Metadata:   trending.NewDexScreener(cfg.Trending.Chain),
		Extractor:  extract.NewExtractor(archiveScan, routers),
		Auditor:    auditor,
		Classifier: classify.NewClassifier(local, archiveScan, routers, cfg.Classify),
		Estimator:  profit.NewEstimator(cfg.Classify),
		Blacklist:  bl,
		Config:     cfg,
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
		Errors:           result.Errors,
	}
	if err := dir.WriteFile(storage.ReportFile, []byte(reporting.RenderMarkdown(report))); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}
	csvOut, err := reporting.RenderCSV(result.Hits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}
	if err := dir.WriteFile(storage.LegendsCSV, []byte(csvOut)); err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}

	reporting.PrintConsole(report)
}
