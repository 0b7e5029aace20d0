// Package main runs the discovery step on its own and writes the merged
// token list to the data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/scan"
	"evm-sniper-lab/internal/storage"
	"evm-sniper-lab/internal/trending"
)

func main() {
	configPath := flag.String("config", "", "Optional JSON config overriding defaults")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	noChain := flag.Bool("no-chain", false, "Skip the on-chain factory scan")
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

	dex := trending.NewDexScreener(cfg.Trending.Chain)

	var factory *trending.FactoryScanner
	if !*noChain {
		node, err := evm.Dial(ctx, cfg.RPC.LocalURL, evm.WithCallTimeout(cfg.RPC.Timeout))
		if err != nil {
			fmt.Fprintf(os.Stderr, "RPC error: %v\n", err)
			os.Exit(1)
		}
		defer node.Close()
		scanner := scan.NewScanner(node,
			scan.WithChunkSize(cfg.Scan.ChunkSize),
			scan.WithChunkDelay(cfg.Scan.ChunkDelay))
		factory = trending.NewFactoryScanner(node, scanner, common.HexToAddress(cfg.Trending.FactoryAddress))
	}

	feed := trending.NewFeed(
		trending.NewCoinGecko(dex, cfg.Trending.PageDelay),
		trending.NewGeckoTerminal(cfg.Trending.Chain, cfg.Trending.PageDelay),
		factory,
		cfg.Trending)

	result, err := feed.Collect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discovery error: %v\n", err)
		os.Exit(1)
	}

	if err := dir.WriteJSON(storage.TrendingFile, result); err != nil {
		fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d tokens (%d legends, %d trending, %d fresh) to %s\n",
		len(result.All()), len(result.Legends), len(result.Trending), len(result.Fresh),
		dir.Path(storage.TrendingFile))
	for _, e := range result.Errors {
		fmt.Printf("  source failure: %s\n", e)
	}
}
