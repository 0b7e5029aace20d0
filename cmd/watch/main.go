// Package main watches the factory for new pools over a WebSocket
// subscription and appends each launch to the discovery file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/observability"
	"evm-sniper-lab/internal/storage"
	"evm-sniper-lab/internal/trending"
)

func main() {
	configPath := flag.String("config", "", "Optional JSON config overriding defaults")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Expose Prometheus /metrics on this address")
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
	if cfg.RPC.WSURL == "" {
		fmt.Fprintln(os.Stderr, "WS_RPC_URL is required for watching")
		os.Exit(1)
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

	ws, err := evm.NewWSClient(ctx, cfg.RPC.WSURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WebSocket error: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()

	events, err := ws.SubscribeLogs(ctx, evm.LogsFilter{
		Address: common.HexToAddress(cfg.Trending.FactoryAddress),
		Topics:  []common.Hash{trending.PoolCreatedTopic},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Subscribe error: %v\n", err)
		os.Exit(1)
	}

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go func() {
			if err := observability.Serve(*metricsAddr); err != nil {
				log.Printf("[watch] metrics server: %v", err)
			}
		}()
	}

	if progress, err := dir.LoadProgress(); err == nil && progress.LastBlock > 0 {
		log.Printf("[watch] resuming after block %d", progress.LastBlock)
	}

	log.Printf("[watch] watching factory %s", cfg.Trending.FactoryAddress)

	for {
		select {
		case <-ctx.Done():
			return
		case lg, ok := <-events:
			if !ok {
				return
			}
			if len(lg.Topics) < 3 {
				continue
			}
			token0 := evm.TopicAddress(lg.Topics[1])
			token1 := evm.TopicAddress(lg.Topics[2])
			log.Printf("[watch] pool created at block %d: %s / %s", lg.BlockNumber, token0.Hex(), token1.Hex())
			if metrics != nil {
				metrics.PoolsSeen.Inc()
			}

			// Both sides are recorded; the profiler's denylist and dead-dog
			// filters sort out quote assets later.
			appendFresh(dir, token0)
			appendFresh(dir, token1)
			if err := dir.SaveProgress(storage.Progress{LastBlock: lg.BlockNumber}); err != nil {
				log.Printf("[watch] save progress: %v", err)
			}
		}
	}
}

// appendFresh merges one token into the fresh list of the discovery file.
func appendFresh(dir *storage.Dir, token common.Address) {
	var result trending.Result
	if err := dir.ReadJSON(storage.TrendingFile, &result); err != nil && !errors.Is(err, storage.ErrNotFound) {
		// First write creates the file.
		log.Printf("[watch] read %s: %v", storage.TrendingFile, err)
	}

	for _, t := range result.Fresh {
		if t.Address == token {
			return
		}
	}
	result.Fresh = append(result.Fresh, domain.TrendingToken{
		Name:    domain.FreshTokenName,
		Address: token,
	})

	if err := dir.WriteJSON(storage.TrendingFile, result); err != nil {
		log.Printf("[watch] write %s: %v", storage.TrendingFile, err)
	}
}
