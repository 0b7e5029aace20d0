// Package config collects every tunable of the profiling pipeline into one
// versioned structure. Components receive the sub-struct they need; no
// thresholds are hardcoded inside algorithm bodies.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// BlocksPerDay assumes a 2-second block time (Base mainnet).
const BlocksPerDay = 43200

// ArchivePolicy names the behavior when the archive endpoint cannot answer a
// historical query during the audit's activity-window check.
type ArchivePolicy string

const (
	// ArchiveStrict fails the audit on archive errors (safer against false
	// positives). This is the default.
	ArchiveStrict ArchivePolicy = "strict"
	// ArchiveLenient passes the check on archive errors (avoids false
	// negatives when infrastructure is flaky).
	ArchiveLenient ArchivePolicy = "lenient"
)

// Config is the full pipeline configuration.
type Config struct {
	RPC      RPCConfig      `json:"rpc"`
	Retry    RetryConfig    `json:"retry"`
	Scan     ScanConfig     `json:"scan"`
	Profile  ProfileConfig  `json:"profile"`
	Audit    AuditConfig    `json:"audit"`
	Classify ClassifyConfig `json:"classify"`
	Trending TrendingConfig `json:"trending"`
	Wealth   WealthConfig   `json:"wealth"`
	Liveness LivenessConfig `json:"liveness"`

	// Routers is the recognized DEX router allowlist (legitimate sells).
	// It doubles, together with the zero address, as the infrastructure
	// denylist of the early-buyer extractor.
	Routers []string `json:"routers"`

	// DataDir holds every flat file the pipeline reads or writes.
	DataDir string `json:"dataDir"`
}

// RPCConfig holds the two logical endpoints: a cheap local node for
// current-state reads and a metered archive node for historical reads.
type RPCConfig struct {
	LocalURL  string        `json:"localUrl"`
	RemoteURL string        `json:"remoteUrl"`
	WSURL     string        `json:"wsUrl,omitempty"`
	Timeout   time.Duration `json:"timeout"`
}

// RetryConfig bounds the retry loop for transient RPC failures.
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	BaseDelay  time.Duration `json:"baseDelay"`
	MaxDelay   time.Duration `json:"maxDelay"`
	Multiplier float64       `json:"multiplier"`
}

// ScanConfig bounds chunked log retrieval.
type ScanConfig struct {
	ChunkSize      uint64        `json:"chunkSize"`
	ChunkDelay     time.Duration `json:"chunkDelay"`
	ProbeDelay     time.Duration `json:"probeDelay"` // between block-time binary-search probes
	MaxBisectDepth int           `json:"maxBisectDepth"`
}

// ProfileConfig drives early-buyer extraction and candidate admission.
type ProfileConfig struct {
	GenesisWindowBlocks uint64        `json:"genesisWindowBlocks"` // Mode A: first N blocks after genesis
	SwingWindowBlocks   uint64        `json:"swingWindowBlocks"`   // Mode B: trailing window for old tokens
	MEVSkipBlocks       uint64        `json:"mevSkipBlocks"`
	OldTokenAgeHours    float64       `json:"oldTokenAgeHours"` // above this, use Swing mode
	DeadTokenAgeHours   float64       `json:"deadTokenAgeHours"`
	DeadTokenMinFDV     float64       `json:"deadTokenMinFdv"`
	MinBuyWei           string        `json:"minBuyWei"` // decimal string, base units
	ConcurrentTokens    int           `json:"concurrentTokens"`
	VerifyBatchSize     int           `json:"verifyBatchSize"`
	BatchDelay          time.Duration `json:"batchDelay"`
	MinHitCount         int           `json:"minHitCount"`
}

// AuditConfig holds the wallet auditor thresholds.
type AuditConfig struct {
	MaxNonce         uint64        `json:"maxNonce"`
	MinNonce         uint64        `json:"minNonce"`
	MinBalanceWei    string        `json:"minBalanceWei"`
	RecentWindowDays int           `json:"recentWindowDays"`
	MinWindowTxs     int64         `json:"minWindowTxs"`
	MaxWindowTxs     int64         `json:"maxWindowTxs"`
	ArchivePolicy    ArchivePolicy `json:"archivePolicy"`
}

// ClassifyConfig holds sell/retention and diamond-hand thresholds.
type ClassifyConfig struct {
	NoSellRetentionPct   int64   `json:"noSellRetentionPct"`  // balance ≥ this % of buy → NoSell short-circuit
	DiamondRetentionPct  int64   `json:"diamondRetentionPct"` // above this % the wallet counts as holding
	FreshAgeHours        float64 `json:"freshAgeHours"`       // entry-price estimate only trusted below this age
	DiamondMinMultiple   float64 `json:"diamondMinMultiple"`
	DiamondMinHoldUSD    float64 `json:"diamondMinHoldUsd"`
	DiamondMinHoldUSDOld float64 `json:"diamondMinHoldUsdOld"`
	SoldOutWeightUSD     float64 `json:"soldOutWeightUsd"` // fixed PnL weight for clean exits
}

// TrendingConfig drives the multi-source discovery feed.
type TrendingConfig struct {
	Chain           string        `json:"chain"`
	FetchPages      int           `json:"fetchPages"`
	TopMarketCap    int           `json:"topMarketCap"`
	ScanBlocks      uint64        `json:"scanBlocks"`
	MinLiquidityUSD float64       `json:"minLiquidityUsd"`
	MinVolume24hUSD float64       `json:"minVolume24hUsd"`
	KeepFresh       int           `json:"keepFresh"`
	KeepTrending    int           `json:"keepTrending"`
	FactoryAddress  string        `json:"factoryAddress"`
	PageDelay       time.Duration `json:"pageDelay"`

	// Pinned tokens are always analyzed regardless of feed results.
	Pinned []PinnedToken `json:"pinned,omitempty"`
}

// PinnedToken is a hand-maintained always-include entry.
type PinnedToken struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WealthConfig drives the net-worth verification stage.
type WealthConfig struct {
	MinNetWorthUSD float64        `json:"minNetWorthUsd"`
	Tokens         []TrackedToken `json:"tokens"`
}

// TrackedToken is an ERC-20 whose balance counts toward net worth.
type TrackedToken struct {
	Symbol        string  `json:"symbol"`
	Address       string  `json:"address"`
	Decimals      int32   `json:"decimals"`
	FallbackPrice float64 `json:"fallbackPrice"` // used when every price API fails
}

// LivenessConfig drives the active-trader check.
type LivenessConfig struct {
	CheckDays int `json:"checkDays"`
}

// Default returns the configuration tuned for Base mainnet through a paid
// archive provider. Values mirror the thresholds the strategy was calibrated
// with; override via JSON file for other chains or free-tier providers.
func Default() Config {
	return Config{
		RPC: RPCConfig{
			LocalURL:  "http://127.0.0.1:8545",
			RemoteURL: "",
			Timeout:   30 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries: 5,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
			Multiplier: 1.5,
		},
		Scan: ScanConfig{
			ChunkSize:      10000,
			ChunkDelay:     10 * time.Millisecond,
			ProbeDelay:     50 * time.Millisecond,
			MaxBisectDepth: 32,
		},
		Profile: ProfileConfig{
			GenesisWindowBlocks: 7200,              // ~4h
			SwingWindowBlocks:   30 * BlocksPerDay, // ~30d
			MEVSkipBlocks:       5,
			OldTokenAgeHours:    168,
			DeadTokenAgeHours:   144,
			DeadTokenMinFDV:     500000,
			MinBuyWei:           "50000000000000000", // 0.05 in 18-decimal units
			ConcurrentTokens:    10,
			VerifyBatchSize:     50,
			BatchDelay:          50 * time.Millisecond,
			MinHitCount:         1,
		},
		Audit: AuditConfig{
			MaxNonce:         50000,
			MinNonce:         5,
			MinBalanceWei:    "2000000000000000", // 0.002 ETH
			RecentWindowDays: 7,
			MinWindowTxs:     1,
			MaxWindowTxs:     150,
			ArchivePolicy:    ArchiveStrict,
		},
		Classify: ClassifyConfig{
			NoSellRetentionPct:   90,
			DiamondRetentionPct:  10,
			FreshAgeHours:        24,
			DiamondMinMultiple:   3.0,
			DiamondMinHoldUSD:    200,
			DiamondMinHoldUSDOld: 500,
			SoldOutWeightUSD:     1000,
		},
		Trending: TrendingConfig{
			Chain:           "base",
			FetchPages:      5,
			TopMarketCap:    100,
			ScanBlocks:      2000,
			MinLiquidityUSD: 5000,
			MinVolume24hUSD: 2000,
			KeepFresh:       20,
			KeepTrending:    40,
			FactoryAddress:  "0x33128a8fC17869897dcE68Ed026d694621f6FDfD", // Uniswap V3 factory on Base
			PageDelay:       1500 * time.Millisecond,
		},
		Wealth: WealthConfig{
			MinNetWorthUSD: 1000,
			Tokens: []TrackedToken{
				{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, FallbackPrice: 3200},
				{Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6, FallbackPrice: 1},
				{Symbol: "VIRTUAL", Address: "0x0b3e328455c4059EEb9e3f84b5543F74E24e7E1b", Decimals: 18, FallbackPrice: 0},
				{Symbol: "BRETT", Address: "0x532f27101965dd16442e59d40670faf5ebb142e4", Decimals: 18, FallbackPrice: 0},
				{Symbol: "DEGEN", Address: "0x4ed4e862860bed51a9570b96d89af5e1b0efefed", Decimals: 18, FallbackPrice: 0},
				{Symbol: "TOSHI", Address: "0xac1bd2486aaf3b5c0fc3fd868558b082a531b2b4", Decimals: 18, FallbackPrice: 0},
			},
		},
		Liveness: LivenessConfig{
			CheckDays: 7,
		},
		Routers: []string{
			"0x2626664c2603336e57b271c5c0b26f421741e481", // Uniswap V3
			"0x4752ba5dbc23f44d87826276bf6fd6b1c372ad58", // Uniswap V2
			"0xcf77a3ba9a5ca399b7c97c74d54e5b1beb874e43", // Aerodrome Universal
			"0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad", // Universal Router
			"0x1111111254fb6c44bac0bed2854e76f90643097d", // 1inch
			"0xbe6d8f0d05cc4be24d5167a3ef062215be6d18a5", // Aerodrome Slipstream
			"0x327df1e6de05895d2ab08513aadd9313fe505d86", // BaseSwap V2
			"0x8c1a3cf8f83074169fe5d7ad50b978e1cd6b37c7", // AlienBase V2
			"0x6bded42c6da8fbf0d2ba55b2fa120c5e0c8d7891", // SushiSwap V2
			"0x678aa4bf4e210cf2166753e054d5b7c31cc7fa86", // PancakeSwap V3
			"0x04c9f17463a2e8ed375772f412171b963d984531", // SwapBased V2
			"0x4cf76043b3f97ba06917cbd90f9e3a2afcdb1b78", // RocketSwap V2
			"0x2948acbbc8795267e62a1220683a48e718b52585", // BaseSwap
			"0x1b81d678ffb9c0263b24a97847620c99d213eb14", // PancakeSwap V3 pool deployer
			"0xaaa3b1f1bd7bcc97fd1917c18ade665c5d31f066", // SwapBased
			"0x4cf76043b3f97ba06917cbd90f9e3a2afcd1acd0", // RocketSwap
			"0x743f2f29cdd66242fb27d292ab2cc92f45674635", // Universal Router (legacy)
			"0x8d0d118070b728e104294471fbe93c2e3affd694", // Odos
			"0x663dc15d3c1ac63ff12e45ab68fea3f0a883c251", // deBridge
			"0xc479b79e53c1065e5e56a6da78e9d634b4ae1e5d", // Virtuals Protocol
			"0x498581ff718922c3f8e6a244956af099b2652b2b", // Uniswap V4 pool manager
		},
		DataDir: "data",
	}
}

// RouterAddresses parses the router allowlist into address form.
func (c *Config) RouterAddresses() []common.Address {
	out := make([]common.Address, 0, len(c.Routers))
	for _, r := range c.Routers {
		out = append(out, common.HexToAddress(r))
	}
	return out
}

// Load reads a JSON file over the defaults. Missing fields keep their default
// values; an absent file is an error so typos in --config surface early.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides endpoint URLs from the environment (typically loaded
// from .env). Empty variables are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LOCAL_RPC_URL"); v != "" {
		c.RPC.LocalURL = v
	}
	if v := os.Getenv("REMOTE_RPC_URL"); v != "" {
		c.RPC.RemoteURL = v
	}
	if v := os.Getenv("WS_RPC_URL"); v != "" {
		c.RPC.WSURL = v
	}
}
