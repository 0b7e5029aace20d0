package trending

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm/stub"
	"evm-sniper-lab/internal/observability"
	"evm-sniper-lab/internal/scan"
)

func tok(name string, addr byte) domain.TrendingToken {
	return domain.TrendingToken{Name: name, Address: common.BytesToAddress([]byte{addr})}
}

func TestDropStablecoins(t *testing.T) {
	out := dropStablecoins([]domain.TrendingToken{
		tok("Brett", 1),
		tok("USD Coin", 2),
		tok("Tether USD", 3),
		tok("Degen", 4),
		tok("DAI Stablecoin", 5),
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if out[0].Name != "Brett" || out[1].Name != "Degen" {
		t.Errorf("wrong survivors: %v", out)
	}
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	out := dedupe([]domain.TrendingToken{
		tok("First", 1),
		tok("Second", 2),
		tok("Duplicate", 1),
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(out))
	}
	if out[0].Name != "First" {
		t.Error("dedupe must keep the first occurrence")
	}
}

func TestTruncate(t *testing.T) {
	in := []domain.TrendingToken{tok("a", 1), tok("b", 2), tok("c", 3)}

	if got := truncate(in, 2); len(got) != 2 {
		t.Errorf("expected 2, got %d", len(got))
	}
	if got := truncate(in, 0); len(got) != 3 {
		t.Errorf("zero cap must keep all, got %d", len(got))
	}
	if got := truncate(in, 10); len(got) != 3 {
		t.Errorf("large cap must keep all, got %d", len(got))
	}
}

func TestResult_AllPrefersLegends(t *testing.T) {
	r := Result{
		Legends:  []domain.TrendingToken{tok("Legend", 1)},
		Trending: []domain.TrendingToken{tok("AlsoLegend", 1), tok("Hot", 2)},
		Fresh:    []domain.TrendingToken{tok("New", 3)},
	}

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 unique tokens, got %d", len(all))
	}
	if all[0].Name != "Legend" {
		t.Error("legends must come first and win duplicates")
	}
}

func TestCollect_CountsDiscoveredTokens(t *testing.T) {
	client := &stub.Client{
		Head:       10_000,
		BlockTimes: map[uint64]uint64{9_500: 1_700_000_000},
		Logs: []types.Log{
			poolCreated(9_500, weth, newTok),
		},
	}
	fs := NewFactoryScanner(client, scan.NewScanner(client, scan.WithChunkDelay(0)), factory)
	m := observability.NewMetrics("feedtest")

	cfg := config.TrendingConfig{
		ScanBlocks: 2_000,
		Pinned:     []config.PinnedToken{{Name: "Brett", Address: "0x532f27101965dd16442e59d40670faf5ebb142e4"}},
	}
	feed := NewFeed(nil, nil, fs, cfg, WithMetrics(m))

	res, err := feed.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Fresh) != 1 || len(res.Trending) != 1 {
		t.Fatalf("expected 1 fresh and 1 pinned token, got %d/%d", len(res.Fresh), len(res.Trending))
	}

	if got := testutil.ToFloat64(m.TokensDiscovered.WithLabelValues("factory")); got != 1 {
		t.Errorf("expected 1 factory discovery counted, got %g", got)
	}
	if got := testutil.ToFloat64(m.TokensDiscovered.WithLabelValues("pinned")); got != 1 {
		t.Errorf("expected 1 pinned token counted, got %g", got)
	}
}

func TestTokenIDAddress(t *testing.T) {
	addr, ok := tokenIDAddress("base_0x4200000000000000000000000000000000000006")
	if !ok {
		t.Fatal("expected valid token ID to parse")
	}
	if addr != common.HexToAddress("0x4200000000000000000000000000000000000006") {
		t.Errorf("wrong address: %s", addr.Hex())
	}

	if _, ok := tokenIDAddress("garbage"); ok {
		t.Error("missing separator must not parse")
	}
	if _, ok := tokenIDAddress("base_nothex"); ok {
		t.Error("non-hex address must not parse")
	}
}

func TestPoolTokenName(t *testing.T) {
	if got := poolTokenName("BRETT / WETH"); got != "BRETT" {
		t.Errorf("expected BRETT, got %q", got)
	}
	if got := poolTokenName("SOLO"); got != "SOLO" {
		t.Errorf("expected SOLO, got %q", got)
	}
}
