package profit

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"evm-sniper-lab/internal/domain"
)

func hit(addr byte, pnl float64, tokens ...string) domain.WalletHit {
	return domain.WalletHit{
		Address:      common.BytesToAddress([]byte{addr}),
		Tokens:       tokens,
		EstimatedPnL: domain.USDAmount{Value: decimal.NewFromFloat(pnl), Quality: domain.PriceEstimated},
	}
}

func TestRank_BreadthBeatsPnL(t *testing.T) {
	ranked := Rank([]domain.WalletHit{
		hit(1, 100_000, "A"),
		hit(2, 500, "A", "B", "C"),
		hit(3, 5_000, "A", "B"),
	}, 1)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(ranked))
	}
	if len(ranked[0].Tokens) != 3 || len(ranked[1].Tokens) != 2 || len(ranked[2].Tokens) != 1 {
		t.Errorf("expected breadth-first order, got %v", ranked)
	}
}

func TestRank_PnLBreaksTies(t *testing.T) {
	ranked := Rank([]domain.WalletHit{
		hit(1, 500, "A", "B"),
		hit(2, 9_000, "C", "D"),
	}, 1)

	if ranked[0].EstimatedPnL.Value.InexactFloat64() != 9_000 {
		t.Error("expected higher PnL first on equal breadth")
	}
}

func TestRank_FiltersBelowMinHits(t *testing.T) {
	ranked := Rank([]domain.WalletHit{
		hit(1, 100, "A"),
		hit(2, 100, "A", "B"),
	}, 2)

	if len(ranked) != 1 {
		t.Fatalf("expected 1 hit after filter, got %d", len(ranked))
	}
	if len(ranked[0].Tokens) != 2 {
		t.Error("wrong wallet survived the filter")
	}
}

func TestRank_AssignsTiers(t *testing.T) {
	ranked := Rank([]domain.WalletHit{
		hit(1, 60_000, "A"),
		hit(2, 12_000, "B"),
		hit(3, 3_000, "C"),
		hit(4, 100, "D"),
	}, 1)

	want := map[byte]string{
		1: domain.TierWhale,
		2: domain.TierShark,
		3: domain.TierDolphin,
		4: domain.TierFish,
	}
	for _, h := range ranked {
		if h.Tier != want[h.Address[19]] {
			t.Errorf("wallet %x: expected tier %s, got %s", h.Address[19], want[h.Address[19]], h.Tier)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	a := Rank([]domain.WalletHit{hit(2, 100, "A"), hit(1, 100, "B")}, 1)
	b := Rank([]domain.WalletHit{hit(1, 100, "B"), hit(2, 100, "A")}, 1)

	if a[0].Address != b[0].Address || a[1].Address != b[1].Address {
		t.Error("equal hits must rank in stable address order")
	}
}
