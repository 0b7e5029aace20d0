package trending

import (
	"math"
	"testing"
)

func TestBackSolveEntry(t *testing.T) {
	// Price doubled over 24h: the entry was half the current price.
	if got := backSolveEntry(0.004, 100); math.Abs(got-0.002) > 1e-12 {
		t.Errorf("expected 0.002, got %g", got)
	}
	// Flat day: entry equals current.
	if got := backSolveEntry(1.5, 0); got != 1.5 {
		t.Errorf("expected 1.5, got %g", got)
	}
	// Drawdown: entry was higher than current.
	if got := backSolveEntry(0.5, -50); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("expected 1.0, got %g", got)
	}
	// Degenerate change leaves no estimate.
	if got := backSolveEntry(0.5, -100); got != 0 {
		t.Errorf("expected 0, got %g", got)
	}
	if got := backSolveEntry(0.5, -150); got != 0 {
		t.Errorf("expected 0, got %g", got)
	}
}

func TestBestPair_PicksDeepestOnChain(t *testing.T) {
	d := NewDexScreener("base")

	pairs := []dsPair{
		{ChainID: "ethereum", PriceUSD: "1"},
		{ChainID: "base", PriceUSD: "2"},
		{ChainID: "base", PriceUSD: "3"},
	}
	pairs[0].Liquidity.USD = 9_000_000
	pairs[1].Liquidity.USD = 50_000
	pairs[2].Liquidity.USD = 200_000

	best, ok := d.bestPair(pairs)
	if !ok {
		t.Fatal("expected a match")
	}
	if best.PriceUSD != "3" {
		t.Errorf("expected the deepest base pool, got price %s", best.PriceUSD)
	}
}

func TestBestPair_NoChainMatch(t *testing.T) {
	d := NewDexScreener("base")
	if _, ok := d.bestPair([]dsPair{{ChainID: "solana"}}); ok {
		t.Error("expected no match off-chain")
	}
}
