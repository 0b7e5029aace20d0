package profit

import (
	"math/big"
	"testing"
	"time"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
)

func testConfig() config.ClassifyConfig {
	return config.ClassifyConfig{
		NoSellRetentionPct:   90,
		DiamondRetentionPct:  10,
		FreshAgeHours:        24,
		DiamondMinMultiple:   3.0,
		DiamondMinHoldUSD:    200,
		DiamondMinHoldUSDOld: 500,
		SoldOutWeightUSD:     1000,
	}
}

func TestRetentionPct(t *testing.T) {
	cases := []struct {
		balance, buy int64
		want         int64
	}{
		{95, 100, 95},
		{0, 100, 0},
		{10, 100, 10},
		{150, 100, 150}, // bought more later
		{100, 0, 100},   // zero buy defaults to full retention
	}
	for _, tc := range cases {
		got := RetentionPct(big.NewInt(tc.balance), big.NewInt(tc.buy))
		if got != tc.want {
			t.Errorf("RetentionPct(%d, %d) = %d, want %d", tc.balance, tc.buy, got, tc.want)
		}
	}
}

func TestHoldingValueUSD(t *testing.T) {
	// 2.5 tokens at 18 decimals, $4 each.
	balance, _ := new(big.Int).SetString("2500000000000000000", 10)
	v := HoldingValueUSD(balance, 18, domain.ObservedUSD(4))

	if v.Value.InexactFloat64() != 10 {
		t.Errorf("expected $10, got %s", v.Value)
	}
	if v.Quality != domain.PriceObserved {
		t.Errorf("observed price must yield observed value, got %s", v.Quality)
	}
}

func TestSoldOutValueUSD_AlwaysEstimated(t *testing.T) {
	v := SoldOutValueUSD(testConfig())
	if v.Value.InexactFloat64() != 1000 {
		t.Errorf("expected $1000 weight, got %s", v.Value)
	}
	if v.Quality != domain.PriceEstimated {
		t.Error("clean-exit weight must be estimated")
	}
}

func tokens(n float64) *big.Int {
	f := new(big.Float).SetPrec(256).Mul(big.NewFloat(n), big.NewFloat(1e18))
	out, _ := f.Int(nil)
	return out
}

func TestDiamondHold_FreshTokenNeedsMultipleAndValue(t *testing.T) {
	e := NewEstimator(testConfig())
	now := time.Now()

	meta := domain.TokenMetadata{
		CreatedAt:       now.Add(-6 * time.Hour),
		CurrentPriceUSD: domain.ObservedUSD(0.004),
		EntryPriceUSD:   domain.EstimatedUSD(0.001), // 4x
	}

	// 100k tokens at $0.004 = $400 held, above the $200 floor.
	ok, holding := e.DiamondHold(tokens(100_000), 18, meta, now)
	if !ok {
		t.Error("4x multiple with $400 held must qualify")
	}
	if holding.Value.InexactFloat64() != 400 {
		t.Errorf("expected $400 holding, got %s", holding.Value)
	}

	// Same value but only a 2x multiple.
	meta.EntryPriceUSD = domain.EstimatedUSD(0.002)
	if ok, _ := e.DiamondHold(tokens(100_000), 18, meta, now); ok {
		t.Error("2x multiple must not qualify on a fresh token")
	}

	// 4x multiple but only $40 held.
	meta.EntryPriceUSD = domain.EstimatedUSD(0.001)
	if ok, _ := e.DiamondHold(tokens(10_000), 18, meta, now); ok {
		t.Error("$40 held must not qualify")
	}
}

func TestDiamondHold_OldTokenUsesFlatFloor(t *testing.T) {
	e := NewEstimator(testConfig())
	now := time.Now()

	// Old token: no trustworthy entry estimate, flat $500 floor applies.
	meta := domain.TokenMetadata{
		CreatedAt:       now.Add(-72 * time.Hour),
		CurrentPriceUSD: domain.ObservedUSD(0.004),
		EntryPriceUSD:   domain.EstimatedUSD(0.001),
	}

	if ok, _ := e.DiamondHold(tokens(100_000), 18, meta, now); ok {
		t.Error("$400 held is below the old-token floor")
	}
	if ok, _ := e.DiamondHold(tokens(150_000), 18, meta, now); !ok {
		t.Error("$600 held must qualify on an old token")
	}
}
