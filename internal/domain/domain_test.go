package domain

import (
	"testing"
	"time"
)

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		pnl  float64
		want string
	}{
		{75_000, TierWhale},
		{50_000, TierWhale},
		{49_999, TierShark},
		{10_000, TierShark},
		{9_999, TierDolphin},
		{2_000, TierDolphin},
		{1_999, TierFish},
		{0, TierFish},
	}
	for _, tc := range cases {
		if got := TierFor(tc.pnl); got != tc.want {
			t.Errorf("TierFor(%.0f) = %s, want %s", tc.pnl, got, tc.want)
		}
	}
}

func TestUSDAmount_AddMergesQuality(t *testing.T) {
	observed := USDAmount{Value: ObservedUSD(100).Value, Quality: PriceObserved}
	estimated := USDAmount{Value: EstimatedUSD(50).Value, Quality: PriceEstimated}

	sum := observed.Add(estimated)
	if sum.Value.InexactFloat64() != 150 {
		t.Errorf("expected 150, got %s", sum.Value)
	}
	if sum.Quality != PriceEstimated {
		t.Error("any estimated component must taint the sum")
	}

	clean := observed.Add(observed)
	if clean.Quality != PriceObserved {
		t.Error("observed plus observed must stay observed")
	}
}

func TestTokenMetadata_GrowthMultiple(t *testing.T) {
	m := TokenMetadata{
		CurrentPriceUSD: ObservedUSD(0.004),
		EntryPriceUSD:   EstimatedUSD(0.001),
	}
	if got := m.GrowthMultiple(); got < 3.99 || got > 4.01 {
		t.Errorf("expected 4x, got %f", got)
	}

	m.EntryPriceUSD = EstimatedUSD(0)
	if m.GrowthMultiple() != 0 {
		t.Error("zero entry estimate must yield zero multiple")
	}
}

func TestTokenMetadata_AgeAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := TokenMetadata{CreatedAt: created}

	age := m.AgeAt(created.Add(36 * time.Hour))
	if age.Hours() != 36 {
		t.Errorf("expected 36h, got %v", age)
	}
}
