package domain

import "time"

// TokenMetadata is the market-data view of a token used for profit estimation.
// EntryPriceUSD is back-solved from the 24h price change, not observed on
// chain, so it always carries PriceEstimated quality.
type TokenMetadata struct {
	CreatedAt       time.Time
	CurrentPriceUSD USDPrice
	EntryPriceUSD   USDPrice
	FDV             float64
}

// AgeAt returns the token age at the given instant.
func (m TokenMetadata) AgeAt(now time.Time) time.Duration {
	return now.Sub(m.CreatedAt)
}

// GrowthMultiple returns current price divided by the estimated entry price,
// or zero when the entry estimate is unusable.
func (m TokenMetadata) GrowthMultiple() float64 {
	entry := m.EntryPriceUSD.Value.InexactFloat64()
	if entry <= 0 {
		return 0
	}
	return m.CurrentPriceUSD.Value.InexactFloat64() / entry
}
