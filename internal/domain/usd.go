package domain

import "github.com/shopspring/decimal"

// PriceQuality tags whether a USD figure was observed from a market-data feed
// or back-solved from heuristics. Consumers must not treat estimated values as
// ground truth.
type PriceQuality string

const (
	PriceObserved  PriceQuality = "OBSERVED"
	PriceEstimated PriceQuality = "ESTIMATED"
)

// USDPrice is a per-unit USD price with provenance.
type USDPrice struct {
	Value   decimal.Decimal `json:"value"`
	Quality PriceQuality    `json:"quality"`
}

// ObservedUSD builds a feed-observed price.
func ObservedUSD(v float64) USDPrice {
	return USDPrice{Value: decimal.NewFromFloat(v), Quality: PriceObserved}
}

// EstimatedUSD builds a heuristic price.
func EstimatedUSD(v float64) USDPrice {
	return USDPrice{Value: decimal.NewFromFloat(v), Quality: PriceEstimated}
}

// USDAmount is a USD sum with provenance. Adding any estimated component
// makes the whole amount estimated.
type USDAmount struct {
	Value   decimal.Decimal `json:"value"`
	Quality PriceQuality    `json:"quality"`
}

// Add returns the sum of two amounts with merged quality.
func (a USDAmount) Add(b USDAmount) USDAmount {
	q := PriceObserved
	if a.Quality == PriceEstimated || b.Quality == PriceEstimated {
		q = PriceEstimated
	}
	return USDAmount{Value: a.Value.Add(b.Value), Quality: q}
}
