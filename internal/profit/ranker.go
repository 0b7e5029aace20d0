package profit

import (
	"sort"

	"evm-sniper-lab/internal/domain"
)

// Rank orders hits by breadth first: a wallet that independently picked
// several winners outranks one large position. Estimated PnL breaks ties,
// address order makes the result deterministic. Wallets below minHits are
// dropped. Tiers are assigned here so callers always see them filled.
func Rank(hits []domain.WalletHit, minHits int) []domain.WalletHit {
	out := make([]domain.WalletHit, 0, len(hits))
	for _, h := range hits {
		if len(h.Tokens) < minHits {
			continue
		}
		h.Tier = domain.TierFor(h.EstimatedPnL.Value.InexactFloat64())
		out = append(out, h)
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Tokens) != len(out[j].Tokens) {
			return len(out[i].Tokens) > len(out[j].Tokens)
		}
		cmp := out[i].EstimatedPnL.Value.Cmp(out[j].EstimatedPnL.Value)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Address.Hex() < out[j].Address.Hex()
	})

	return out
}
