package reporting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"evm-sniper-lab/internal/domain"
)

// RenderCSV renders ranked wallets as CSV, one row per wallet.
func RenderCSV(hits []domain.WalletHit) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"rank", "wallet", "tier", "tokens_hit", "tokens", "pnl_usd", "pnl_quality"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, h := range hits {
		row := []string{
			strconv.Itoa(i + 1),
			h.Address.Hex(),
			h.Tier,
			strconv.Itoa(len(h.Tokens)),
			strings.Join(h.Tokens, "|"),
			h.EstimatedPnL.Value.StringFixed(2),
			string(h.EstimatedPnL.Quality),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
