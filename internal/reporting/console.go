package reporting

import (
	"fmt"

	"github.com/fatih/color"

	"evm-sniper-lab/internal/domain"
)

var tierColors = map[string]*color.Color{
	domain.TierWhale:   color.New(color.FgHiMagenta, color.Bold),
	domain.TierShark:   color.New(color.FgHiCyan),
	domain.TierDolphin: color.New(color.FgHiGreen),
	domain.TierFish:    color.New(color.FgWhite),
}

// PrintConsole writes a colored ranking table to stdout.
func PrintConsole(r *Report) {
	bold := color.New(color.Bold)

	bold.Println("=== Smart Money Ranking ===")
	fmt.Printf("tokens %d | candidates %d | admitted %d | blacklisted %d\n\n",
		r.TokensAnalyzed, r.CandidatesSeen, r.WalletsAdmitted, r.Blacklisted)

	if len(r.Hits) == 0 {
		fmt.Println("no wallets qualified")
		return
	}

	for i, h := range r.Hits {
		c, ok := tierColors[h.Tier]
		if !ok {
			c = tierColors[domain.TierFish]
		}
		c.Printf("%3d. %-8s %s  hits=%d  pnl=$%.2f (%s)\n",
			i+1, h.Tier, h.Address.Hex(), len(h.Tokens),
			h.EstimatedPnL.Value.InexactFloat64(), h.EstimatedPnL.Quality)
	}
}
