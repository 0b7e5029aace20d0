package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Smart Money Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens Analyzed | %d |\n", r.TokensAnalyzed))
	sb.WriteString(fmt.Sprintf("| Tokens Skipped | %d |\n", r.TokensSkipped))
	sb.WriteString(fmt.Sprintf("| Candidate Buyers | %d |\n", r.CandidatesSeen))
	sb.WriteString(fmt.Sprintf("| Wallets Admitted | %d |\n", r.WalletsAdmitted))
	sb.WriteString(fmt.Sprintf("| Newly Blacklisted | %d |\n", r.Blacklisted))
	sb.WriteString("\n")

	// Rejection breakdown
	if len(r.FailuresByReason) > 0 {
		sb.WriteString("## Rejections\n\n")
		sb.WriteString("| Reason | Wallets |\n")
		sb.WriteString("|--------|--------|\n")
		reasons := make([]string, 0, len(r.FailuresByReason))
		for reason := range r.FailuresByReason {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", reason, r.FailuresByReason[reason]))
		}
		sb.WriteString("\n")
	}

	// Ranked wallets
	sb.WriteString("## Ranked Wallets\n\n")
	if len(r.Hits) > 0 {
		sb.WriteString("| # | Wallet | Tier | Tokens Hit | Est. PnL (USD) | Quality |\n")
		sb.WriteString("|---|--------|------|------------|----------------|--------|\n")
		for i, h := range r.Hits {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d (%s) | %.2f | %s |\n",
				i+1, h.Address.Hex(), h.Tier,
				len(h.Tokens), strings.Join(h.Tokens, ", "),
				h.EstimatedPnL.Value.InexactFloat64(), h.EstimatedPnL.Quality))
		}
	} else {
		sb.WriteString("No wallets qualified.\n")
	}
	sb.WriteString("\n")

	// Wealth verification
	if len(r.Verified) > 0 {
		sb.WriteString("## Verified Net Worth\n\n")
		sb.WriteString("| Wallet | Net Worth (USD) |\n")
		sb.WriteString("|--------|----------------|\n")
		for _, v := range r.Verified {
			sb.WriteString(fmt.Sprintf("| %s | %.2f |\n", v.Address.Hex(), v.NetWorthUSD))
		}
		sb.WriteString("\n")
	}

	// Liveness
	if len(r.Activity) > 0 {
		sb.WriteString("## Activity\n\n")
		sb.WriteString("| Wallet | Status | Window Tx |\n")
		sb.WriteString("|--------|--------|-----------|\n")
		for _, a := range r.Activity {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", a.Address.Hex(), a.Status, a.WindowTx))
		}
		sb.WriteString("\n")
	}

	// Errors
	if len(r.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
