// Package reporting renders run results to Markdown, CSV and the console.
package reporting

import (
	"time"

	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/liveness"
	"evm-sniper-lab/internal/wealth"
)

// Report is the full output of one pipeline run.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`

	TokensAnalyzed  int `json:"tokensAnalyzed"`
	TokensSkipped   int `json:"tokensSkipped"`
	CandidatesSeen  int `json:"candidatesSeen"`
	WalletsAdmitted int `json:"walletsAdmitted"`
	Blacklisted     int `json:"blacklisted"`

	Hits             []domain.WalletHit      `json:"hits"`
	Verified         []wealth.VerifiedWallet `json:"verified,omitempty"`
	Activity         []liveness.Activity     `json:"activity,omitempty"`
	FailuresByReason map[string]int          `json:"failuresByReason,omitempty"`
	Errors           []string                `json:"errors,omitempty"`
}
