package domain

// Audit rejection reasons, ordered roughly by check cost. Kept short because
// they are aggregated into per-reason failure counts in the run report.
const (
	AuditOK       = "OK"
	AuditContract = "Contract" // address has bytecode
	AuditHigh     = "High"     // lifetime nonce above ceiling (CEX/bot profile)
	AuditLow      = "Low"      // lifetime nonce below floor (burner profile)
	AuditPoor     = "Poor"     // native balance below dust threshold
	AuditInactive = "Inactive" // no transactions in the trailing window
	AuditFreq     = "Freq"     // bot-like cadence in the trailing window
	AuditRPC      = "RPC"      // archive query failed under strict policy
)

// AuditResult is the verdict of the wallet auditor for one address.
// Computed fresh per wallet per run.
type AuditResult struct {
	Pass   bool
	Reason string

	// Nonce observations backing the verdict, zero when the corresponding
	// check never ran.
	CurrentNonce uint64
	WindowDelta  int64
}
