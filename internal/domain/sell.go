package domain

import "math/big"

// SellVerdict classifies how a wallet exited (or did not exit) a position.
type SellVerdict string

const (
	// SellLegit means every tracked outbound transfer routed through a
	// recognized DEX router.
	SellLegit SellVerdict = "LEGIT_SELL"
	// SellNone means the wallet still holds its buy (diamond hand) or made
	// no tracked outbound transfers.
	SellNone SellVerdict = "NO_SELL"
	// SellSuspicious means tokens moved to an unrecognized contract. This is
	// a one-strike, global, irrevocable veto for the wallet.
	SellSuspicious SellVerdict = "SUSPICIOUS"
)

// SellReport is the outcome of the sell/retention classifier for one
// wallet×token pair.
type SellReport struct {
	Verdict        SellVerdict
	TotalSold      *big.Int
	CurrentBalance *big.Int
	LastSellBlock  uint64
}
