package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CandidateBuyer accumulates the Transfer events received by one address
// within a token's scan window. Received only grows; FirstBlock is the
// minimum block number observed.
type CandidateBuyer struct {
	Address    common.Address
	Received   *big.Int
	FirstBlock uint64
}
