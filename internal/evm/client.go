// Package evm provides retrying, rate-aware read access to an EVM chain over
// JSON-RPC. Two logical endpoints are used throughout the pipeline: a cheap
// local node for current-state reads and a metered archive node for
// historical reads.
package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Client defines the read-only chain operations the pipeline needs.
type Client interface {
	// BlockNumber returns the latest block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// BlockTime returns the unix timestamp of the given block.
	BlockTime(ctx context.Context, number uint64) (uint64, error)

	// CodeAt returns the bytecode at an address, empty for EOAs.
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)

	// NonceAt returns the transaction count of an address. A nil block means
	// latest; a historical block requires archive capability.
	NonceAt(ctx context.Context, addr common.Address, block *big.Int) (uint64, error)

	// BalanceAt returns the latest native-currency balance of an address.
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)

	// FilterLogs executes a log filter query.
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	// CallContract executes a read-only contract call at the latest block.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Endpoints bundles the two logical endpoints. Local is assumed cheap, fast
// and unmetered; Remote is assumed archive-capable and rate-limited.
type Endpoints struct {
	Local  Client
	Remote Client
}
