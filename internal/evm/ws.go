package evm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Subscriber defines the live log subscription interface.
type Subscriber interface {
	// SubscribeLogs subscribes to logs matching the filter.
	SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan types.Log, error)

	// Close closes the WebSocket connection.
	Close() error
}

// LogsFilter defines the eth_subscribe "logs" filter.
type LogsFilter struct {
	Address common.Address
	Topics  []common.Hash
}
