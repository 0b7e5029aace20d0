package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Node implements Client over an ethclient connection, wrapping every call
// in the retry policy. Permanent failures (range limits) pass through
// unretried for the caller to subdivide.
type Node struct {
	eth     *ethclient.Client
	retry   RetryPolicy
	timeout time.Duration
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p RetryPolicy) NodeOption {
	return func(n *Node) {
		n.retry = p
	}
}

// WithCallTimeout bounds each individual RPC call.
func WithCallTimeout(d time.Duration) NodeOption {
	return func(n *Node) {
		n.timeout = d
	}
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, url string, opts ...NodeOption) (*Node, error) {
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	n := &Node{
		eth:     eth,
		retry:   DefaultRetryPolicy(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Close releases the underlying connection.
func (n *Node) Close() {
	n.eth.Close()
}

// do runs one retry-wrapped call with a per-call timeout.
func (n *Node) do(ctx context.Context, fn func(context.Context) error) error {
	return n.retry.Do(ctx, func() error {
		callCtx := ctx
		if n.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, n.timeout)
			defer cancel()
		}
		return fn(callCtx)
	})
}

func (n *Node) BlockNumber(ctx context.Context) (uint64, error) {
	var num uint64
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		num, err = n.eth.BlockNumber(ctx)
		return err
	})
	return num, err
}

func (n *Node) BlockTime(ctx context.Context, number uint64) (uint64, error) {
	var ts uint64
	err := n.do(ctx, func(ctx context.Context) error {
		header, err := n.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
		if err != nil {
			return err
		}
		ts = header.Time
		return nil
	})
	return ts, err
}

func (n *Node) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	var code []byte
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		code, err = n.eth.CodeAt(ctx, addr, nil)
		return err
	})
	return code, err
}

func (n *Node) NonceAt(ctx context.Context, addr common.Address, block *big.Int) (uint64, error) {
	var nonce uint64
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		nonce, err = n.eth.NonceAt(ctx, addr, block)
		return err
	})
	return nonce, err
}

func (n *Node) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	var bal *big.Int
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		bal, err = n.eth.BalanceAt(ctx, addr, nil)
		return err
	})
	return bal, err
}

func (n *Node) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		logs, err = n.eth.FilterLogs(ctx, q)
		return err
	})
	return logs, err
}

func (n *Node) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var out []byte
	err := n.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = n.eth.CallContract(ctx, msg, nil)
		return err
	})
	return out, err
}

// Verify interface compliance at compile time.
var _ Client = (*Node)(nil)
