package stub

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/evm"
)

// Client is an in-memory evm.Client for tests. Zero value is usable; fields
// are plain maps so scenarios read as data.
type Client struct {
	mu sync.Mutex

	// Head is the latest block number.
	Head uint64

	// BlockTimes maps block number to unix timestamp.
	BlockTimes map[uint64]uint64

	// Code maps address to deployed bytecode. Absent means EOA.
	Code map[common.Address][]byte

	// Nonces maps address to latest nonce.
	Nonces map[common.Address]uint64

	// NoncesAt maps address to per-block historical nonces. Missing entries
	// fall back to NonceAtErr or the latest nonce.
	NoncesAt map[common.Address]map[uint64]uint64

	// NonceAtErr is returned for historical nonce lookups with no NoncesAt
	// entry, simulating a non-archive node.
	NonceAtErr error

	// Balances maps address to native balance in wei.
	Balances map[common.Address]*big.Int

	// TokenBalances maps token then holder to ERC-20 balance.
	TokenBalances map[common.Address]map[common.Address]*big.Int

	// Logs is the full log set; FilterLogs selects by range, address and
	// topics.
	Logs []types.Log

	// FilterLogsFn overrides FilterLogs entirely when set, for range-error
	// injection.
	FilterLogsFn func(q ethereum.FilterQuery) ([]types.Log, error)

	// Call counters.
	FilterLogsCalls int
	NonceAtCalls    int
	CodeAtCalls     int
	BalanceAtCalls  int
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Head, nil
}

func (c *Client) BlockTime(ctx context.Context, number uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.BlockTimes[number]
	if !ok {
		return 0, fmt.Errorf("block %d not found", number)
	}
	return ts, nil
}

func (c *Client) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CodeAtCalls++
	return c.Code[addr], nil
}

func (c *Client) NonceAt(ctx context.Context, addr common.Address, block *big.Int) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NonceAtCalls++
	if block == nil {
		return c.Nonces[addr], nil
	}
	if hist, ok := c.NoncesAt[addr]; ok {
		if n, ok := hist[block.Uint64()]; ok {
			return n, nil
		}
	}
	if c.NonceAtErr != nil {
		return 0, c.NonceAtErr
	}
	return c.Nonces[addr], nil
}

func (c *Client) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BalanceAtCalls++
	if bal, ok := c.Balances[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	c.FilterLogsCalls++
	fn := c.FilterLogsFn
	c.mu.Unlock()

	if fn != nil {
		return fn(q)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []types.Log
	for _, lg := range c.Logs {
		if q.FromBlock != nil && lg.BlockNumber < q.FromBlock.Uint64() {
			continue
		}
		if q.ToBlock != nil && lg.BlockNumber > q.ToBlock.Uint64() {
			continue
		}
		if len(q.Addresses) > 0 && !containsAddress(q.Addresses, lg.Address) {
			continue
		}
		if !matchTopics(q.Topics, lg.Topics) {
			continue
		}
		out = append(out, lg)
	}
	return out, nil
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Only balanceOf(address) calls are simulated.
	if msg.To == nil || len(msg.Data) != 36 {
		return nil, fmt.Errorf("unexpected call")
	}
	holder := common.BytesToAddress(msg.Data[4:36])
	if holders, ok := c.TokenBalances[*msg.To]; ok {
		if bal, ok := holders[holder]; ok {
			return common.LeftPadBytes(bal.Bytes(), 32), nil
		}
	}
	return common.LeftPadBytes(nil, 32), nil
}

func containsAddress(addrs []common.Address, a common.Address) bool {
	for _, x := range addrs {
		if x == a {
			return true
		}
	}
	return false
}

// matchTopics applies the standard filter semantics: position i must match
// one of want[i], an empty slot matches anything.
func matchTopics(want [][]common.Hash, have []common.Hash) bool {
	for i, alts := range want {
		if len(alts) == 0 {
			continue
		}
		if i >= len(have) {
			return false
		}
		found := false
		for _, alt := range alts {
			if alt == have[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Verify interface compliance at compile time.
var _ evm.Client = (*Client)(nil)
