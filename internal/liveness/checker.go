// Package liveness checks whether a verified wallet is still trading.
// Copy-trading a wallet that went quiet months ago copies nothing.
package liveness

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm"
)

// Status labels a wallet's recent activity.
type Status string

const (
	// StatusHunter saw recent outbound token transfers into a DEX router.
	StatusHunter Status = "ACTIVE_HUNTER"
	// StatusActive transacted recently, but no router interaction was seen.
	StatusActive Status = "ACTIVE"
	// StatusSleeping sent nothing inside the check window.
	StatusSleeping Status = "SLEEPING"
)

// Activity is the liveness verdict for one wallet.
type Activity struct {
	Address  common.Address `json:"address"`
	Status   Status         `json:"status"`
	WindowTx int64          `json:"windowTx"`
}

// LogSource fetches logs over a block range.
type LogSource interface {
	Logs(ctx context.Context, address common.Address, topics [][]common.Hash, from, to uint64) ([]types.Log, error)
}

// Checker classifies recent wallet activity from the nonce delta over the
// check window, upgraded to hunter status when token transfers into a
// router appear.
type Checker struct {
	local   evm.Client
	archive evm.Client
	routers map[common.Address]bool
	cfg     config.LivenessConfig
}

// NewChecker creates a Checker.
func NewChecker(local, archive evm.Client, routers []common.Address, cfg config.LivenessConfig) *Checker {
	rs := make(map[common.Address]bool, len(routers))
	for _, r := range routers {
		rs[r] = true
	}
	return &Checker{local: local, archive: archive, routers: rs, cfg: cfg}
}

// Check classifies one wallet. trackedTokens are the tokens whose transfer
// history is inspected for router interaction; transfers of unrelated
// tokens do not make a wallet a hunter.
func (c *Checker) Check(ctx context.Context, source LogSource, wallet common.Address, trackedTokens []common.Address) (Activity, error) {
	head, err := c.local.BlockNumber(ctx)
	if err != nil {
		return Activity{}, fmt.Errorf("head block: %w", err)
	}

	windowBlocks := uint64(c.cfg.CheckDays) * config.BlocksPerDay
	past := uint64(0)
	if head > windowBlocks {
		past = head - windowBlocks
	}

	nonce, err := c.local.NonceAt(ctx, wallet, nil)
	if err != nil {
		return Activity{}, fmt.Errorf("nonce at %s: %w", wallet.Hex(), err)
	}
	pastNonce, err := c.archive.NonceAt(ctx, wallet, new(big.Int).SetUint64(past))
	if err != nil {
		// Without an archive answer the delta is unknown; report the wallet
		// as sleeping rather than guessing it is active.
		return Activity{Address: wallet, Status: StatusSleeping}, nil
	}

	delta := int64(nonce) - int64(pastNonce)
	if delta <= 0 {
		return Activity{Address: wallet, Status: StatusSleeping}, nil
	}

	act := Activity{Address: wallet, Status: StatusActive, WindowTx: delta}

	for _, token := range trackedTokens {
		logs, err := source.Logs(ctx, token,
			[][]common.Hash{{evm.TransferTopic}, {evm.AddressTopic(wallet)}},
			past, head)
		if err != nil {
			continue
		}
		for _, lg := range logs {
			if len(lg.Topics) < 3 {
				continue
			}
			if c.routers[evm.TopicAddress(lg.Topics[2])] {
				act.Status = StatusHunter
				return act, nil
			}
		}
	}

	return act, nil
}
