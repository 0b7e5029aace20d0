// Package audit decides whether a candidate wallet looks like a live human
// trader. Checks are ordered cheapest first and the first failure wins.
package audit

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm"
)

// Auditor runs the human-trader checks. Current-state reads go to the local
// endpoint; the historical nonce read needs the archive endpoint.
type Auditor struct {
	local   evm.Client
	archive evm.Client
	cfg     config.AuditConfig

	minBalance *big.Int
}

// NewAuditor creates an Auditor. The minimum balance threshold is parsed
// once; a malformed value is a configuration error.
func NewAuditor(local, archive evm.Client, cfg config.AuditConfig) (*Auditor, error) {
	minBal, ok := new(big.Int).SetString(cfg.MinBalanceWei, 10)
	if !ok {
		return nil, fmt.Errorf("invalid minBalanceWei %q", cfg.MinBalanceWei)
	}
	return &Auditor{
		local:      local,
		archive:    archive,
		cfg:        cfg,
		minBalance: minBal,
	}, nil
}

// Audit classifies one wallet. pastBlock is the historical point for the
// activity-window delta (currentBlock minus the configured window).
//
// Check order, first failure wins:
//
//	contract code    -> Contract
//	nonce too high   -> High (exchange hot wallet or bot)
//	nonce too low    -> Low (throwaway)
//	balance too low  -> Poor (cannot fund further trades)
//	window delta     -> Inactive / Freq, or RPC under the strict policy
func (a *Auditor) Audit(ctx context.Context, wallet common.Address, pastBlock, currentBlock uint64) (domain.AuditResult, error) {
	code, err := a.local.CodeAt(ctx, wallet)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("code at %s: %w", wallet.Hex(), err)
	}
	if len(code) > 0 {
		return fail(domain.AuditContract, 0, 0), nil
	}

	nonce, err := a.local.NonceAt(ctx, wallet, nil)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("nonce at %s: %w", wallet.Hex(), err)
	}
	if nonce > a.cfg.MaxNonce {
		return fail(domain.AuditHigh, nonce, 0), nil
	}
	if nonce < a.cfg.MinNonce {
		return fail(domain.AuditLow, nonce, 0), nil
	}

	balance, err := a.local.BalanceAt(ctx, wallet)
	if err != nil {
		return domain.AuditResult{}, fmt.Errorf("balance at %s: %w", wallet.Hex(), err)
	}
	if balance.Cmp(a.minBalance) < 0 {
		return fail(domain.AuditPoor, nonce, 0), nil
	}

	pastNonce, err := a.archive.NonceAt(ctx, wallet, new(big.Int).SetUint64(pastBlock))
	if err != nil {
		if a.cfg.ArchivePolicy == config.ArchiveLenient {
			return domain.AuditResult{Pass: true, Reason: domain.AuditOK, CurrentNonce: nonce}, nil
		}
		return fail(domain.AuditRPC, nonce, 0), nil
	}

	delta := int64(nonce) - int64(pastNonce)
	if delta < a.cfg.MinWindowTxs {
		return fail(domain.AuditInactive, nonce, delta), nil
	}
	if delta > a.cfg.MaxWindowTxs {
		return fail(domain.AuditFreq, nonce, delta), nil
	}

	return domain.AuditResult{
		Pass:         true,
		Reason:       domain.AuditOK,
		CurrentNonce: nonce,
		WindowDelta:  delta,
	}, nil
}

func fail(reason string, nonce uint64, delta int64) domain.AuditResult {
	return domain.AuditResult{Reason: reason, CurrentNonce: nonce, WindowDelta: delta}
}
