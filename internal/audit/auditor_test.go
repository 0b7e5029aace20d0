package audit

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm/stub"
)

var wallet = common.HexToAddress("0x0000000000000000000000000000000000000001")

func testConfig() config.AuditConfig {
	return config.AuditConfig{
		MaxNonce:         50000,
		MinNonce:         5,
		MinBalanceWei:    "2000000000000000",
		RecentWindowDays: 7,
		MinWindowTxs:     1,
		MaxWindowTxs:     150,
		ArchivePolicy:    config.ArchiveStrict,
	}
}

// healthyClient is a wallet that passes every check: EOA, nonce 40000,
// funded, 5 transactions in the window.
func healthyClient() *stub.Client {
	return &stub.Client{
		Nonces:   map[common.Address]uint64{wallet: 40000},
		NoncesAt: map[common.Address]map[uint64]uint64{wallet: {9000: 39995}},
		Balances: map[common.Address]*big.Int{wallet: big.NewInt(1e18)},
	}
}

func newAuditor(t *testing.T, c *stub.Client, cfg config.AuditConfig) *Auditor {
	t.Helper()
	a, err := NewAuditor(c, c, cfg)
	if err != nil {
		t.Fatalf("NewAuditor: %v", err)
	}
	return a
}

func TestAudit_HealthyWalletPasses(t *testing.T) {
	a := newAuditor(t, healthyClient(), testConfig())

	res, err := a.Audit(context.Background(), wallet, 9000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Pass {
		t.Fatalf("expected pass, got reason %q", res.Reason)
	}
	if res.CurrentNonce != 40000 {
		t.Errorf("expected nonce 40000, got %d", res.CurrentNonce)
	}
	if res.WindowDelta != 5 {
		t.Errorf("expected window delta 5, got %d", res.WindowDelta)
	}
}

func TestAudit_ContractFailsFirst(t *testing.T) {
	c := healthyClient()
	c.Code = map[common.Address][]byte{wallet: {0x60, 0x80}}
	// Even with a hopeless nonce the contract check must win.
	c.Nonces[wallet] = 0
	a := newAuditor(t, c, testConfig())

	res, err := a.Audit(context.Background(), wallet, 9000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pass || res.Reason != domain.AuditContract {
		t.Errorf("expected %q, got %+v", domain.AuditContract, res)
	}
}

func TestAudit_NonceTooHigh(t *testing.T) {
	c := healthyClient()
	c.Nonces[wallet] = 60000
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditHigh {
		t.Errorf("expected %q, got %+v", domain.AuditHigh, res)
	}
}

func TestAudit_NonceTooLow(t *testing.T) {
	c := healthyClient()
	c.Nonces[wallet] = 2
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditLow {
		t.Errorf("expected %q, got %+v", domain.AuditLow, res)
	}
}

func TestAudit_PoorBalance(t *testing.T) {
	c := healthyClient()
	c.Balances[wallet] = big.NewInt(1e15) // 0.001, below the 0.002 floor
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditPoor {
		t.Errorf("expected %q, got %+v", domain.AuditPoor, res)
	}
}

func TestAudit_InactiveWindow(t *testing.T) {
	c := healthyClient()
	c.NoncesAt[wallet][9000] = 40000 // no transactions since
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditInactive {
		t.Errorf("expected %q, got %+v", domain.AuditInactive, res)
	}
}

func TestAudit_TooFrequent(t *testing.T) {
	c := healthyClient()
	c.NoncesAt[wallet][9000] = 39000 // 1000 transactions in a week
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditFreq {
		t.Errorf("expected %q, got %+v", domain.AuditFreq, res)
	}
}

func TestAudit_ArchiveErrorStrict(t *testing.T) {
	c := healthyClient()
	c.NoncesAt = nil
	c.NonceAtErr = errors.New("missing trie node")
	a := newAuditor(t, c, testConfig())

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if res.Pass || res.Reason != domain.AuditRPC {
		t.Errorf("strict policy must fail on archive errors, got %+v", res)
	}
}

func TestAudit_ArchiveErrorLenient(t *testing.T) {
	c := healthyClient()
	c.NoncesAt = nil
	c.NonceAtErr = errors.New("missing trie node")
	cfg := testConfig()
	cfg.ArchivePolicy = config.ArchiveLenient
	a := newAuditor(t, c, cfg)

	res, _ := a.Audit(context.Background(), wallet, 9000, 10000)
	if !res.Pass {
		t.Errorf("lenient policy must pass on archive errors, got %+v", res)
	}
}

func TestNewAuditor_BadThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.MinBalanceWei = "not-a-number"
	if _, err := NewAuditor(&stub.Client{}, &stub.Client{}, cfg); err == nil {
		t.Error("expected error for malformed balance threshold")
	}
}
