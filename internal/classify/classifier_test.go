package classify

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/evm/stub"
	"evm-sniper-lab/internal/scan"
)

var (
	token   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	router  = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	unknown = common.HexToAddress("0x00000000000000000000000000000000000000dd")
	wallet  = common.HexToAddress("0x0000000000000000000000000000000000000001")
	friend  = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func testConfig() config.ClassifyConfig {
	return config.ClassifyConfig{NoSellRetentionPct: 90}
}

func outbound(block uint64, to common.Address, amount int64) types.Log {
	return types.Log{
		Address:     token,
		BlockNumber: block,
		Topics: []common.Hash{
			evm.TransferTopic,
			evm.AddressTopic(wallet),
			evm.AddressTopic(to),
		},
		Data: common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
	}
}

func newTestClassifier(c *stub.Client) *Classifier {
	scanner := scan.NewScanner(c, scan.WithChunkDelay(0))
	return NewClassifier(c, scanner, []common.Address{router}, testConfig())
}

func setBalance(c *stub.Client, amount int64) {
	c.TokenBalances = map[common.Address]map[common.Address]*big.Int{
		token: {wallet: big.NewInt(amount)},
	}
}

func TestClassify_HolderShortCircuits(t *testing.T) {
	c := &stub.Client{}
	setBalance(c, 95) // 95% of the buy still held

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellNone {
		t.Errorf("expected %q, got %q", domain.SellNone, report.Verdict)
	}
	if c.FilterLogsCalls != 0 {
		t.Errorf("holder must not trigger a log scan, got %d calls", c.FilterLogsCalls)
	}
}

func TestClassify_RouterSellIsLegit(t *testing.T) {
	c := &stub.Client{
		Logs: []types.Log{
			outbound(1500, router, 80),
		},
	}
	setBalance(c, 20)

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellLegit {
		t.Errorf("expected %q, got %q", domain.SellLegit, report.Verdict)
	}
	if report.TotalSold.Int64() != 80 {
		t.Errorf("expected sold 80, got %s", report.TotalSold)
	}
	if report.LastSellBlock != 1500 {
		t.Errorf("expected last sell at 1500, got %d", report.LastSellBlock)
	}
}

func TestClassify_UnknownContractVetoesDespiteRouterSells(t *testing.T) {
	c := &stub.Client{
		Logs: []types.Log{
			outbound(1500, router, 50),
			outbound(1600, unknown, 30),
		},
		Code: map[common.Address][]byte{unknown: {0x60, 0x80}},
	}
	setBalance(c, 0)

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellSuspicious {
		t.Errorf("one unknown-contract transfer must veto, got %q", report.Verdict)
	}
}

func TestClassify_VetoChecksBlockOrder(t *testing.T) {
	// The suspicious transfer happened first; logs arrive out of order.
	c := &stub.Client{
		Logs: []types.Log{
			outbound(1600, router, 50),
			outbound(1200, unknown, 30),
		},
		Code: map[common.Address][]byte{unknown: {0x60}},
	}
	setBalance(c, 0)

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellSuspicious {
		t.Errorf("expected veto from earlier block, got %q", report.Verdict)
	}
	if report.TotalSold.Sign() != 0 {
		t.Errorf("no router sell precedes the veto, yet sold %s", report.TotalSold)
	}
}

func TestClassify_WalletToWalletIgnored(t *testing.T) {
	c := &stub.Client{
		Logs: []types.Log{
			outbound(1500, friend, 40), // plain EOA, no code
		},
	}
	setBalance(c, 60)

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellNone {
		t.Errorf("EOA transfer is not a sell, got %q", report.Verdict)
	}
}

func TestClassify_BurnIgnored(t *testing.T) {
	c := &stub.Client{
		Logs: []types.Log{
			outbound(1500, token, 40), // back to the token contract
		},
	}
	setBalance(c, 0)

	cl := newTestClassifier(c)
	report, err := cl.Classify(context.Background(), wallet, token, 1000, 2000, big.NewInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != domain.SellNone {
		t.Errorf("transfer to the token contract must not veto, got %q", report.Verdict)
	}
}
