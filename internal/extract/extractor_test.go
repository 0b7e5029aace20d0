package extract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"evm-sniper-lab/internal/evm"
	"evm-sniper-lab/internal/evm/stub"
	"evm-sniper-lab/internal/scan"
)

var (
	token  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	pool   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	router = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	w1     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	w2     = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func transfer(block uint64, from, to common.Address, amount int64) types.Log {
	return types.Log{
		Address:     token,
		BlockNumber: block,
		Topics: []common.Hash{
			evm.TransferTopic,
			evm.AddressTopic(from),
			evm.AddressTopic(to),
		},
		Data: common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
	}
}

func newTestExtractor(logs []types.Log) *Extractor {
	client := &stub.Client{Logs: logs}
	scanner := scan.NewScanner(client, scan.WithChunkDelay(0))
	return NewExtractor(scanner, []common.Address{pool, router})
}

func TestBuyers_SkipsSniperBlocks(t *testing.T) {
	// Pool seeded at block 1000; W1 fills at 1004, inside the skip span.
	// W2 buys at 1010 and is the only legitimate early buyer.
	e := newTestExtractor([]types.Log{
		transfer(1000, common.Address{}, pool, 1_000_000),
		transfer(1004, pool, w1, 100),
		transfer(1010, pool, w2, 50),
	})

	buyers, err := e.Buyers(context.Background(), token, 1000, 7200, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(buyers) != 1 {
		t.Fatalf("expected 1 buyer, got %d", len(buyers))
	}
	b, ok := buyers[w2]
	if !ok {
		t.Fatal("expected W2 to be extracted")
	}
	if b.Received.Int64() != 50 {
		t.Errorf("expected received 50, got %s", b.Received)
	}
	if b.FirstBlock != 1010 {
		t.Errorf("expected first block 1010, got %d", b.FirstBlock)
	}
}

func TestBuyers_WindowAnchorsOnFirstActivity(t *testing.T) {
	// Pool creation resolved to block 1000 but the token sat idle until
	// 3000. The skip applies from 3000, not 1000.
	e := newTestExtractor([]types.Log{
		transfer(3000, common.Address{}, pool, 1_000_000),
		transfer(3003, pool, w1, 10), // inside skip relative to 3000
		transfer(3010, pool, w2, 20),
	})

	buyers, err := e.Buyers(context.Background(), token, 1000, 7200, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := buyers[w1]; ok {
		t.Error("W1 bought inside the sniper skip and must be excluded")
	}
	if _, ok := buyers[w2]; !ok {
		t.Error("expected W2 to be extracted")
	}
}

func TestBuyers_ExcludesInfrastructureRecipients(t *testing.T) {
	e := newTestExtractor([]types.Log{
		transfer(1000, common.Address{}, pool, 1_000_000),
		transfer(1010, pool, router, 500),        // router refill
		transfer(1011, w1, common.Address{}, 10), // burn
		transfer(1012, pool, token, 30),          // fee to token contract
		transfer(1013, pool, w2, 40),
	})

	buyers, err := e.Buyers(context.Background(), token, 1000, 7200, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buyers) != 1 {
		t.Fatalf("expected only W2, got %d buyers", len(buyers))
	}
	if _, ok := buyers[w2]; !ok {
		t.Error("expected W2 to be extracted")
	}
}

func TestBuyers_AggregatesRepeatBuys(t *testing.T) {
	e := newTestExtractor([]types.Log{
		transfer(1000, common.Address{}, pool, 1_000_000),
		transfer(1010, pool, w1, 30),
		transfer(1020, pool, w1, 70),
	})

	buyers, err := e.Buyers(context.Background(), token, 1000, 7200, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := buyers[w1]
	if b.Received.Int64() != 100 {
		t.Errorf("expected aggregated 100, got %s", b.Received)
	}
	if b.FirstBlock != 1010 {
		t.Errorf("expected first block 1010, got %d", b.FirstBlock)
	}
}

func TestBuyers_NoActivity(t *testing.T) {
	e := newTestExtractor(nil)

	buyers, err := e.Buyers(context.Background(), token, 1000, 7200, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buyers) != 0 {
		t.Errorf("expected no buyers, got %d", len(buyers))
	}
}

func TestBuyersInRange_NoSniperSkip(t *testing.T) {
	e := newTestExtractor([]types.Log{
		transfer(5000, pool, w1, 10),
		transfer(5001, pool, w2, 20),
	})

	buyers, err := e.BuyersInRange(context.Background(), token, 5000, 6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buyers) != 2 {
		t.Errorf("expected both wallets in swing mode, got %d", len(buyers))
	}
}

func TestSortedAddresses_Deterministic(t *testing.T) {
	e := newTestExtractor([]types.Log{
		transfer(5000, pool, w2, 20),
		transfer(5001, pool, w1, 10),
	})
	buyers, err := e.BuyersInRange(context.Background(), token, 5000, 6000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	addrs := SortedAddresses(buyers)
	if len(addrs) != 2 || addrs[0] != w1 || addrs[1] != w2 {
		t.Errorf("expected [w1 w2], got %v", addrs)
	}
}
