package wealth

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/evm/stub"
)

var (
	wethAddr = common.HexToAddress("0x4200000000000000000000000000000000000006")
	usdcAddr = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	memeAddr = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	rich     = common.HexToAddress("0x0000000000000000000000000000000000000011")
	poor     = common.HexToAddress("0x0000000000000000000000000000000000000012")
)

type stubPrices map[common.Address]float64

func (s stubPrices) Price(ctx context.Context, token common.Address) (float64, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return 0, errors.New("no pool")
}

func testConfig() config.WealthConfig {
	return config.WealthConfig{
		MinNetWorthUSD: 1000,
		Tokens: []config.TrackedToken{
			{Symbol: "WETH", Address: wethAddr.Hex(), Decimals: 18, FallbackPrice: 3200},
			{Symbol: "USDC", Address: usdcAddr.Hex(), Decimals: 6, FallbackPrice: 1},
			{Symbol: "MEME", Address: memeAddr.Hex(), Decimals: 18, FallbackPrice: 0},
		},
	}
}

func units(n int64, decimals int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil))
}

func TestVerify_NativeBalancePricedAtWETH(t *testing.T) {
	client := &stub.Client{
		Balances: map[common.Address]*big.Int{rich: units(2, 18)},
	}
	v := NewVerifier(client, stubPrices{wethAddr: 3000}, testConfig())

	out, err := v.Verify(context.Background(), []common.Address{rich})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 verified wallet, got %d", len(out))
	}
	if got := out[0].Holdings["ETH"]; math.Abs(got-6000) > 0.01 {
		t.Errorf("expected $6000 of ETH, got %f", got)
	}
	if math.Abs(out[0].NetWorthUSD-6000) > 0.01 {
		t.Errorf("expected $6000 net worth, got %f", out[0].NetWorthUSD)
	}
}

func TestVerify_FallbackPriceWhenAPIFails(t *testing.T) {
	client := &stub.Client{
		TokenBalances: map[common.Address]map[common.Address]*big.Int{
			wethAddr: {rich: units(1, 18)},
		},
	}
	// nil price source: only the configured fallbacks are available.
	v := NewVerifier(client, nil, testConfig())

	out, err := v.Verify(context.Background(), []common.Address{rich})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 verified wallet, got %d", len(out))
	}
	if got := out[0].Holdings["WETH"]; math.Abs(got-3200) > 0.01 {
		t.Errorf("expected fallback-priced $3200, got %f", got)
	}
}

func TestVerify_StablecoinDecimals(t *testing.T) {
	client := &stub.Client{
		TokenBalances: map[common.Address]map[common.Address]*big.Int{
			usdcAddr: {rich: units(5000, 6)},
		},
	}
	v := NewVerifier(client, nil, testConfig())

	out, err := v.Verify(context.Background(), []common.Address{rich})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 verified wallet, got %d", len(out))
	}
	if got := out[0].Holdings["USDC"]; math.Abs(got-5000) > 0.01 {
		t.Errorf("expected $5000 of USDC, got %f", got)
	}
}

func TestVerify_UnpriceableTokenDropped(t *testing.T) {
	// A huge MEME position with no price anywhere must not count.
	client := &stub.Client{
		TokenBalances: map[common.Address]map[common.Address]*big.Int{
			memeAddr: {rich: units(1_000_000_000, 18)},
		},
	}
	v := NewVerifier(client, nil, testConfig())

	out, err := v.Verify(context.Background(), []common.Address{rich})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("unpriceable holdings must not pass the floor, got %v", out)
	}
}

func TestVerify_FloorAndOrder(t *testing.T) {
	client := &stub.Client{
		Balances: map[common.Address]*big.Int{
			rich: units(1, 18),                // $3200 at fallback
			poor: big.NewInt(100_000_000_000), // dust
		},
	}
	v := NewVerifier(client, nil, testConfig())

	out, err := v.Verify(context.Background(), []common.Address{poor, rich})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected only the rich wallet, got %d", len(out))
	}
	if out[0].Address != rich {
		t.Errorf("expected %s, got %s", rich.Hex(), out[0].Address.Hex())
	}
}
