package chain

import (
	"context"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type stubSigner struct {
	addr common.Address
}

func (s stubSigner) Address() common.Address { return s.addr }

func TestSignerLocatorMemoizes(t *testing.T) {
	calls := 0
	locator := NewSignerLocator(func(_ context.Context, chainID uint64, participant string) (Signer, error) {
		calls++
		return stubSigner{addr: common.HexToAddress(participant)}, nil
	})

	for i := 0; i < 3; i++ {
		signer, err := locator.Locate(context.Background(), 1, "0xAAA0000000000000000000000000000000000001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if signer == nil {
			t.Fatalf("signer should not be nil")
		}
	}
	if calls != 1 {
		t.Fatalf("resolver should run once per (chain, participant), ran %d", calls)
	}

	// different case, same participant: same cache entry
	if _, err := locator.Locate(context.Background(), 1, "0xaaa0000000000000000000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("address case must not split the cache, ran %d", calls)
	}

	// different chain: new entry
	if _, err := locator.Locate(context.Background(), 56, "0xaaa0000000000000000000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("chain id must key the cache, ran %d", calls)
	}
}

func TestSignerLocatorFailsFast(t *testing.T) {
	locator := NewSignerLocator(func(context.Context, uint64, string) (Signer, error) {
		return nil, nil
	})
	if _, err := locator.Locate(context.Background(), 1, "0xabc"); err == nil {
		t.Fatalf("nil signer must be an error")
	}

	locator = NewSignerLocator(func(context.Context, uint64, string) (Signer, error) {
		return nil, fmt.Errorf("keystore locked")
	})
	if _, err := locator.Locate(context.Background(), 1, "0xabc"); err == nil {
		t.Fatalf("resolver error must propagate")
	}

	locator = NewSignerLocator(nil)
	if _, err := locator.Locate(context.Background(), 1, "0xabc"); err == nil {
		t.Fatalf("missing resolver must be an error")
	}
}

func TestSignerLocatorClear(t *testing.T) {
	calls := 0
	locator := NewSignerLocator(func(_ context.Context, _ uint64, participant string) (Signer, error) {
		calls++
		return stubSigner{addr: common.HexToAddress(participant)}, nil
	})

	if _, err := locator.Locate(context.Background(), 1, "0xabc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	locator.Clear(1, "0xabc")
	if _, err := locator.Locate(context.Background(), 1, "0xabc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("cleared entry should re-resolve, ran %d", calls)
	}
}
