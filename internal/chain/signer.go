package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"contestScope/internal/model"
)

// Signer is the opaque signing handle the embedding application supplies.
// This module never signs anything itself; it only locates the handle.
type Signer interface {
	Address() common.Address
}

// SignerResolver resolves the signer for a participant on one chain.
type SignerResolver func(ctx context.Context, chainID uint64, participant string) (Signer, error)

// SignerLocator memoizes a caller-supplied resolver by (chainID,
// participant) and fails fast when the resolver yields no signer.
type SignerLocator struct {
	resolve SignerResolver

	mu    sync.Mutex
	cache map[string]Signer
}

// NewSignerLocator creates a locator around the given resolver.
func NewSignerLocator(resolve SignerResolver) *SignerLocator {
	return &SignerLocator{
		resolve: resolve,
		cache:   make(map[string]Signer),
	}
}

// Locate returns the memoized signer for (chainID, participant), invoking
// the resolver on first use.
func (l *SignerLocator) Locate(ctx context.Context, chainID uint64, participant string) (Signer, error) {
	if l.resolve == nil {
		return nil, fmt.Errorf("no signer resolver configured")
	}

	key := fmt.Sprintf("%d|%s", chainID, model.NormalizeAddress(participant))

	l.mu.Lock()
	if signer, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return signer, nil
	}
	l.mu.Unlock()

	signer, err := l.resolve(ctx, chainID, participant)
	if err != nil {
		return nil, fmt.Errorf("resolve signer for %s on chain %d: %w", participant, chainID, err)
	}
	if signer == nil {
		return nil, fmt.Errorf("no signer available for %s on chain %d", participant, chainID)
	}

	l.mu.Lock()
	l.cache[key] = signer
	l.mu.Unlock()

	return signer, nil
}

// Clear evicts one memoized entry, or all when participant is empty.
func (l *SignerLocator) Clear(chainID uint64, participant string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if participant == "" {
		l.cache = make(map[string]Signer)
		return
	}
	delete(l.cache, fmt.Sprintf("%d|%s", chainID, model.NormalizeAddress(participant)))
}
