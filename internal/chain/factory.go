package chain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// FactoryOptions configures the client factory.
type FactoryOptions struct {
	// RPCOverrides supplies per-chain endpoint lists that take precedence
	// over the chain's built-in defaults.
	RPCOverrides map[uint64][]string

	RetryAttempts  int
	RetryBackoff   time.Duration
	RequestTimeout time.Duration
}

// RequestOptions tune one ClientFor call.
type RequestOptions struct {
	// RPCURLs overrides both the per-chain option and the chain default.
	RPCURLs []string
	// CacheKey replaces the derived (chainID, URL-set) key.
	CacheKey string
	// SkipCache builds a fresh client that is never stored.
	SkipCache bool
}

// dialFunc exists so tests can stand in for network dialing.
type dialFunc func(ctx context.Context, urls []string, cfg ClientConfig) (*Client, error)

// Factory builds and caches RPC clients keyed by chain and URL set.
type Factory struct {
	opts FactoryOptions
	dial dialFunc

	mu    sync.Mutex
	cache map[string]*Client
}

// NewFactory creates a client factory.
func NewFactory(opts FactoryOptions) *Factory {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 250 * time.Millisecond
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Factory{
		opts:  opts,
		dial:  Dial,
		cache: make(map[string]*Client),
	}
}

// ResolveURLs picks the endpoint list for a chain: the request override
// first, then the per-chain option, then the chain's built-in defaults.
func (f *Factory) ResolveURLs(chainID uint64, req RequestOptions) ([]string, error) {
	if len(req.RPCURLs) > 0 {
		return req.RPCURLs, nil
	}
	if urls, ok := f.opts.RPCOverrides[chainID]; ok && len(urls) > 0 {
		return urls, nil
	}
	descriptor, err := ResolveDescriptor(chainID)
	if err == nil && len(descriptor.DefaultRPCURLs) > 0 {
		return descriptor.DefaultRPCURLs, nil
	}
	return nil, fmt.Errorf("no rpc urls resolve for chain %d", chainID)
}

// ClientFor returns a cached client for (chainID, URL set), dialing a new
// one on a cache miss. Entries are idempotent to recompute; the mutex only
// guards the map itself.
func (f *Factory) ClientFor(ctx context.Context, chainID uint64, req RequestOptions) (*Client, error) {
	urls, err := f.ResolveURLs(chainID, req)
	if err != nil {
		return nil, err
	}

	cfg := ClientConfig{
		RetryAttempts:  f.opts.RetryAttempts,
		RetryBackoff:   f.opts.RetryBackoff,
		RequestTimeout: f.opts.RequestTimeout,
	}

	if req.SkipCache {
		return f.dial(ctx, urls, cfg)
	}

	key := req.CacheKey
	if key == "" {
		key = cacheKey(chainID, urls)
	}

	f.mu.Lock()
	if client, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return client, nil
	}
	f.mu.Unlock()

	client, err := f.dial(ctx, urls, cfg)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.cache[key]; ok {
		client.Close()
		return existing, nil
	}
	f.cache[key] = client
	return client, nil
}

// Clear evicts and closes the named cache entries, or every entry when no
// keys are given.
func (f *Factory) Clear(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(keys) == 0 {
		for key, client := range f.cache {
			client.Close()
			delete(f.cache, key)
		}
		return
	}
	for _, key := range keys {
		if client, ok := f.cache[key]; ok {
			client.Close()
			delete(f.cache, key)
		}
	}
}

// CachedCount reports how many clients are cached.
func (f *Factory) CachedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

func cacheKey(chainID uint64, urls []string) string {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)
	return fmt.Sprintf("%d|%s", chainID, strings.Join(sorted, ","))
}
