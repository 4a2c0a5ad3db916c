package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// endpoint is one dialed RPC URL.
type endpoint struct {
	url       string
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// ClientConfig tunes per-endpoint retries and timeouts.
type ClientConfig struct {
	RetryAttempts  int
	RetryBackoff   time.Duration
	RequestTimeout time.Duration
}

// Client wraps one or more go-ethereum RPC connections. Calls try endpoints
// in order, retrying each with exponential backoff, and fall through to the
// next URL on failure.
type Client struct {
	endpoints []endpoint
	cfg       ClientConfig

	mu      sync.RWMutex
	tsCache map[uint64]uint64
}

// Dial connects to the given RPC URLs. At least one URL must dial
// successfully; unreachable URLs are skipped at construction.
func Dial(ctx context.Context, urls []string, cfg ClientConfig) (*Client, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one rpc url is required")
	}

	endpoints := make([]endpoint, 0, len(urls))
	var lastErr error
	for _, url := range urls {
		rpcClient, err := rpc.DialContext(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("dial %s: %w", url, err)
			continue
		}
		endpoints = append(endpoints, endpoint{
			url:       url,
			rpcClient: rpcClient,
			ethClient: ethclient.NewClient(rpcClient),
		})
	}
	if len(endpoints) == 0 {
		return nil, lastErr
	}

	return &Client{
		endpoints: endpoints,
		cfg:       cfg,
		tsCache:   make(map[uint64]uint64),
	}, nil
}

// Close closes every underlying RPC connection. Endpoints without a live
// connection are skipped.
func (c *Client) Close() {
	for _, ep := range c.endpoints {
		if ep.rpcClient == nil {
			continue
		}
		ep.rpcClient.Close()
	}
}

// URLs lists the endpoint URLs in fallback order.
func (c *Client) URLs() []string {
	urls := make([]string, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		urls = append(urls, ep.url)
	}
	return urls
}

// do runs fn against each endpoint in order until one succeeds. Each
// endpoint gets the configured retry budget before the next URL is tried.
func (c *Client) do(ctx context.Context, fn func(context.Context, *ethclient.Client) error) error {
	var lastErr error
	for _, ep := range c.endpoints {
		ethClient := ep.ethClient
		err := withRetry(ctx, c.cfg.RetryAttempts, c.cfg.RetryBackoff, func(ctx context.Context) error {
			if c.cfg.RequestTimeout > 0 {
				callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
				defer cancel()
				return fn(callCtx, ethClient)
			}
			return fn(ctx, ethClient)
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

// ChainID returns the chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		id, err := eth.ChainID(ctx)
		if err != nil {
			return err
		}
		out = id
		return nil
	})
	return out, err
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var out uint64
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		number, err := eth.BlockNumber(ctx)
		if err != nil {
			return err
		}
		out = number
		return nil
	})
	return out, err
}

// HeaderByNumber returns the block header by number; nil means latest.
func (c *Client) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var out *types.Header
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		header, err := eth.HeaderByNumber(ctx, number)
		if err != nil {
			return err
		}
		out = header
		return nil
	})
	return out, err
}

// BlockTimestamp returns the block timestamp, using an in-memory cache.
func (c *Client) BlockTimestamp(ctx context.Context, number uint64) (uint64, error) {
	c.mu.RLock()
	ts, ok := c.tsCache[number]
	c.mu.RUnlock()
	if ok {
		return ts, nil
	}

	header, err := c.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, err
	}

	ts = header.Time
	c.mu.Lock()
	c.tsCache[number] = ts
	c.mu.Unlock()

	return ts, nil
}

// CallContract performs an eth_call at the given block; nil means latest.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		result, err := eth.CallContract(ctx, msg, blockNumber)
		if err != nil {
			return err
		}
		out = result
		return nil
	})
	return out, err
}

// TransactionReceipt returns the receipt of a mined transaction.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var out *types.Receipt
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		receipt, err := eth.TransactionReceipt(ctx, txHash)
		if err != nil {
			return err
		}
		out = receipt
		return nil
	})
	return out, err
}

// FilterLogs returns logs in the given range for addresses and topic0
// filters.
func (c *Client) FilterLogs(
	ctx context.Context,
	fromBlock uint64,
	toBlock uint64,
	addresses []common.Address,
	topic0 []common.Hash,
) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: addresses,
	}
	if len(topic0) > 0 {
		query.Topics = [][]common.Hash{topic0}
	}

	var out []types.Log
	err := c.do(ctx, func(ctx context.Context, eth *ethclient.Client) error {
		logs, err := eth.FilterLogs(ctx, query)
		if err != nil {
			return err
		}
		out = logs
		return nil
	})
	return out, err
}
