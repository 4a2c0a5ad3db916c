package chain

import "fmt"

// Descriptor identifies an EVM network and its built-in default RPC
// endpoints. Defaults are a last resort behind request overrides and
// per-chain options.
type Descriptor struct {
	ChainID        uint64
	Name           string
	DefaultRPCURLs []string
}

var builtinChains = map[uint64]Descriptor{
	1: {
		ChainID:        1,
		Name:           "mainnet",
		DefaultRPCURLs: []string{"https://eth.llamarpc.com"},
	},
	56: {
		ChainID:        56,
		Name:           "bsc",
		DefaultRPCURLs: []string{"https://bsc-dataseed.binance.org"},
	},
	137: {
		ChainID:        137,
		Name:           "polygon",
		DefaultRPCURLs: []string{"https://polygon-rpc.com"},
	},
	8453: {
		ChainID:        8453,
		Name:           "base",
		DefaultRPCURLs: []string{"https://mainnet.base.org"},
	},
	11155111: {
		ChainID:        11155111,
		Name:           "sepolia",
		DefaultRPCURLs: []string{"https://rpc.sepolia.org"},
	},
}

// ResolveDescriptor looks up a built-in chain descriptor.
func ResolveDescriptor(chainID uint64) (Descriptor, error) {
	descriptor, ok := builtinChains[chainID]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown chain id %d", chainID)
	}
	return descriptor, nil
}
