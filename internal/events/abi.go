package events

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const contestABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "participant", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "entryFee", "type": "uint256"}
    ],
    "name": "Registered",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "participant", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "sellAsset", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "buyAsset", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amountIn", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "amountOut", "type": "uint256"}
    ],
    "name": "Rebalanced",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "prizePool", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "vaultCount", "type": "uint256"}
    ],
    "name": "Settled",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "participant", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "RewardClaimed",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "participant", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "Redeemed",
    "type": "event"
  }
]`

var (
	contestABI     abi.ABI
	contestABIOnce sync.Once
	contestABIErr  error
)

// ContestABI returns the parsed contest event ABI.
func ContestABI() (abi.ABI, error) {
	contestABIOnce.Do(func() {
		contestABI, contestABIErr = abi.JSON(strings.NewReader(contestABIJSON))
	})
	return contestABI, contestABIErr
}
