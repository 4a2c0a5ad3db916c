package deploy

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"contestScope/internal/model"
	"contestScope/internal/route"
)

// ContractCaller performs read-only contract calls. A chain.Client
// satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ReadVaultState reads one vault's settled flag, NAV, and ROI from chain.
func ReadVaultState(ctx context.Context, caller ContractCaller, vault string, blockTag *big.Int) (model.VaultReading, error) {
	vaultABI, err := route.VaultABI()
	if err != nil {
		return model.VaultReading{}, err
	}
	addr := common.HexToAddress(vault)

	reading := model.VaultReading{Vault: model.NormalizeAddress(vault)}

	settledOut, err := callMethod(ctx, caller, vaultABI, addr, "settled", blockTag)
	if err != nil {
		return model.VaultReading{}, fmt.Errorf("read settled for %s: %w", vault, err)
	}
	reading.Settled, _ = settledOut[0].(bool)

	navOut, err := callMethod(ctx, caller, vaultABI, addr, "nav", blockTag)
	if err != nil {
		return model.VaultReading{}, fmt.Errorf("read nav for %s: %w", vault, err)
	}
	if nav, ok := navOut[0].(*big.Int); ok {
		reading.NAV = nav.String()
	} else {
		reading.NAV = "0"
	}

	roiOut, err := callMethod(ctx, caller, vaultABI, addr, "roiBps", blockTag)
	if err != nil {
		return model.VaultReading{}, fmt.Errorf("read roiBps for %s: %w", vault, err)
	}
	if roi, ok := roiOut[0].(*big.Int); ok {
		reading.ROIBps = roi.Int64()
	}

	return reading, nil
}

func callMethod(ctx context.Context, caller ContractCaller, vaultABI abi.ABI, addr common.Address, method string, blockTag *big.Int) ([]interface{}, error) {
	data, err := vaultABI.Pack(method)
	if err != nil {
		return nil, err
	}
	raw, err := caller.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, blockTag)
	if err != nil {
		return nil, err
	}
	out, err := vaultABI.Unpack(method, raw)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty result for %s", method)
	}
	return out, nil
}

// ComputeLeaderboardUpdates ranks settled vaults for a prize-distribution
// update. Ordering is NAV descending, then ROI descending on NAV ties, and
// the result is truncated to topK. Unsettled vaults never rank.
func ComputeLeaderboardUpdates(readings []model.VaultReading, topK int) []model.LeaderboardEntry {
	settled := make([]model.VaultReading, 0, len(readings))
	for _, reading := range readings {
		if reading.Settled {
			settled = append(settled, reading)
		}
	}

	sort.SliceStable(settled, func(i, j int) bool {
		navCmp := model.ParseAmount(settled[i].NAV).Cmp(model.ParseAmount(settled[j].NAV))
		if navCmp != 0 {
			return navCmp > 0
		}
		return settled[i].ROIBps > settled[j].ROIBps
	})

	if topK > 0 && len(settled) > topK {
		settled = settled[:topK]
	}

	entries := make([]model.LeaderboardEntry, len(settled))
	for i, reading := range settled {
		entries[i] = model.LeaderboardEntry{
			Rank:   i + 1,
			Vault:  model.NormalizeAddress(reading.Vault),
			NAV:    reading.NAV,
			ROIBps: reading.ROIBps,
		}
	}
	return entries
}
