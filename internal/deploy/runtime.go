package deploy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"contestScope/internal/model"
)

// WalletClient signs and broadcasts transactions on behalf of an organizer
// wallet. Deployment never signs anything itself; it only hands work to this
// collaborator and waits for confirmations.
type WalletClient interface {
	// Deploy submits a contract-creation transaction for a named artifact.
	Deploy(ctx context.Context, chainID uint64, artifact string, args []byte) (common.Hash, error)
	// Submit broadcasts a regular contract call.
	Submit(ctx context.Context, chainID uint64, call model.ExecutionCall) (common.Hash, error)
}

// ReceiptSource reads transaction receipts and block timestamps. A
// chain.Client satisfies it.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
}

// ComponentSpec describes one organizer-owned component to deploy.
type ComponentSpec struct {
	Kind   model.ComponentKind
	Label  string
	Args   []byte
	Config map[string]string
}

// RuntimeConfig tunes confirmation polling.
type RuntimeConfig struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
	Logger         *zap.Logger
}

// Runtime deploys contracts through a wallet client and confirms them
// against chain state.
type Runtime struct {
	wallet         WalletClient
	receipts       ReceiptSource
	pollInterval   time.Duration
	confirmTimeout time.Duration
	logger         *zap.Logger
}

func NewRuntime(wallet WalletClient, receipts ReceiptSource, cfg RuntimeConfig) (*Runtime, error) {
	if wallet == nil {
		return nil, fmt.Errorf("wallet client is required")
	}
	if receipts == nil {
		return nil, fmt.Errorf("receipt source is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 3 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runtime{
		wallet:         wallet,
		receipts:       receipts,
		pollInterval:   cfg.PollInterval,
		confirmTimeout: cfg.ConfirmTimeout,
		logger:         cfg.Logger,
	}, nil
}

// HashConfig derives a stable content hash of a component configuration.
// Keys are sorted so that map iteration order never changes the hash.
func HashConfig(config map[string]string) string {
	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteByte('=')
		builder.WriteString(config[key])
		builder.WriteByte('\n')
	}
	return hexutil.Encode(crypto.Keccak256([]byte(builder.String())))
}

// DeployComponent deploys one component and waits for its confirmation.
func (r *Runtime) DeployComponent(ctx context.Context, chainID uint64, spec ComponentSpec) (model.ComponentRecord, error) {
	txHash, err := r.wallet.Deploy(ctx, chainID, string(spec.Kind), spec.Args)
	if err != nil {
		return model.ComponentRecord{}, fmt.Errorf("deploy %s: %w", spec.Kind, err)
	}

	receipt, err := r.waitForReceipt(ctx, txHash)
	if err != nil {
		return model.ComponentRecord{}, fmt.Errorf("confirm %s: %w", spec.Kind, err)
	}

	ts, err := r.receipts.BlockTimestamp(ctx, receipt.BlockNumber.Uint64())
	if err != nil {
		return model.ComponentRecord{}, fmt.Errorf("block timestamp for %s: %w", spec.Kind, err)
	}

	record := model.ComponentRecord{
		ChainID:         chainID,
		Kind:            spec.Kind,
		Label:           spec.Label,
		Address:         model.NormalizeAddress(receipt.ContractAddress.Hex()),
		ConfigHash:      HashConfig(spec.Config),
		TxHash:          txHash.Hex(),
		DeployedAtBlock: receipt.BlockNumber.Uint64(),
		DeployedAt:      time.Unix(int64(ts), 0).UTC().Format(time.RFC3339),
	}
	r.logger.Info("component deployed",
		zap.String("kind", string(spec.Kind)),
		zap.String("address", record.Address),
		zap.Uint64("block", record.DeployedAtBlock))
	return record, nil
}

// submitStep broadcasts one bundle step and confirms it.
func (r *Runtime) submitStep(ctx context.Context, chainID uint64, name string, call model.ExecutionCall) (model.DeploymentStep, *types.Receipt, error) {
	txHash, err := r.wallet.Submit(ctx, chainID, call)
	if err != nil {
		return model.DeploymentStep{}, nil, fmt.Errorf("submit %s: %w", name, err)
	}
	receipt, err := r.waitForReceipt(ctx, txHash)
	if err != nil {
		return model.DeploymentStep{}, nil, fmt.Errorf("confirm %s: %w", name, err)
	}
	ts, err := r.receipts.BlockTimestamp(ctx, receipt.BlockNumber.Uint64())
	if err != nil {
		return model.DeploymentStep{}, nil, fmt.Errorf("block timestamp for %s: %w", name, err)
	}
	step := model.DeploymentStep{
		Name:           name,
		TxHash:         txHash.Hex(),
		BlockNumber:    receipt.BlockNumber.Uint64(),
		BlockTimestamp: ts,
	}
	return step, receipt, nil
}

// deployStep submits a contract-creation step and confirms it, returning the
// created contract's address alongside the step record.
func (r *Runtime) deployStep(ctx context.Context, chainID uint64, name, artifact string, args []byte) (model.DeploymentStep, string, error) {
	txHash, err := r.wallet.Deploy(ctx, chainID, artifact, args)
	if err != nil {
		return model.DeploymentStep{}, "", fmt.Errorf("submit %s: %w", name, err)
	}
	receipt, err := r.waitForReceipt(ctx, txHash)
	if err != nil {
		return model.DeploymentStep{}, "", fmt.Errorf("confirm %s: %w", name, err)
	}
	ts, err := r.receipts.BlockTimestamp(ctx, receipt.BlockNumber.Uint64())
	if err != nil {
		return model.DeploymentStep{}, "", fmt.Errorf("block timestamp for %s: %w", name, err)
	}
	step := model.DeploymentStep{
		Name:           name,
		TxHash:         txHash.Hex(),
		BlockNumber:    receipt.BlockNumber.Uint64(),
		BlockTimestamp: ts,
	}
	return step, model.NormalizeAddress(receipt.ContractAddress.Hex()), nil
}

// waitForReceipt polls until a receipt is available or the confirmation
// window elapses. A missing receipt is not an error while the window is
// open; most nodes return "not found" until the transaction is mined.
func (r *Runtime) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(r.confirmTimeout)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.receipts.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("transaction %s reverted", txHash.Hex())
			}
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("transaction %s not confirmed within %s", txHash.Hex(), r.confirmTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
