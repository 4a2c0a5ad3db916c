package route

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"contestScope/internal/model"
)

// Swap directions relative to the contest's asset pair.
const (
	directionSellBase  = "sell-base"
	directionSellQuote = "sell-quote"
)

// Planner encodes rebalance intents into vault swap calls.
type Planner struct{}

// NewPlanner creates a route planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// BuildRoute resolves the swap direction, derives the route deadline from
// the snapshot's block timestamp, and encodes the exact swap call against
// the participant's vault. The descriptor is echoed in both the plan and the
// execution result so callers can re-validate a route before confirming.
func (p *Planner) BuildRoute(
	def model.ContestDefinition,
	participant string,
	intent model.RebalanceIntent,
) (model.RouteDescriptor, model.ExecutionCall, error) {
	settings := def.Rebalance
	if settings == nil {
		return model.RouteDescriptor{}, model.ExecutionCall{},
			model.NewChainError(model.CodeValidationFailed, "contest has no rebalance configuration")
	}

	direction, err := resolveDirection(*settings, intent)
	if err != nil {
		return model.RouteDescriptor{}, model.ExecutionCall{}, err
	}

	profile := def.ParticipantAt(participant)
	if profile.Vault == "" {
		return model.RouteDescriptor{}, model.ExecutionCall{},
			model.NewChainError(model.CodeValidationFailed,
				fmt.Sprintf("participant %s has no vault", participant))
	}
	if !common.IsHexAddress(profile.Vault) {
		return model.RouteDescriptor{}, model.ExecutionCall{},
			model.NewChainError(model.CodeValidationFailed,
				fmt.Sprintf("invalid vault address %s", profile.Vault))
	}

	amountIn := model.ParseAmount(intent.Amount)
	minOut := applySlippage(amountIn, settings.SlippageBps)
	deadline := int64(def.DerivedAt.Timestamp) + settings.DeadlineSeconds

	data, err := encodeSwap(intent, minOut, deadline)
	if err != nil {
		return model.RouteDescriptor{}, model.ExecutionCall{}, err
	}

	descriptor := model.RouteDescriptor{
		Steps: []model.RouteStep{{
			Action:   "swap",
			TokenIn:  model.NormalizeAddress(intent.SellAsset),
			TokenOut: model.NormalizeAddress(intent.BuyAsset),
			AmountIn: amountIn.String(),
			MinOut:   minOut.String(),
		}},
		MinimumOut:  minOut.String(),
		SlippageBps: settings.SlippageBps,
		ExpiresAt:   deadline,
		Metadata: map[string]string{
			"direction": direction,
			"vault":     model.NormalizeAddress(profile.Vault),
			"router":    model.NormalizeAddress(settings.Router),
		},
	}

	call := model.ExecutionCall{
		To:       model.NormalizeAddress(profile.Vault),
		Data:     hexutil.Encode(data),
		Deadline: deadline,
	}

	return descriptor, call, nil
}

// resolveDirection requires the sell asset to be the contest's base or quote
// asset; anything else is a validation error, not a blocked plan.
func resolveDirection(settings model.RebalanceSettings, intent model.RebalanceIntent) (string, error) {
	sell := model.NormalizeAddress(intent.SellAsset)
	switch sell {
	case model.NormalizeAddress(settings.BaseAsset):
		return directionSellBase, nil
	case model.NormalizeAddress(settings.QuoteAsset):
		return directionSellQuote, nil
	}
	return "", model.NewChainError(model.CodeValidationFailed,
		fmt.Sprintf("sell asset %s is neither the base nor the quote asset", intent.SellAsset))
}

// applySlippage bounds the acceptable output: amount * (10000 - bps) / 10000.
// The vault converts through the oracle price on chain; the bound only caps
// the tolerated deviation.
func applySlippage(amount *big.Int, slippageBps int64) *big.Int {
	if slippageBps <= 0 {
		return new(big.Int).Set(amount)
	}
	if slippageBps >= 10000 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amount, big.NewInt(10000-slippageBps))
	return out.Div(out, big.NewInt(10000))
}

func encodeSwap(intent model.RebalanceIntent, minOut *big.Int, deadline int64) ([]byte, error) {
	parsed, err := VaultABI()
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(intent.SellAsset) || !common.IsHexAddress(intent.BuyAsset) {
		return nil, model.NewChainError(model.CodeValidationFailed, "swap assets must be hex addresses")
	}

	data, err := parsed.Pack(
		"swapExactIn",
		common.HexToAddress(intent.SellAsset),
		common.HexToAddress(intent.BuyAsset),
		model.ParseAmount(intent.Amount),
		minOut,
		big.NewInt(deadline),
	)
	if err != nil {
		return nil, fmt.Errorf("pack swap call: %w", err)
	}
	return data, nil
}
