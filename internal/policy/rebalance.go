package policy

import (
	"context"
	"fmt"
	"time"

	"contestScope/internal/model"
)

// Rebalance rule identifiers, in evaluation order.
const (
	RuleRebalancePhase     = "rebalance.phase"
	RuleRebalanceWhitelist = "rebalance.asset-whitelist"
	RuleRebalanceAmount    = "rebalance.amount"
	RuleRebalanceCooldown  = "rebalance.cooldown"
	RuleRebalanceFreshness = "rebalance.price-freshness"
	RuleRebalanceAllowance = "rebalance.allowance"
)

// PriceReader reads the current price timestamp (unix seconds) from an
// on-chain price source. A read failure keeps the cached timestamp, which is
// then judged fail-closed: a stale cache stays stale.
type PriceReader func(ctx context.Context, priceSource string) (int64, error)

// RebalanceVerdict is the full diagnostic outcome of the rebalance rules.
type RebalanceVerdict struct {
	Passed           bool
	Checks           []model.PolicyCheck
	MissingApprovals []model.TokenApproval
	Reason           *model.RejectionReason
}

// EvaluateRebalance runs every rebalance rule unconditionally against one
// snapshot. The price-freshness rule optionally refreshes the price
// timestamp through reader when the contest configures a price source.
func EvaluateRebalance(
	ctx context.Context,
	def model.ContestDefinition,
	participant string,
	intent model.RebalanceIntent,
	now time.Time,
	reader PriceReader,
) RebalanceVerdict {
	profile := def.ParticipantAt(participant)
	settings := def.Rebalance
	if settings == nil {
		failed := check(RuleRebalancePhase, false, "contest has no rebalance configuration")
		return RebalanceVerdict{
			Checks: []model.PolicyCheck{failed},
			Reason: reason(string(model.CodeRuleViolation), failed),
		}
	}

	checks := make([]model.PolicyCheck, 0, 6)

	phaseOK := def.Phase == model.PhaseLive
	checks = append(checks, check(RuleRebalancePhase, phaseOK,
		fmt.Sprintf("contest phase is %q", def.Phase)))

	sellListed := settings.WhitelistContains(intent.SellAsset)
	buyListed := settings.WhitelistContains(intent.BuyAsset)
	checks = append(checks, check(RuleRebalanceWhitelist, sellListed && buyListed,
		whitelistDetail(sellListed, buyListed)))

	amountOK := model.AmountPositive(intent.Amount) &&
		model.AmountCovers(settings.MaxTradeAmount, intent.Amount)
	checks = append(checks, check(RuleRebalanceAmount, amountOK,
		fmt.Sprintf("amount %s, max %s", intent.Amount, settings.MaxTradeAmount)))

	cooldownOK, cooldownDetail := cooldownElapsed(profile, settings, now)
	checks = append(checks, check(RuleRebalanceCooldown, cooldownOK, cooldownDetail))

	freshOK, freshDetail := priceFresh(ctx, settings, now, reader)
	checks = append(checks, check(RuleRebalanceFreshness, freshOK, freshDetail))

	required := []model.TokenApproval{{
		Token:   intent.SellAsset,
		Spender: settings.Router,
		Amount:  intent.Amount,
	}}
	missing := MissingApprovals(profile, required)
	checks = append(checks, check(RuleRebalanceAllowance, len(missing) == 0,
		fmt.Sprintf("%d approvals outstanding", len(missing))))

	verdict := RebalanceVerdict{
		Passed:           allPassed(checks),
		Checks:           checks,
		MissingApprovals: missing,
	}
	if !verdict.Passed {
		verdict.Reason = rebalanceReason(firstFailure(checks))
	}
	return verdict
}

func whitelistDetail(sellListed, buyListed bool) string {
	switch {
	case !sellListed && !buyListed:
		return "sell and buy assets not whitelisted"
	case !sellListed:
		return "sell asset not whitelisted"
	case !buyListed:
		return "buy asset not whitelisted"
	}
	return "both assets whitelisted"
}

// cooldownElapsed prefers an explicit cooldownEndsAt over the derived
// lastRebalanceAt + cooldownSeconds bound.
func cooldownElapsed(profile model.ParticipantProfile, settings *model.RebalanceSettings, now time.Time) (bool, string) {
	var endsAt int64
	switch {
	case profile.CooldownEndsAt > 0:
		endsAt = profile.CooldownEndsAt
	case profile.LastRebalanceAt > 0 && settings.CooldownSeconds > 0:
		endsAt = profile.LastRebalanceAt + settings.CooldownSeconds
	default:
		return true, "no cooldown recorded"
	}
	if now.Unix() < endsAt {
		return false, fmt.Sprintf("cooldown ends at %d", endsAt)
	}
	return true, "cooldown elapsed"
}

// priceFresh refreshes the price timestamp from the configured on-chain
// source when possible. Read failures fall back to the cached timestamp and
// the comparison stays fail-closed.
func priceFresh(ctx context.Context, settings *model.RebalanceSettings, now time.Time, reader PriceReader) (bool, string) {
	if settings.PriceFreshnessSeconds <= 0 {
		return true, "freshness check disabled"
	}

	effective := settings.PriceTimestamp
	if settings.PriceSource != "" && reader != nil {
		if ts, err := reader(ctx, settings.PriceSource); err == nil {
			effective = ts
		}
	}

	if effective <= 0 {
		return false, "no price timestamp available"
	}
	age := now.Unix() - effective
	if age > settings.PriceFreshnessSeconds {
		return false, fmt.Sprintf("price is %ds old, freshness limit %ds", age, settings.PriceFreshnessSeconds)
	}
	return true, "price fresh"
}

func rebalanceReason(failed model.PolicyCheck) *model.RejectionReason {
	switch failed.ID {
	case RuleRebalanceFreshness:
		return reason(string(model.CodePricingStale), failed)
	case RuleRebalanceAllowance:
		return reason(string(model.CodeAuthorizationRequired), failed)
	}
	return reason(string(model.CodeRuleViolation), failed)
}
