package policy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"contestScope/internal/model"
)

const (
	baseAsset  = "0x4000000000000000000000000000000000000004"
	quoteAsset = "0x5000000000000000000000000000000000000005"
	routerAddr = "0x6000000000000000000000000000000000000006"
)

func liveContest(now time.Time) model.ContestDefinition {
	return model.ContestDefinition{
		Phase: model.PhaseLive,
		Rebalance: &model.RebalanceSettings{
			Whitelist:             []string{baseAsset, quoteAsset},
			BaseAsset:             baseAsset,
			QuoteAsset:            quoteAsset,
			MaxTradeAmount:        "1000000",
			CooldownSeconds:       600,
			PriceFreshnessSeconds: 300,
			PriceTimestamp:        now.Unix() - 30,
			Router:                routerAddr,
			DeadlineSeconds:       1200,
			SlippageBps:           50,
		},
		Participants: map[string]model.ParticipantProfile{
			aliceAddr: {
				Address: aliceAddr,
				Vault:   "0x7000000000000000000000000000000000000007",
				Allowances: map[string]map[string]string{
					baseAsset: {routerAddr: "1000000"},
				},
			},
		},
	}
}

func sellBaseIntent() model.RebalanceIntent {
	return model.RebalanceIntent{SellAsset: baseAsset, BuyAsset: quoteAsset, Amount: "500"}
}

func TestEvaluateRebalanceReady(t *testing.T) {
	now := time.Unix(1700000000, 0)
	verdict := EvaluateRebalance(context.Background(), liveContest(now), aliceAddr, sellBaseIntent(), now, nil)

	if !verdict.Passed {
		t.Fatalf("expected pass, got %+v", verdict.Reason)
	}
	if len(verdict.Checks) != 6 {
		t.Fatalf("every rule should be reported, got %d", len(verdict.Checks))
	}
}

func TestEvaluateRebalanceWhitelistDominates(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	intent := sellBaseIntent()
	intent.BuyAsset = "0x9999999999999999999999999999999999999999"

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, intent, now, nil)

	if verdict.Passed {
		t.Fatalf("unlisted buy asset must block the plan")
	}
	if verdict.Reason.RuleID != RuleRebalanceWhitelist {
		t.Fatalf("expected whitelist rule to fail, got %s", verdict.Reason.RuleID)
	}
	if verdict.Reason.Code != string(model.CodeRuleViolation) {
		t.Fatalf("whitelist failure maps to RULE_VIOLATION, got %s", verdict.Reason.Code)
	}
}

func TestEvaluateRebalanceAmountBounds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)

	for _, amount := range []string{"0", "-1", "1000001", "junk"} {
		intent := sellBaseIntent()
		intent.Amount = amount
		verdict := EvaluateRebalance(context.Background(), def, aliceAddr, intent, now, nil)
		if verdict.Passed {
			t.Fatalf("amount %q should fail the bounds rule", amount)
		}
	}
}

func TestEvaluateRebalanceExplicitCooldownWins(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	profile := def.Participants[aliceAddr]
	// derived bound already elapsed, explicit bound has not
	profile.LastRebalanceAt = now.Unix() - 3600
	profile.CooldownEndsAt = now.Unix() + 60
	def.Participants[aliceAddr] = profile

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, nil)
	if verdict.Passed {
		t.Fatalf("explicit cooldownEndsAt takes precedence")
	}
	if verdict.Reason.RuleID != RuleRebalanceCooldown {
		t.Fatalf("expected cooldown failure, got %s", verdict.Reason.RuleID)
	}
}

func TestEvaluateRebalanceDerivedCooldown(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	profile := def.Participants[aliceAddr]
	profile.LastRebalanceAt = now.Unix() - 60 // cooldown is 600s
	def.Participants[aliceAddr] = profile

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, nil)
	if verdict.Passed {
		t.Fatalf("derived cooldown should still be running")
	}
}

func TestEvaluateRebalanceStalePrice(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	def.Rebalance.PriceTimestamp = now.Unix() - 600 // freshness is 300s

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, nil)
	if verdict.Passed {
		t.Fatalf("stale price should block")
	}
	if verdict.Reason.Code != string(model.CodePricingStale) {
		t.Fatalf("expected PRICING_STALE, got %s", verdict.Reason.Code)
	}
}

func TestEvaluateRebalancePriceRefreshSucceeds(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	def.Rebalance.PriceTimestamp = now.Unix() - 600
	def.Rebalance.PriceSource = "0x8000000000000000000000000000000000000008"

	reader := func(_ context.Context, source string) (int64, error) {
		if source != def.Rebalance.PriceSource {
			t.Fatalf("unexpected price source: %s", source)
		}
		return now.Unix() - 10, nil
	}

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, reader)
	if !verdict.Passed {
		t.Fatalf("refreshed timestamp should be fresh, got %+v", verdict.Reason)
	}
}

func TestEvaluateRebalancePriceRefreshFailureIsFailClosed(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	def.Rebalance.PriceTimestamp = now.Unix() - 600
	def.Rebalance.PriceSource = "0x8000000000000000000000000000000000000008"

	reader := func(context.Context, string) (int64, error) {
		return 0, fmt.Errorf("read reverted")
	}

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, reader)
	if verdict.Passed {
		t.Fatalf("a failed refresh keeps the stale cached timestamp")
	}
	if verdict.Reason.Code != string(model.CodePricingStale) {
		t.Fatalf("expected PRICING_STALE, got %s", verdict.Reason.Code)
	}
}

func TestEvaluateRebalanceAllowanceRequired(t *testing.T) {
	now := time.Unix(1700000000, 0)
	def := liveContest(now)
	profile := def.Participants[aliceAddr]
	profile.Allowances = map[string]map[string]string{
		baseAsset: {routerAddr: "100"},
	}
	def.Participants[aliceAddr] = profile

	verdict := EvaluateRebalance(context.Background(), def, aliceAddr, sellBaseIntent(), now, nil)
	if verdict.Passed {
		t.Fatalf("insufficient router allowance should block")
	}
	if verdict.Reason.Code != string(model.CodeAuthorizationRequired) {
		t.Fatalf("expected AUTHORIZATION_REQUIRED, got %s", verdict.Reason.Code)
	}
	if len(verdict.MissingApprovals) != 1 {
		t.Fatalf("the router approval should be reported missing")
	}
}
