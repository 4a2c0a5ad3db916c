package policy

import (
	"testing"

	"contestScope/internal/model"
)

func TestSettlementGuardAlreadyExecuted(t *testing.T) {
	def := model.ContestDefinition{
		Settlement: &model.SettlementState{Executed: true},
	}

	verdict := EvaluateSettlementGuard(def)
	if verdict.Status != GuardNoop {
		t.Fatalf("expected noop, got %s", verdict.Status)
	}
	if verdict.Reason.Code != string(model.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT, got %s", verdict.Reason.Code)
	}
}

func TestSettlementGuardMissingState(t *testing.T) {
	verdict := EvaluateSettlementGuard(model.ContestDefinition{})
	if verdict.Status != GuardBlocked {
		t.Fatalf("expected blocked, got %s", verdict.Status)
	}
	if verdict.Reason.Code != string(model.CodeQualificationFailed) {
		t.Fatalf("expected QUALIFICATION_FAILED, got %s", verdict.Reason.Code)
	}
}

func TestSettlementGuardReady(t *testing.T) {
	call := &model.ExecutionCall{To: "0x1", Data: "0x2"}
	def := model.ContestDefinition{
		Settlement: &model.SettlementState{Call: call},
	}

	verdict := EvaluateSettlementGuard(def)
	if verdict.Status != GuardReady {
		t.Fatalf("expected ready, got %s", verdict.Status)
	}
	if verdict.Call != call {
		t.Fatalf("ready verdict should carry the configured call")
	}
}

func TestRewardGuardStates(t *testing.T) {
	def := model.ContestDefinition{
		Rewards: map[string]model.RewardEntry{
			"0xclaimed": {Claimed: true},
			"0xblocked": {Blocked: true, BlockedReason: "AUTHORIZATION_REQUIRED"},
			"0xready":   {Amount: "100", Call: &model.ExecutionCall{To: "0x1", Data: "0x2"}},
		},
	}

	if got := EvaluateRewardGuard(def, "0xCLAIMED"); got.Status != GuardNoop ||
		got.Reason.Code != string(model.CodeStateConflict) {
		t.Fatalf("claimed entry: %+v", got)
	}
	if got := EvaluateRewardGuard(def, "0xmissing"); got.Status != GuardBlocked ||
		got.Reason.Code != string(model.CodeQualificationFailed) {
		t.Fatalf("missing entry: %+v", got)
	}
	if got := EvaluateRewardGuard(def, "0xblocked"); got.Status != GuardBlocked ||
		got.Reason.Code != "AUTHORIZATION_REQUIRED" {
		t.Fatalf("blocked entry keeps its own reason: %+v", got)
	}
	if got := EvaluateRewardGuard(def, "0xready"); got.Status != GuardReady || got.Call == nil {
		t.Fatalf("ready entry: %+v", got)
	}
}

func TestRewardGuardBlockedDefaultReason(t *testing.T) {
	def := model.ContestDefinition{
		Rewards: map[string]model.RewardEntry{
			"0xblocked": {Blocked: true},
		},
	}
	got := EvaluateRewardGuard(def, "0xblocked")
	if got.Reason.Code != string(model.CodeRuleViolation) {
		t.Fatalf("blocked entry without a reason defaults to RULE_VIOLATION, got %s", got.Reason.Code)
	}
}

func TestRedemptionGuardStates(t *testing.T) {
	def := model.ContestDefinition{
		Redemption: map[string]model.RedemptionEntry{
			"0xdone":  {Redeemed: true},
			"0xready": {Amount: "500", Call: &model.ExecutionCall{To: "0x1", Data: "0x2"}},
		},
	}

	if got := EvaluateRedemptionGuard(def, "0xdone"); got.Status != GuardNoop ||
		got.Reason.Code != string(model.CodeStateConflict) {
		t.Fatalf("redeemed entry: %+v", got)
	}
	if got := EvaluateRedemptionGuard(def, "0xready"); got.Status != GuardReady {
		t.Fatalf("ready entry: %+v", got)
	}
	if got := EvaluateRedemptionGuard(def, "0xnobody"); got.Status != GuardBlocked {
		t.Fatalf("missing entry: %+v", got)
	}
}
