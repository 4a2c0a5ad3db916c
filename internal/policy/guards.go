package policy

import (
	"contestScope/internal/model"
)

// GuardStatus is the three-state outcome of a settlement/reward/redemption
// guard evaluation.
type GuardStatus string

const (
	GuardReady   GuardStatus = "ready"
	GuardNoop    GuardStatus = "noop"
	GuardBlocked GuardStatus = "blocked"
)

// GuardVerdict carries the guard status, the call to emit when ready, and a
// rejection reason otherwise.
type GuardVerdict struct {
	Status GuardStatus
	Call   *model.ExecutionCall
	Reason *model.RejectionReason
}

// guardInput normalizes the three entry shapes into one state machine.
type guardInput struct {
	exists        bool
	done          bool
	doneDetail    string
	blocked       bool
	blockedReason string
	call          *model.ExecutionCall
}

// evaluateGuard: already done is a noop (STATE_CONFLICT), a missing entry is
// blocked (QUALIFICATION_FAILED), an explicitly blocked entry keeps its own
// reason or defaults to RULE_VIOLATION, anything else is ready.
func evaluateGuard(in guardInput) GuardVerdict {
	if in.exists && in.done {
		return GuardVerdict{
			Status: GuardNoop,
			Reason: &model.RejectionReason{Code: string(model.CodeStateConflict), Message: in.doneDetail},
		}
	}
	if !in.exists {
		return GuardVerdict{
			Status: GuardBlocked,
			Reason: &model.RejectionReason{Code: string(model.CodeQualificationFailed), Message: "no entry for caller"},
		}
	}
	if in.blocked {
		// A blocked entry carries its own reason code when recorded on chain.
		code := in.blockedReason
		if code == "" {
			code = string(model.CodeRuleViolation)
		}
		return GuardVerdict{
			Status: GuardBlocked,
			Reason: &model.RejectionReason{Code: code, Message: "entry is blocked"},
		}
	}
	return GuardVerdict{Status: GuardReady, Call: in.call}
}

// EvaluateSettlementGuard gates the operator settlement action.
func EvaluateSettlementGuard(def model.ContestDefinition) GuardVerdict {
	state := def.Settlement
	return evaluateGuard(guardInput{
		exists:        state != nil,
		done:          state != nil && state.Executed,
		doneDetail:    "contest already settled",
		blocked:       state != nil && state.Blocked,
		blockedReason: blockedReasonOf(state),
		call:          callOf(state),
	})
}

// EvaluateRewardGuard gates one participant's reward claim.
func EvaluateRewardGuard(def model.ContestDefinition, participant string) GuardVerdict {
	entry, ok := def.RewardEntryFor(participant)
	return evaluateGuard(guardInput{
		exists:        ok,
		done:          entry.Claimed,
		doneDetail:    "reward already claimed",
		blocked:       entry.Blocked,
		blockedReason: entry.BlockedReason,
		call:          entry.Call,
	})
}

// EvaluateRedemptionGuard gates one participant's principal redemption.
func EvaluateRedemptionGuard(def model.ContestDefinition, participant string) GuardVerdict {
	entry, ok := def.RedemptionEntryFor(participant)
	return evaluateGuard(guardInput{
		exists:        ok,
		done:          entry.Redeemed,
		doneDetail:    "principal already redeemed",
		blocked:       entry.Blocked,
		blockedReason: entry.BlockedReason,
		call:          entry.Call,
	})
}

func blockedReasonOf(state *model.SettlementState) string {
	if state == nil {
		return ""
	}
	return state.BlockedReason
}

func callOf(state *model.SettlementState) *model.ExecutionCall {
	if state == nil {
		return nil
	}
	return state.Call
}
