package policy

import (
	"fmt"
	"time"

	"contestScope/internal/model"
)

// Registration rule identifiers, in evaluation order.
const (
	RuleRegistrationPhase     = "registration.phase"
	RuleRegistrationNotYet    = "registration.not-registered"
	RuleRegistrationCapacity  = "registration.capacity"
	RuleRegistrationWindow    = "registration.window"
	RuleRegistrationAllowance = "registration.allowance"
)

// RegistrationVerdict is the full diagnostic outcome of the registration
// rules for one participant.
type RegistrationVerdict struct {
	Passed            bool
	Checks            []model.PolicyCheck
	RequiredApprovals []model.TokenApproval
	MissingApprovals  []model.TokenApproval
	Reason            *model.RejectionReason
}

// EvaluateRegistration runs every registration rule unconditionally, so the
// caller always sees the complete check list. The verdict passes only when
// every rule passed; the rejection reason maps the first failing rule.
func EvaluateRegistration(def model.ContestDefinition, participant string, now time.Time) RegistrationVerdict {
	profile := def.ParticipantAt(participant)
	required := BuildRegistrationApprovals(def)
	missing := MissingApprovals(profile, required)

	checks := make([]model.PolicyCheck, 0, 5)

	phaseOK := def.Phase == model.PhaseRegistering
	checks = append(checks, check(RuleRegistrationPhase, phaseOK,
		fmt.Sprintf("contest phase is %q", def.Phase)))

	checks = append(checks, check(RuleRegistrationNotYet, !profile.Registered,
		"participant already registered"))

	checks = append(checks, check(RuleRegistrationCapacity, !def.RegistrationCapacity.Full(),
		fmt.Sprintf("%d of %d slots taken",
			def.RegistrationCapacity.Registered, def.RegistrationCapacity.MaxParticipants)))

	windowOK, windowDetail := windowOpen(def.Registration.Window, now)
	checks = append(checks, check(RuleRegistrationWindow, windowOK, windowDetail))

	checks = append(checks, check(RuleRegistrationAllowance, len(missing) == 0,
		fmt.Sprintf("%d approvals outstanding", len(missing))))

	verdict := RegistrationVerdict{
		Passed:            allPassed(checks),
		Checks:            checks,
		RequiredApprovals: required,
		MissingApprovals:  missing,
	}
	if !verdict.Passed {
		verdict.Reason = registrationReason(firstFailure(checks))
	}
	return verdict
}

func windowOpen(window model.RegistrationWindow, now time.Time) (bool, string) {
	if window.OpensAt != "" {
		opens, err := ParseTimestamp(window.OpensAt)
		if err != nil {
			return false, fmt.Sprintf("unparseable window open bound: %v", err)
		}
		if now.Before(opens) {
			return false, fmt.Sprintf("window opens at %s", opens.Format(time.RFC3339))
		}
	}
	if window.ClosesAt != "" {
		closes, err := ParseTimestamp(window.ClosesAt)
		if err != nil {
			return false, fmt.Sprintf("unparseable window close bound: %v", err)
		}
		if now.After(closes) {
			return false, fmt.Sprintf("window closed at %s", closes.Format(time.RFC3339))
		}
	}
	return true, "registration window open"
}

func registrationReason(failed model.PolicyCheck) *model.RejectionReason {
	code := model.CodeRuleViolation
	switch failed.ID {
	case RuleRegistrationPhase:
		return reason(model.ReasonPhaseInvalid, failed)
	case RuleRegistrationNotYet:
		return reason(model.ReasonAlreadyCompleted, failed)
	case RuleRegistrationCapacity:
		return reason(model.ReasonCapacityFull, failed)
	case RuleRegistrationAllowance:
		return reason(model.ReasonInsufficientApproval, failed)
	}
	return reason(string(code), failed)
}

func reason(code string, failed model.PolicyCheck) *model.RejectionReason {
	return &model.RejectionReason{Code: code, Message: failed.Detail, RuleID: failed.ID}
}

func check(id string, passed bool, detail string) model.PolicyCheck {
	return model.PolicyCheck{ID: id, Passed: passed, Detail: detail}
}

func allPassed(checks []model.PolicyCheck) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func firstFailure(checks []model.PolicyCheck) model.PolicyCheck {
	for _, c := range checks {
		if !c.Passed {
			return c
		}
	}
	return model.PolicyCheck{}
}

// FailedRuleIDs lists the ids of every failing check, for qualification
// verdict reporting.
func FailedRuleIDs(checks []model.PolicyCheck) []string {
	ids := make([]string, 0)
	for _, c := range checks {
		if !c.Passed {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
