package policy

import (
	"contestScope/internal/model"
)

// BuildRegistrationApprovals assembles the full approval set a registration
// needs: the registration requirement's own approval first, then any
// contest-declared extras, deduplicated by (token, spender) pair.
func BuildRegistrationApprovals(def model.ContestDefinition) []model.TokenApproval {
	approvals := make([]model.TokenApproval, 0, 1+len(def.Registration.Approvals))

	requirement := def.Registration.Requirement
	if requirement.Token != "" {
		approvals = append(approvals, model.TokenApproval{
			Token:   requirement.Token,
			Spender: requirement.Spender,
			Amount:  requirement.Amount,
		})
	}
	approvals = append(approvals, def.Registration.Approvals...)

	return dedupeApprovals(approvals)
}

// MissingApprovals filters a required approval set down to the entries the
// participant has not yet satisfied.
func MissingApprovals(profile model.ParticipantProfile, required []model.TokenApproval) []model.TokenApproval {
	missing := make([]model.TokenApproval, 0)
	for _, approval := range required {
		have := profile.AllowanceFor(approval.Token, approval.Spender)
		if !model.AmountCovers(have, approval.Amount) {
			missing = append(missing, approval)
		}
	}
	return missing
}

func dedupeApprovals(approvals []model.TokenApproval) []model.TokenApproval {
	seen := make(map[string]struct{}, len(approvals))
	out := make([]model.TokenApproval, 0, len(approvals))
	for _, approval := range approvals {
		key := model.NormalizeAddress(approval.Token) + "|" + model.NormalizeAddress(approval.Spender)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, approval)
	}
	return out
}
