package model

// ExecutionStatus is the outcome family for registration and rebalance
// execution. A noop is the designed response when the action is no longer
// applicable; it always carries a reason and is never an error.
type ExecutionStatus string

const (
	ExecutionExecuted ExecutionStatus = "executed"
	ExecutionNoop     ExecutionStatus = "noop"
)

// ActionStatus is the outcome family for settlement, reward claims, and
// principal redemption.
type ActionStatus string

const (
	ActionApplied ActionStatus = "applied"
	ActionNoop    ActionStatus = "noop"
	ActionBlocked ActionStatus = "blocked"
)

// RegistrationResult is the outcome of executeParticipantRegistration.
type RegistrationResult struct {
	Status    ExecutionStatus  `json:"status"`
	Call      *ExecutionCall   `json:"call,omitempty"`
	Reason    *RejectionReason `json:"reason,omitempty"`
	DerivedAt BlockAnchor      `json:"derived_at"`
}

// RebalanceResult is the outcome of executePortfolioRebalance.
type RebalanceResult struct {
	Status    ExecutionStatus  `json:"status"`
	Call      *ExecutionCall   `json:"call,omitempty"`
	Route     *RouteDescriptor `json:"route,omitempty"`
	Reason    *RejectionReason `json:"reason,omitempty"`
	DerivedAt BlockAnchor      `json:"derived_at"`
}

// ActionResult is the outcome of the settlement, reward-claim, and
// redemption executors.
type ActionResult struct {
	Status    ActionStatus     `json:"status"`
	Call      *ExecutionCall   `json:"call,omitempty"`
	Reason    *RejectionReason `json:"reason,omitempty"`
	DerivedAt BlockAnchor      `json:"derived_at"`
}
