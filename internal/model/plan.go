package model

// PlanStatus is the overall verdict of a plan evaluation.
type PlanStatus string

const (
	PlanReady   PlanStatus = "ready"
	PlanBlocked PlanStatus = "blocked"
)

// PolicyCheck is one named rule outcome inside a plan. Every configured rule
// appears in the list whether it passed or not.
type PolicyCheck struct {
	ID     string `json:"id"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// TokenApproval is one required ERC20 approval: the participant must have
// approved Spender to move at least Amount of Token.
type TokenApproval struct {
	Token   string `json:"token"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// RejectionReason explains why a plan is blocked or an execution became a
// noop. Code values come from the rejection-code constants below or from the
// ErrorCode set.
type RejectionReason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RuleID  string `json:"rule_id,omitempty"`
}

// Rejection codes surfaced in plans. These are plan-level outcomes, not
// thrown errors.
const (
	ReasonPhaseInvalid         = "REGISTRATION_PHASE_INVALID"
	ReasonCapacityFull         = "REGISTRATION_CAPACITY_FULL"
	ReasonAlreadyCompleted     = "REGISTRATION_ALREADY_COMPLETED"
	ReasonInsufficientApproval = "INSUFFICIENT_ALLOWANCE"
)

// ExecutionCall is the exact unsigned transaction a collaborator must sign
// and submit. This module never signs or broadcasts it. Numeric fields are
// base-10 integer strings.
type ExecutionCall struct {
	To                   string `json:"to"`
	Data                 string `json:"data"`
	Value                string `json:"value,omitempty"`
	GasLimit             string `json:"gas_limit,omitempty"`
	MaxFeePerGas         string `json:"max_fee_per_gas,omitempty"`
	MaxPriorityFeePerGas string `json:"max_priority_fee_per_gas,omitempty"`
	Deadline             int64  `json:"deadline,omitempty"`
}

// RouteStep is one hop of a planned swap.
type RouteStep struct {
	Action    string `json:"action"`
	Pool      string `json:"pool,omitempty"`
	TokenIn   string `json:"token_in"`
	TokenOut  string `json:"token_out"`
	AmountIn  string `json:"amount_in"`
	MinOut    string `json:"min_out,omitempty"`
}

// RouteDescriptor describes the planned swap route. It is echoed in both the
// plan and the execution result so a caller can re-validate a previously
// shown route before confirming.
type RouteDescriptor struct {
	Steps       []RouteStep       `json:"steps"`
	MinimumOut  string            `json:"minimum_out"`
	SlippageBps int64             `json:"slippage_bps"`
	ExpiresAt   int64             `json:"expires_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RebalanceIntent is the participant's requested swap.
type RebalanceIntent struct {
	SellAsset string `json:"sell_asset"`
	BuyAsset  string `json:"buy_asset"`
	Amount    string `json:"amount"`
}

// RegistrationPlan is the pure preview of a registration attempt.
type RegistrationPlan struct {
	Status            PlanStatus       `json:"status"`
	Checks            []PolicyCheck    `json:"checks"`
	RequiredApprovals []TokenApproval  `json:"required_approvals"`
	RegistrationCall  *ExecutionCall   `json:"registration_call,omitempty"`
	RejectionReason   *RejectionReason `json:"rejection_reason,omitempty"`
	DerivedAt         BlockAnchor      `json:"derived_at"`
}

// RebalancePlan is the pure preview of a portfolio rebalance.
type RebalancePlan struct {
	Status            PlanStatus       `json:"status"`
	Checks            []PolicyCheck    `json:"checks"`
	RequiredApprovals []TokenApproval  `json:"required_approvals"`
	Route             *RouteDescriptor `json:"route,omitempty"`
	RebalanceCall     *ExecutionCall   `json:"rebalance_call,omitempty"`
	RejectionReason   *RejectionReason `json:"rejection_reason,omitempty"`
	DerivedAt         BlockAnchor      `json:"derived_at"`
}
