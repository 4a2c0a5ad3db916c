package model

// Timeline holds the announced contest schedule. Values are flexible
// timestamps: RFC3339 strings or unix numeric values as recorded on chain.
type Timeline struct {
	RegistrationOpensAt  string `json:"registration_opens_at,omitempty"`
	RegistrationClosesAt string `json:"registration_closes_at,omitempty"`
	TradingOpensAt       string `json:"trading_opens_at,omitempty"`
	TradingClosesAt      string `json:"trading_closes_at,omitempty"`
	SettlementAt         string `json:"settlement_at,omitempty"`
}

// RegistrationCapacity tracks how many participant slots are taken.
// MaxParticipants of zero means unbounded.
type RegistrationCapacity struct {
	MaxParticipants int `json:"max_participants"`
	Registered      int `json:"registered"`
}

// Full reports whether no registration slots remain.
func (c RegistrationCapacity) Full() bool {
	return c.MaxParticipants > 0 && c.Registered >= c.MaxParticipants
}

// RegistrationWindow bounds when registration is accepted. Either bound may
// be an RFC3339 string or a unix seconds/milliseconds numeric string.
type RegistrationWindow struct {
	OpensAt  string `json:"opens_at,omitempty"`
	ClosesAt string `json:"closes_at,omitempty"`
}

// RegistrationRequirement is the entry-fee approval a participant must have
// granted before registering.
type RegistrationRequirement struct {
	Token   string `json:"token"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// RegistrationSettings is everything the registration rules and the
// registration call template need.
type RegistrationSettings struct {
	Window      RegistrationWindow      `json:"window"`
	Requirement RegistrationRequirement `json:"requirement"`
	Template    *ExecutionCall          `json:"template,omitempty"`
	Approvals   []TokenApproval         `json:"approvals,omitempty"`
}

// RebalanceSettings is the contest-level rebalance policy configuration.
type RebalanceSettings struct {
	Whitelist             []string `json:"whitelist"`
	BaseAsset             string   `json:"base_asset"`
	QuoteAsset            string   `json:"quote_asset"`
	MaxTradeAmount        string   `json:"max_trade_amount"`
	CooldownSeconds       int64    `json:"cooldown_seconds"`
	PriceFreshnessSeconds int64    `json:"price_freshness_seconds"`
	PriceTimestamp        int64    `json:"price_timestamp"`
	PriceSource           string   `json:"price_source,omitempty"`
	Router                string   `json:"router"`
	DeadlineSeconds       int64    `json:"deadline_seconds"`
	SlippageBps           int64    `json:"slippage_bps"`
}

// WhitelistContains checks an asset against the rebalance whitelist,
// comparing lowercased addresses.
func (r RebalanceSettings) WhitelistContains(asset string) bool {
	want := NormalizeAddress(asset)
	for _, entry := range r.Whitelist {
		if NormalizeAddress(entry) == want {
			return true
		}
	}
	return false
}

// SettlementState is the operator-side settlement status of a contest.
type SettlementState struct {
	Executed      bool           `json:"executed"`
	Blocked       bool           `json:"blocked,omitempty"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	Call          *ExecutionCall `json:"call,omitempty"`
}

// RewardEntry is a participant's reward claim state.
type RewardEntry struct {
	Amount        string         `json:"amount"`
	Claimed       bool           `json:"claimed"`
	Blocked       bool           `json:"blocked,omitempty"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	Call          *ExecutionCall `json:"call,omitempty"`
}

// RedemptionEntry is a participant's principal redemption state.
type RedemptionEntry struct {
	Amount        string         `json:"amount"`
	Redeemed      bool           `json:"redeemed"`
	Blocked       bool           `json:"blocked,omitempty"`
	BlockedReason string         `json:"blocked_reason,omitempty"`
	Call          *ExecutionCall `json:"call,omitempty"`
}

// QualificationVerdict is the aggregate registration-rule outcome carried on
// a snapshot when the caller asked for qualification to be evaluated.
type QualificationVerdict struct {
	Status      PlanStatus `json:"status"`
	FailedRules []string   `json:"failed_rules,omitempty"`
}

// ParticipantProfile is the per-participant slice of a contest snapshot.
// Balance and allowance maps are keyed by lowercased token (and spender)
// address; amounts are base-10 integer strings.
type ParticipantProfile struct {
	Address         string                       `json:"address"`
	Registered      bool                         `json:"registered"`
	Vault           string                       `json:"vault,omitempty"`
	Balances        map[string]string            `json:"balances,omitempty"`
	Allowances      map[string]map[string]string `json:"allowances,omitempty"`
	CooldownEndsAt  int64                        `json:"cooldown_ends_at,omitempty"`
	LastRebalanceAt int64                        `json:"last_rebalance_at,omitempty"`
}

// AllowanceFor returns the participant's recorded allowance for a
// (token, spender) pair, defaulting to "0" when nothing is recorded.
func (p ParticipantProfile) AllowanceFor(token, spender string) string {
	spenders, ok := p.Allowances[NormalizeAddress(token)]
	if !ok {
		return "0"
	}
	amount, ok := spenders[NormalizeAddress(spender)]
	if !ok {
		return "0"
	}
	return amount
}

// BalanceOf returns the participant's recorded balance for a token,
// defaulting to "0".
func (p ParticipantProfile) BalanceOf(token string) string {
	amount, ok := p.Balances[NormalizeAddress(token)]
	if !ok {
		return "0"
	}
	return amount
}

// ContestDefinition is the aggregate contest snapshot produced by the data
// provider at a specific block. It is never cached or mutated by this module;
// every gateway operation reads a fresh one.
type ContestDefinition struct {
	Contest              ContestIdentifier             `json:"contest"`
	Phase                Phase                         `json:"phase"`
	Timeline             Timeline                      `json:"timeline"`
	PrizePool            string                        `json:"prize_pool"`
	RegistrationCapacity RegistrationCapacity          `json:"registration_capacity"`
	Qualification        *QualificationVerdict         `json:"qualification,omitempty"`
	DerivedAt            BlockAnchor                   `json:"derived_at"`
	Registration         RegistrationSettings          `json:"registration"`
	Rebalance            *RebalanceSettings            `json:"rebalance,omitempty"`
	Settlement           *SettlementState              `json:"settlement,omitempty"`
	Rewards              map[string]RewardEntry        `json:"rewards,omitempty"`
	Redemption           map[string]RedemptionEntry    `json:"redemption,omitempty"`
	Participants         map[string]ParticipantProfile `json:"participants,omitempty"`
	Events               []ContestEventEnvelope        `json:"events,omitempty"`
}

// ParticipantAt looks up a participant by lowercased address. Unknown
// addresses yield an unregistered zero-balance placeholder rather than an
// error.
func (d ContestDefinition) ParticipantAt(addr string) ParticipantProfile {
	key := NormalizeAddress(addr)
	if profile, ok := d.Participants[key]; ok {
		return profile
	}
	return ParticipantProfile{Address: key}
}

// RewardEntryFor returns the reward entry for a participant, if any.
func (d ContestDefinition) RewardEntryFor(addr string) (RewardEntry, bool) {
	entry, ok := d.Rewards[NormalizeAddress(addr)]
	return entry, ok
}

// RedemptionEntryFor returns the redemption entry for a participant, if any.
func (d ContestDefinition) RedemptionEntryFor(addr string) (RedemptionEntry, bool) {
	entry, ok := d.Redemption[NormalizeAddress(addr)]
	return entry, ok
}
