package gateway

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"contestScope/internal/events"
	"contestScope/internal/metrics"
	"contestScope/internal/model"
	"contestScope/internal/policy"
	"contestScope/internal/route"
)

// Gateway method names, used as the error source tag.
const (
	opDescribeLifecycle   = "describeContestLifecycle"
	opPlanRegistration    = "planParticipantRegistration"
	opExecuteRegistration = "executeParticipantRegistration"
	opPlanRebalance       = "planPortfolioRebalance"
	opExecuteRebalance    = "executePortfolioRebalance"
	opExecuteSettlement   = "executeContestSettlement"
	opExecuteRewardClaim  = "executeRewardClaim"
	opExecuteRedemption   = "executePrincipalRedemption"
	opPullEvents          = "pullContestEvents"
)

// Config wires the gateway's collaborators. Provider is required; everything
// else has a sensible default.
type Config struct {
	Provider     DataProvider
	Planner      *route.Planner
	Validator    RequestValidator
	Logger       *zap.Logger
	Metrics      *metrics.Collector
	PriceReader  policy.PriceReader
	ErrorMapping *ErrorMapping
	Now          func() time.Time
}

// Gateway is the single façade over snapshot loading, policy evaluation, and
// transaction construction. Within one call the snapshot is loaded exactly
// once; across calls no ordering is guaranteed, which is what makes the
// execute operations safe to retry.
type Gateway struct {
	provider    DataProvider
	planner     *route.Planner
	validator   RequestValidator
	logger      *zap.Logger
	metrics     *metrics.Collector
	priceReader policy.PriceReader
	errMap      ErrorMapping
	now         func() time.Time
}

// New builds a Gateway from its configuration.
func New(cfg Config) (*Gateway, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if cfg.Planner == nil {
		cfg.Planner = route.NewPlanner()
	}
	if cfg.Validator == nil {
		cfg.Validator = NewBasicValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	errMap := DefaultErrorMapping()
	if cfg.ErrorMapping != nil {
		errMap = *cfg.ErrorMapping
	}
	return &Gateway{
		provider:    cfg.Provider,
		planner:     cfg.Planner,
		validator:   cfg.Validator,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		priceReader: cfg.PriceReader,
		errMap:      errMap,
		now:         cfg.Now,
	}, nil
}

// DescribeOptions tune describeContestLifecycle.
type DescribeOptions struct {
	BlockTag             *big.Int
	IncludeQualification bool
}

// EventQuery selects a page of the contest event stream.
type EventQuery struct {
	BlockTag  *big.Int
	Cursor    *model.EventCursor
	FromBlock uint64
	ToBlock   uint64
	Limit     int
}

// DescribeContestLifecycle returns a fresh snapshot, optionally populating
// the qualification verdict by re-running the registration rules for the
// caller without building a transaction.
func (g *Gateway) DescribeContestLifecycle(
	ctx context.Context,
	contest model.ContestIdentifier,
	caller string,
	opts DescribeOptions,
) (model.ContestDefinition, error) {
	started := g.now()
	def, err := g.describe(ctx, contest, caller, opts)
	if err != nil {
		return model.ContestDefinition{}, g.fail(opDescribeLifecycle, started, err)
	}
	g.observe(opDescribeLifecycle, "ok", started)
	return def, nil
}

func (g *Gateway) describe(
	ctx context.Context,
	contest model.ContestIdentifier,
	caller string,
	opts DescribeOptions,
) (model.ContestDefinition, error) {
	if err := g.validator.ValidateRequest(opDescribeLifecycle, contest, caller); err != nil {
		return model.ContestDefinition{}, err
	}
	def, err := g.provider.LoadContestDefinition(ctx, contest, LoadOptions{BlockTag: opts.BlockTag})
	if err != nil {
		return model.ContestDefinition{}, err
	}
	if opts.IncludeQualification {
		verdict := policy.EvaluateRegistration(def, caller, g.now())
		status := model.PlanReady
		if !verdict.Passed {
			status = model.PlanBlocked
		}
		def.Qualification = &model.QualificationVerdict{
			Status:      status,
			FailedRules: policy.FailedRuleIDs(verdict.Checks),
		}
	}
	return def, nil
}

// PlanParticipantRegistration previews a registration attempt. Plans are
// pure values: the same snapshot yields the same plan.
func (g *Gateway) PlanParticipantRegistration(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	blockTag *big.Int,
) (model.RegistrationPlan, error) {
	started := g.now()
	plan, err := g.planRegistration(ctx, opPlanRegistration, contest, participant, blockTag)
	if err != nil {
		return model.RegistrationPlan{}, g.fail(opPlanRegistration, started, err)
	}
	g.observe(opPlanRegistration, string(plan.Status), started)
	return plan, nil
}

func (g *Gateway) planRegistration(
	ctx context.Context,
	op string,
	contest model.ContestIdentifier,
	participant string,
	blockTag *big.Int,
) (model.RegistrationPlan, error) {
	if err := g.validator.ValidateRequest(op, contest, participant); err != nil {
		return model.RegistrationPlan{}, err
	}
	def, err := g.provider.LoadContestDefinition(ctx, contest, LoadOptions{BlockTag: blockTag})
	if err != nil {
		return model.RegistrationPlan{}, err
	}

	verdict := policy.EvaluateRegistration(def, participant, g.now())
	plan := model.RegistrationPlan{
		Status:            model.PlanBlocked,
		Checks:            verdict.Checks,
		RequiredApprovals: verdict.MissingApprovals,
		RejectionReason:   verdict.Reason,
		DerivedAt:         def.DerivedAt,
	}
	if verdict.Passed {
		plan.Status = model.PlanReady
		plan.RegistrationCall = def.Registration.Template
	}
	return plan, nil
}

// ExecuteParticipantRegistration re-derives the registration plan from a
// fresh snapshot and either returns the transaction or a noop when the plan
// is no longer ready.
func (g *Gateway) ExecuteParticipantRegistration(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	blockTag *big.Int,
) (model.RegistrationResult, error) {
	started := g.now()
	plan, err := g.planRegistration(ctx, opExecuteRegistration, contest, participant, blockTag)
	if err != nil {
		return model.RegistrationResult{}, g.fail(opExecuteRegistration, started, err)
	}

	result := model.RegistrationResult{DerivedAt: plan.DerivedAt}
	if plan.Status == model.PlanReady {
		result.Status = model.ExecutionExecuted
		result.Call = plan.RegistrationCall
	} else {
		result.Status = model.ExecutionNoop
		result.Reason = plan.RejectionReason
	}
	g.observe(opExecuteRegistration, string(result.Status), started)
	return result, nil
}

// PlanPortfolioRebalance previews a rebalance, including the swap route when
// every rule passes.
func (g *Gateway) PlanPortfolioRebalance(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	intent model.RebalanceIntent,
	blockTag *big.Int,
) (model.RebalancePlan, error) {
	started := g.now()
	plan, err := g.planRebalance(ctx, opPlanRebalance, contest, participant, intent, blockTag)
	if err != nil {
		return model.RebalancePlan{}, g.fail(opPlanRebalance, started, err)
	}
	g.observe(opPlanRebalance, string(plan.Status), started)
	return plan, nil
}

func (g *Gateway) planRebalance(
	ctx context.Context,
	op string,
	contest model.ContestIdentifier,
	participant string,
	intent model.RebalanceIntent,
	blockTag *big.Int,
) (model.RebalancePlan, error) {
	if err := g.validator.ValidateRequest(op, contest, participant); err != nil {
		return model.RebalancePlan{}, err
	}
	def, err := g.provider.LoadContestDefinition(ctx, contest, LoadOptions{BlockTag: blockTag})
	if err != nil {
		return model.RebalancePlan{}, err
	}

	verdict := policy.EvaluateRebalance(ctx, def, participant, intent, g.now(), g.priceReader)
	plan := model.RebalancePlan{
		Status:            model.PlanBlocked,
		Checks:            verdict.Checks,
		RequiredApprovals: verdict.MissingApprovals,
		RejectionReason:   verdict.Reason,
		DerivedAt:         def.DerivedAt,
	}
	if !verdict.Passed {
		return plan, nil
	}

	descriptor, call, err := g.planner.BuildRoute(def, participant, intent)
	if err != nil {
		return model.RebalancePlan{}, err
	}
	plan.Status = model.PlanReady
	plan.Route = &descriptor
	plan.RebalanceCall = &call
	return plan, nil
}

// ExecutePortfolioRebalance re-derives the rebalance plan from a fresh
// snapshot; a plan that is no longer ready becomes a noop, never an error.
func (g *Gateway) ExecutePortfolioRebalance(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	intent model.RebalanceIntent,
	blockTag *big.Int,
) (model.RebalanceResult, error) {
	started := g.now()
	plan, err := g.planRebalance(ctx, opExecuteRebalance, contest, participant, intent, blockTag)
	if err != nil {
		return model.RebalanceResult{}, g.fail(opExecuteRebalance, started, err)
	}

	result := model.RebalanceResult{DerivedAt: plan.DerivedAt}
	if plan.Status == model.PlanReady {
		result.Status = model.ExecutionExecuted
		result.Call = plan.RebalanceCall
		result.Route = plan.Route
	} else {
		result.Status = model.ExecutionNoop
		result.Reason = plan.RejectionReason
	}
	g.observe(opExecuteRebalance, string(result.Status), started)
	return result, nil
}

// ExecuteContestSettlement runs the settlement guard against fresh state.
// Racing callers are safe: whoever lands first flips the chain state and the
// loser observes a noop.
func (g *Gateway) ExecuteContestSettlement(
	ctx context.Context,
	contest model.ContestIdentifier,
	caller string,
	blockTag *big.Int,
) (model.ActionResult, error) {
	return g.executeGuarded(ctx, opExecuteSettlement, contest, caller, blockTag,
		func(def model.ContestDefinition) policy.GuardVerdict {
			return policy.EvaluateSettlementGuard(def)
		})
}

// ExecuteRewardClaim runs the reward guard for the caller against fresh
// state.
func (g *Gateway) ExecuteRewardClaim(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	blockTag *big.Int,
) (model.ActionResult, error) {
	return g.executeGuarded(ctx, opExecuteRewardClaim, contest, participant, blockTag,
		func(def model.ContestDefinition) policy.GuardVerdict {
			return policy.EvaluateRewardGuard(def, participant)
		})
}

// ExecutePrincipalRedemption runs the redemption guard for the caller
// against fresh state.
func (g *Gateway) ExecutePrincipalRedemption(
	ctx context.Context,
	contest model.ContestIdentifier,
	participant string,
	blockTag *big.Int,
) (model.ActionResult, error) {
	return g.executeGuarded(ctx, opExecuteRedemption, contest, participant, blockTag,
		func(def model.ContestDefinition) policy.GuardVerdict {
			return policy.EvaluateRedemptionGuard(def, participant)
		})
}

func (g *Gateway) executeGuarded(
	ctx context.Context,
	op string,
	contest model.ContestIdentifier,
	caller string,
	blockTag *big.Int,
	guard func(model.ContestDefinition) policy.GuardVerdict,
) (model.ActionResult, error) {
	started := g.now()

	if err := g.validator.ValidateRequest(op, contest, caller); err != nil {
		return model.ActionResult{}, g.fail(op, started, err)
	}
	def, err := g.provider.LoadContestDefinition(ctx, contest, LoadOptions{BlockTag: blockTag})
	if err != nil {
		return model.ActionResult{}, g.fail(op, started, err)
	}

	verdict := guard(def)
	result := model.ActionResult{DerivedAt: def.DerivedAt, Reason: verdict.Reason}
	switch verdict.Status {
	case policy.GuardReady:
		result.Status = model.ActionApplied
		result.Call = verdict.Call
	case policy.GuardNoop:
		result.Status = model.ActionNoop
	default:
		result.Status = model.ActionBlocked
	}
	g.observe(op, string(result.Status), started)
	return result, nil
}

// PullContestEvents pages through the contest's decoded event stream in
// (blockNumber, logIndex) order.
func (g *Gateway) PullContestEvents(
	ctx context.Context,
	contest model.ContestIdentifier,
	query EventQuery,
) (model.ContestEventBatch, error) {
	started := g.now()

	if err := g.validator.ValidateRequest(opPullEvents, contest, ""); err != nil {
		return model.ContestEventBatch{}, g.fail(opPullEvents, started, err)
	}
	def, err := g.provider.LoadContestDefinition(ctx, contest, LoadOptions{BlockTag: query.BlockTag})
	if err != nil {
		return model.ContestEventBatch{}, g.fail(opPullEvents, started, err)
	}

	batch := events.Paginate(def.Events, events.Query{
		Cursor:    query.Cursor,
		FromBlock: query.FromBlock,
		ToBlock:   query.ToBlock,
		Limit:     query.Limit,
	})
	g.observe(opPullEvents, "ok", started)
	return batch, nil
}

// fail normalizes and logs an error. The logger runs best-effort: a broken
// logger never masks the real failure.
func (g *Gateway) fail(op string, started time.Time, err error) error {
	cerr := Normalize(g.errMap, err, op)
	func() {
		defer func() { _ = recover() }()
		g.logger.Error("gateway operation failed",
			zap.String("operation", op),
			zap.String("code", string(cerr.Code)),
			zap.Bool("retryable", cerr.Retryable),
			zap.String("message", cerr.Message),
		)
	}()
	g.observe(op, "error", started)
	return cerr
}

func (g *Gateway) observe(op, outcome string, started time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.Observe(op, outcome, g.now().Sub(started))
}
