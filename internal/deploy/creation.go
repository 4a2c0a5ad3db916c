package deploy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"contestScope/internal/model"
	"contestScope/internal/storage"
)

// ComponentReference names a previously registered component in a contest
// deployment payload, together with the configuration the organizer claims
// it still runs with.
type ComponentReference struct {
	Address string            `json:"address"`
	Config  map[string]string `json:"config"`
}

// DeploymentPayload is an organizer's request to deploy a contest bundle.
type DeploymentPayload struct {
	Label               string             `json:"label"`
	Salt                string             `json:"salt,omitempty"`
	VaultImplementation ComponentReference `json:"vaultImplementation"`
	PriceSource         ComponentReference `json:"priceSource"`
	ContestArgs         string             `json:"contestArgs,omitempty"`
	InitializeData      string             `json:"initializeData,omitempty"`
}

// CreationGateway provisions organizer components and contest bundles. It
// enforces that every component referenced by a bundle is still owned by the
// requesting organizer and still carries the configuration it was registered
// with.
type CreationGateway struct {
	runtime  *Runtime
	registry storage.ComponentRegistry
	journal  storage.DeploymentJournal
	logger   *zap.Logger
}

func NewCreationGateway(runtime *Runtime, registry storage.ComponentRegistry, journal storage.DeploymentJournal, logger *zap.Logger) (*CreationGateway, error) {
	if runtime == nil {
		return nil, fmt.Errorf("runtime is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("component registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreationGateway{runtime: runtime, registry: registry, journal: journal, logger: logger}, nil
}

// RegisterOrganizerComponent deploys a component for an organizer and
// records it so later contest deployments can verify it.
func (g *CreationGateway) RegisterOrganizerComponent(ctx context.Context, organizer, wallet string, chainID uint64, spec ComponentSpec) (model.ComponentRecord, error) {
	if spec.Kind != model.ComponentVaultImplementation && spec.Kind != model.ComponentPriceSource {
		return model.ComponentRecord{}, model.NewChainError(model.CodeValidationFailed,
			fmt.Sprintf("unknown component kind %q", spec.Kind)).WithSource("registerOrganizerComponent")
	}

	record, err := g.runtime.DeployComponent(ctx, chainID, spec)
	if err != nil {
		return model.ComponentRecord{}, err
	}
	record.Organizer = model.NormalizeAddress(organizer)
	record.Wallet = model.NormalizeAddress(wallet)

	stored, err := g.registry.PutComponent(ctx, record)
	if err != nil {
		return model.ComponentRecord{}, fmt.Errorf("record component: %w", err)
	}
	g.logger.Info("component registered",
		zap.String("organizer", stored.Organizer),
		zap.String("kind", string(stored.Kind)),
		zap.String("address", stored.Address))
	return stored, nil
}

// ExecuteContestDeployment validates the referenced components, then runs
// the three-step contest bundle. Each step is confirmed before the next one
// is submitted.
func (g *CreationGateway) ExecuteContestDeployment(ctx context.Context, organizer string, chainID uint64, payload DeploymentPayload) (model.DeploymentArtifact, error) {
	organizer = model.NormalizeAddress(organizer)

	refs := []struct {
		kind model.ComponentKind
		ref  ComponentReference
	}{
		{model.ComponentVaultImplementation, payload.VaultImplementation},
		{model.ComponentPriceSource, payload.PriceSource},
	}
	for _, entry := range refs {
		if err := g.verifyComponent(ctx, organizer, chainID, entry.kind, entry.ref); err != nil {
			return model.DeploymentArtifact{}, err
		}
	}

	requestID := deriveRequestID(organizer, chainID, payload)
	artifact := model.DeploymentArtifact{
		RequestID: requestID,
		Organizer: organizer,
		ChainID:   chainID,
	}

	contestStep, contestAddr, err := g.runtime.deployStep(ctx, chainID, "deploy-contest", "contest", []byte(payload.ContestArgs))
	if err != nil {
		return model.DeploymentArtifact{}, err
	}
	artifact.ContestAddress = contestAddr
	artifact.Steps = append(artifact.Steps, contestStep)

	factoryStep, factoryAddr, err := g.runtime.deployStep(ctx, chainID, "deploy-vault-factory", "vault-factory", []byte(contestAddr))
	if err != nil {
		return model.DeploymentArtifact{}, err
	}
	artifact.VaultFactoryAddress = factoryAddr
	artifact.Steps = append(artifact.Steps, factoryStep)

	initStep, _, err := g.runtime.submitStep(ctx, chainID, "initialize", model.ExecutionCall{
		To:   contestAddr,
		Data: payload.InitializeData,
	})
	if err != nil {
		return model.DeploymentArtifact{}, err
	}
	artifact.Steps = append(artifact.Steps, initStep)

	if g.journal != nil {
		if err := g.journal.AppendArtifact(artifact); err != nil {
			// The deployment already succeeded on chain; losing the journal
			// line is not worth surfacing as a failed deployment.
			g.logger.Warn("journal append failed", zap.String("requestId", requestID), zap.Error(err))
		}
	}

	g.logger.Info("contest deployed",
		zap.String("requestId", requestID),
		zap.String("contest", artifact.ContestAddress),
		zap.String("vaultFactory", artifact.VaultFactoryAddress))
	return artifact, nil
}

// verifyComponent enforces ownership and configuration drift checks before
// a component may participate in a contest bundle.
func (g *CreationGateway) verifyComponent(ctx context.Context, organizer string, chainID uint64, kind model.ComponentKind, ref ComponentReference) error {
	if ref.Address == "" {
		return model.NewChainError(model.CodeValidationFailed,
			fmt.Sprintf("%s address is required", kind)).WithSource("executeContestDeployment")
	}

	record, err := g.registry.GetComponent(ctx, chainID, ref.Address)
	if err != nil {
		if errors.Is(err, storage.ErrComponentNotFound) {
			return model.NewChainError(model.CodeAuthorizationRequired,
				fmt.Sprintf("%s %s is not a registered component", kind, ref.Address)).
				WithSource("executeContestDeployment")
		}
		return fmt.Errorf("lookup %s: %w", kind, err)
	}
	if record.Kind != kind {
		return model.NewChainError(model.CodeValidationFailed,
			fmt.Sprintf("%s is registered as %s", ref.Address, record.Kind)).
			WithSource("executeContestDeployment")
	}
	if record.Organizer != organizer {
		return model.NewChainError(model.CodeAuthorizationRequired,
			fmt.Sprintf("%s %s is not owned by %s", kind, ref.Address, organizer)).
			WithSource("executeContestDeployment")
	}
	if HashConfig(ref.Config) != record.ConfigHash {
		return model.NewChainError(model.CodeValidationFailed,
			fmt.Sprintf("%s %s configuration does not match its registration", kind, ref.Address)).
			WithSource("executeContestDeployment")
	}
	return nil
}

// deriveRequestID hashes the stable deployment seed so that resubmitting
// the same payload yields the same id.
func deriveRequestID(organizer string, chainID uint64, payload DeploymentPayload) string {
	seed := strings.Join([]string{
		organizer,
		strconv.FormatUint(chainID, 10),
		payload.Label,
		payload.Salt,
		model.NormalizeAddress(payload.VaultImplementation.Address),
		model.NormalizeAddress(payload.PriceSource.Address),
		payload.ContestArgs,
		payload.InitializeData,
	}, "|")
	return hexutil.Encode(crypto.Keccak256([]byte(seed)))
}
