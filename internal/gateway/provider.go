package gateway

import (
	"context"
	"math/big"

	"contestScope/internal/model"
)

// LoadOptions tune one snapshot load. A nil BlockTag means latest.
type LoadOptions struct {
	BlockTag *big.Int
	RPCURL   string
}

// DataProvider assembles a fresh, already-consistent contest snapshot at a
// specific block tag. It is the only required upstream dependency; tests use
// the in-memory StaticProvider.
type DataProvider interface {
	LoadContestDefinition(ctx context.Context, contest model.ContestIdentifier, opts LoadOptions) (model.ContestDefinition, error)
}

// StaticProvider serves a fixed snapshot, optionally through a hook that can
// mutate or replace it per call. Used by tests and the developer CLI.
type StaticProvider struct {
	Definition model.ContestDefinition
	Hook       func(model.ContestDefinition) (model.ContestDefinition, error)
}

// LoadContestDefinition returns the fixture snapshot.
func (p *StaticProvider) LoadContestDefinition(_ context.Context, _ model.ContestIdentifier, _ LoadOptions) (model.ContestDefinition, error) {
	if p.Hook != nil {
		return p.Hook(p.Definition)
	}
	return p.Definition, nil
}
