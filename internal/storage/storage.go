package storage

import (
	"context"
	"errors"

	"contestScope/internal/model"
)

// ErrComponentNotFound is returned when a registry lookup misses.
var ErrComponentNotFound = errors.New("component not found")

// ComponentRegistry persists organizer component registrations so a later
// contest deployment can verify ownership and configuration drift.
type ComponentRegistry interface {
	PutComponent(ctx context.Context, record model.ComponentRecord) (model.ComponentRecord, error)
	GetComponent(ctx context.Context, chainID uint64, address string) (model.ComponentRecord, error)
	ListComponents(ctx context.Context, organizer string) ([]model.ComponentRecord, error)
}

// DeploymentJournal is an append-only sink for deployment artifacts.
type DeploymentJournal interface {
	AppendArtifact(artifact model.DeploymentArtifact) error
}
