package model

import "strings"

// Phase is the lifecycle phase of a contest.
type Phase string

const (
	PhaseDraft       Phase = "draft"
	PhaseRegistering Phase = "registering"
	PhaseLive        Phase = "live"
	PhaseSettling    Phase = "settling"
	PhaseSettled     Phase = "settled"
	PhaseClosed      Phase = "closed"
)

// ContestAddresses lists the deployed contracts backing one contest.
// Only the registrar is mandatory; the rest depend on the gateway version.
type ContestAddresses struct {
	Registrar  string `json:"registrar"`
	Treasury   string `json:"treasury,omitempty"`
	Settlement string `json:"settlement,omitempty"`
	Rewards    string `json:"rewards,omitempty"`
	Redemption string `json:"redemption,omitempty"`
	Oracle     string `json:"oracle,omitempty"`
	Policy     string `json:"policy,omitempty"`
}

// ContestIdentifier is the immutable identity of a contest instance.
type ContestIdentifier struct {
	ContestID      string           `json:"contest_id"`
	ChainID        uint64           `json:"chain_id"`
	GatewayVersion string           `json:"gateway_version,omitempty"`
	Addresses      ContestAddresses `json:"addresses"`
}

// BlockAnchor records the chain state a snapshot or result was derived from.
type BlockAnchor struct {
	BlockNumber uint64 `json:"block_number"`
	BlockHash   string `json:"block_hash"`
	Timestamp   uint64 `json:"timestamp"`
}

// NormalizeAddress lowercases an address for use as a map key.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
