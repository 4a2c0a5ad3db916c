package model

// ComponentKind names a pluggable contest component type.
type ComponentKind string

const (
	ComponentVaultImplementation ComponentKind = "vault-implementation"
	ComponentPriceSource         ComponentKind = "price-source"
)

// ComponentRecord is the registered state of an organizer-owned component.
// ConfigHash pins the configuration the component was registered with so a
// later contest deployment can detect drift.
type ComponentRecord struct {
	ID              uint64        `json:"id,omitempty"`
	Organizer       string        `json:"organizer"`
	Wallet          string        `json:"wallet"`
	ChainID         uint64        `json:"chain_id"`
	Kind            ComponentKind `json:"kind"`
	Label           string        `json:"label,omitempty"`
	Address         string        `json:"address"`
	ConfigHash      string        `json:"config_hash"`
	TxHash          string        `json:"tx_hash"`
	DeployedAtBlock uint64        `json:"deployed_at_block"`
	DeployedAt      string        `json:"deployed_at"`
}

// DeploymentStep records one confirmed step of a contest deployment bundle.
type DeploymentStep struct {
	Name           string `json:"name"`
	TxHash         string `json:"tx_hash"`
	BlockNumber    uint64 `json:"block_number"`
	BlockTimestamp uint64 `json:"block_timestamp"`
}

// DeploymentArtifact is the outcome of a contest deployment bundle. The
// RequestID is derived deterministically from the deployment seed so
// repeated submissions are traceable and comparable.
type DeploymentArtifact struct {
	RequestID           string           `json:"request_id"`
	Organizer           string           `json:"organizer"`
	ChainID             uint64           `json:"chain_id"`
	ContestAddress      string           `json:"contest_address"`
	VaultFactoryAddress string           `json:"vault_factory_address"`
	Steps               []DeploymentStep `json:"steps"`
}

// VaultReading is one vault's settled leaderboard inputs. NAV is a base-10
// integer string; ROI is in basis points.
type VaultReading struct {
	Vault   string `json:"vault"`
	Settled bool   `json:"settled"`
	NAV     string `json:"nav"`
	ROIBps  int64  `json:"roi_bps"`
}

// LeaderboardEntry is one ranked row of the prize leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Vault  string `json:"vault"`
	NAV    string `json:"nav"`
	ROIBps int64  `json:"roi_bps"`
}
