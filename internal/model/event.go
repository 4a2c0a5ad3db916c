package model

// EventCursor totally orders contest events by (block number, log index).
type EventCursor struct {
	BlockNumber uint64 `json:"block_number"`
	LogIndex    uint64 `json:"log_index"`
}

// Compare orders two cursors: -1 if c precedes other, 0 if equal, 1 after.
func (c EventCursor) Compare(other EventCursor) int {
	if c.BlockNumber != other.BlockNumber {
		if c.BlockNumber < other.BlockNumber {
			return -1
		}
		return 1
	}
	if c.LogIndex != other.LogIndex {
		if c.LogIndex < other.LogIndex {
			return -1
		}
		return 1
	}
	return 0
}

// After reports whether c strictly follows other.
func (c EventCursor) After(other EventCursor) bool {
	return c.Compare(other) > 0
}

// ContestEventEnvelope is one decoded contest event. ReorgFlag marks
// envelopes whose underlying chain data was later revised; callers use it to
// suppress or replay previously applied side effects.
type ContestEventEnvelope struct {
	Type        string      `json:"type"`
	BlockNumber uint64      `json:"block_number"`
	LogIndex    uint64      `json:"log_index"`
	TxHash      string      `json:"tx_hash"`
	Cursor      EventCursor `json:"cursor"`
	Payload     interface{} `json:"payload,omitempty"`
	ReorgFlag   bool        `json:"reorg_flag,omitempty"`
	DerivedAt   BlockAnchor `json:"derived_at"`
}

// ContestEventBatch is one page of the resumable event stream. NextCursor is
// always safe to feed back into the next pull.
type ContestEventBatch struct {
	Events      []ContestEventEnvelope `json:"events"`
	NextCursor  EventCursor            `json:"next_cursor"`
	LatestBlock uint64                 `json:"latest_block"`
}

// Decoded contest event payloads.

// RegisteredEventData is the payload of a Registered log.
type RegisteredEventData struct {
	Participant string `json:"participant"`
	EntryFee    string `json:"entry_fee"`
}

// RebalancedEventData is the payload of a Rebalanced log.
type RebalancedEventData struct {
	Participant string `json:"participant"`
	SellAsset   string `json:"sell_asset"`
	BuyAsset    string `json:"buy_asset"`
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
}

// SettledEventData is the payload of a Settled log.
type SettledEventData struct {
	PrizePool  string `json:"prize_pool"`
	VaultCount string `json:"vault_count"`
}

// RewardClaimedEventData is the payload of a RewardClaimed log.
type RewardClaimedEventData struct {
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
}

// RedeemedEventData is the payload of a Redeemed log.
type RedeemedEventData struct {
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
}
