package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"contestScope/internal/model"
)

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func buildLogRecord(t *testing.T, topic0 common.Hash, indexed []common.Hash, data []byte, removed bool) model.ContestLogRecord {
	t.Helper()
	topics := []string{topic0.Hex()}
	for _, hash := range indexed {
		topics = append(topics, hash.Hex())
	}
	return model.ContestLogRecord{
		ChainID:     1,
		BlockNumber: 120,
		BlockHash:   "0xblock",
		TxHash:      "0xtx",
		LogIndex:    3,
		Address:     "0x1111111111111111111111111111111111111111",
		Topics:      topics,
		Data:        hexutil.Encode(data),
		Removed:     removed,
	}
}

func TestDecodeRegistered(t *testing.T) {
	parsed, err := ContestABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	participant := common.HexToAddress("0x2222222222222222222222222222222222222222")
	data, err := parsed.Events["Registered"].Inputs.NonIndexed().Pack(big.NewInt(1000))
	if err != nil {
		t.Fatalf("pack registered: %v", err)
	}

	record := buildLogRecord(t, parsed.Events["Registered"].ID,
		[]common.Hash{topicFromAddress(participant)}, data, false)

	if !decoder.CanDecode(record.Topics[0]) {
		t.Fatalf("Registered topic should be decodable")
	}

	anchor := model.BlockAnchor{BlockNumber: 120, Timestamp: 1700000000}
	env, err := decoder.Decode(record, anchor)
	if err != nil {
		t.Fatalf("decode registered: %v", err)
	}

	payload, ok := env.Payload.(model.RegisteredEventData)
	if !ok {
		t.Fatalf("payload type mismatch: %T", env.Payload)
	}
	if payload.Participant != participant.Hex() || payload.EntryFee != "1000" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
	if env.Cursor != (model.EventCursor{BlockNumber: 120, LogIndex: 3}) {
		t.Fatalf("cursor mismatch: %+v", env.Cursor)
	}
	if env.DerivedAt != anchor {
		t.Fatalf("anchor should be carried through")
	}
}

func TestDecodeRebalancedCarriesReorgFlag(t *testing.T) {
	parsed, err := ContestABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	participant := common.HexToAddress("0x2222222222222222222222222222222222222222")
	sell := common.HexToAddress("0x4444444444444444444444444444444444444444")
	buy := common.HexToAddress("0x5555555555555555555555555555555555555555")

	data, err := parsed.Events["Rebalanced"].Inputs.NonIndexed().Pack(
		big.NewInt(500), big.NewInt(497),
	)
	if err != nil {
		t.Fatalf("pack rebalanced: %v", err)
	}

	record := buildLogRecord(t, parsed.Events["Rebalanced"].ID,
		[]common.Hash{topicFromAddress(participant), topicFromAddress(sell), topicFromAddress(buy)},
		data, true)

	env, err := decoder.Decode(record, model.BlockAnchor{})
	if err != nil {
		t.Fatalf("decode rebalanced: %v", err)
	}
	if !env.ReorgFlag {
		t.Fatalf("removed logs must set the reorg flag")
	}

	payload := env.Payload.(model.RebalancedEventData)
	if payload.SellAsset != sell.Hex() || payload.BuyAsset != buy.Hex() {
		t.Fatalf("asset mismatch: %+v", payload)
	}
	if payload.AmountIn != "500" || payload.AmountOut != "497" {
		t.Fatalf("amount mismatch: %+v", payload)
	}
}

func TestDecodeSettledAndClaims(t *testing.T) {
	parsed, err := ContestABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	participant := common.HexToAddress("0x2222222222222222222222222222222222222222")

	settledData, err := parsed.Events["Settled"].Inputs.NonIndexed().Pack(
		big.NewInt(1000000), big.NewInt(25),
	)
	if err != nil {
		t.Fatalf("pack settled: %v", err)
	}
	env, err := decoder.Decode(buildLogRecord(t, parsed.Events["Settled"].ID, nil, settledData, false), model.BlockAnchor{})
	if err != nil {
		t.Fatalf("decode settled: %v", err)
	}
	settled := env.Payload.(model.SettledEventData)
	if settled.PrizePool != "1000000" || settled.VaultCount != "25" {
		t.Fatalf("settled payload mismatch: %+v", settled)
	}

	claimData, err := parsed.Events["RewardClaimed"].Inputs.NonIndexed().Pack(big.NewInt(777))
	if err != nil {
		t.Fatalf("pack claim: %v", err)
	}
	env, err = decoder.Decode(buildLogRecord(t, parsed.Events["RewardClaimed"].ID,
		[]common.Hash{topicFromAddress(participant)}, claimData, false), model.BlockAnchor{})
	if err != nil {
		t.Fatalf("decode claim: %v", err)
	}
	claim := env.Payload.(model.RewardClaimedEventData)
	if claim.Amount != "777" {
		t.Fatalf("claim payload mismatch: %+v", claim)
	}
}

func TestDecodeRejectsUnknownTopic(t *testing.T) {
	decoder, err := NewDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	record := model.ContestLogRecord{Topics: []string{"0xab00"}}
	if decoder.CanDecode(record.Topics[0]) {
		t.Fatalf("unknown topic should not be decodable")
	}
	if _, err := decoder.Decode(record, model.BlockAnchor{}); err == nil {
		t.Fatalf("expected decode error")
	}
}
