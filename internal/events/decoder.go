package events

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"contestScope/internal/model"
)

// Decoder turns raw contest logs into typed event envelopes.
type Decoder struct {
	contestABI  abi.ABI
	topicToName map[string]string
}

// NewDecoder builds a contest log decoder.
func NewDecoder() (*Decoder, error) {
	parsed, err := ContestABI()
	if err != nil {
		return nil, err
	}

	topicToName := make(map[string]string, len(parsed.Events))
	for name, event := range parsed.Events {
		topicToName[strings.ToLower(event.ID.Hex())] = name
	}

	return &Decoder{contestABI: parsed, topicToName: topicToName}, nil
}

// CanDecode checks whether topic0 belongs to a contest event.
func (d *Decoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts one raw log into a ContestEventEnvelope. The log's removed
// flag becomes the envelope's reorg flag.
func (d *Decoder) Decode(log model.ContestLogRecord, anchor model.BlockAnchor) (*model.ContestEventEnvelope, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	var payload interface{}
	var err error
	switch name {
	case "Registered":
		payload, err = d.decodeRegistered(log)
	case "Rebalanced":
		payload, err = d.decodeRebalanced(log)
	case "Settled":
		payload, err = d.decodeSettled(log)
	case "RewardClaimed":
		payload, err = d.decodeRewardClaimed(log)
	case "Redeemed":
		payload, err = d.decodeRedeemed(log)
	default:
		err = fmt.Errorf("unsupported event name: %s", name)
	}
	if err != nil {
		return nil, err
	}

	return &model.ContestEventEnvelope{
		Type:        name,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.LogIndex,
		TxHash:      log.TxHash,
		Cursor:      model.EventCursor{BlockNumber: log.BlockNumber, LogIndex: log.LogIndex},
		Payload:     payload,
		ReorgFlag:   log.Removed,
		DerivedAt:   anchor,
	}, nil
}

func (d *Decoder) decodeRegistered(log model.ContestLogRecord) (model.RegisteredEventData, error) {
	event := d.contestABI.Events["Registered"]

	var indexed struct {
		Participant common.Address
	}
	if err := parseIndexed(event, log.Topics, &indexed); err != nil {
		return model.RegisteredEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.RegisteredEventData{}, err
	}
	if len(values) != 1 {
		return model.RegisteredEventData{}, fmt.Errorf("unexpected registered values: %d", len(values))
	}
	entryFee, err := asBigInt(values[0])
	if err != nil {
		return model.RegisteredEventData{}, err
	}

	return model.RegisteredEventData{
		Participant: indexed.Participant.Hex(),
		EntryFee:    entryFee.String(),
	}, nil
}

func (d *Decoder) decodeRebalanced(log model.ContestLogRecord) (model.RebalancedEventData, error) {
	event := d.contestABI.Events["Rebalanced"]

	var indexed struct {
		Participant common.Address
		SellAsset   common.Address
		BuyAsset    common.Address
	}
	if err := parseIndexed(event, log.Topics, &indexed); err != nil {
		return model.RebalancedEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.RebalancedEventData{}, err
	}
	if len(values) != 2 {
		return model.RebalancedEventData{}, fmt.Errorf("unexpected rebalanced values: %d", len(values))
	}
	amountIn, err := asBigInt(values[0])
	if err != nil {
		return model.RebalancedEventData{}, err
	}
	amountOut, err := asBigInt(values[1])
	if err != nil {
		return model.RebalancedEventData{}, err
	}

	return model.RebalancedEventData{
		Participant: indexed.Participant.Hex(),
		SellAsset:   indexed.SellAsset.Hex(),
		BuyAsset:    indexed.BuyAsset.Hex(),
		AmountIn:    amountIn.String(),
		AmountOut:   amountOut.String(),
	}, nil
}

func (d *Decoder) decodeSettled(log model.ContestLogRecord) (model.SettledEventData, error) {
	event := d.contestABI.Events["Settled"]

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.SettledEventData{}, err
	}
	if len(values) != 2 {
		return model.SettledEventData{}, fmt.Errorf("unexpected settled values: %d", len(values))
	}
	prizePool, err := asBigInt(values[0])
	if err != nil {
		return model.SettledEventData{}, err
	}
	vaultCount, err := asBigInt(values[1])
	if err != nil {
		return model.SettledEventData{}, err
	}

	return model.SettledEventData{
		PrizePool:  prizePool.String(),
		VaultCount: vaultCount.String(),
	}, nil
}

func (d *Decoder) decodeRewardClaimed(log model.ContestLogRecord) (model.RewardClaimedEventData, error) {
	event := d.contestABI.Events["RewardClaimed"]

	var indexed struct {
		Participant common.Address
	}
	if err := parseIndexed(event, log.Topics, &indexed); err != nil {
		return model.RewardClaimedEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.RewardClaimedEventData{}, err
	}
	if len(values) != 1 {
		return model.RewardClaimedEventData{}, fmt.Errorf("unexpected reward values: %d", len(values))
	}
	amount, err := asBigInt(values[0])
	if err != nil {
		return model.RewardClaimedEventData{}, err
	}

	return model.RewardClaimedEventData{
		Participant: indexed.Participant.Hex(),
		Amount:      amount.String(),
	}, nil
}

func (d *Decoder) decodeRedeemed(log model.ContestLogRecord) (model.RedeemedEventData, error) {
	event := d.contestABI.Events["Redeemed"]

	var indexed struct {
		Participant common.Address
	}
	if err := parseIndexed(event, log.Topics, &indexed); err != nil {
		return model.RedeemedEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.RedeemedEventData{}, err
	}
	if len(values) != 1 {
		return model.RedeemedEventData{}, fmt.Errorf("unexpected redeemed values: %d", len(values))
	}
	amount, err := asBigInt(values[0])
	if err != nil {
		return model.RedeemedEventData{}, err
	}

	return model.RedeemedEventData{
		Participant: indexed.Participant.Hex(),
		Amount:      amount.String(),
	}, nil
}

func parseIndexed(event abi.Event, topics []string, out interface{}) error {
	indexedArgs := indexedArguments(event.Inputs)
	if len(topics) != len(indexedArgs)+1 {
		return fmt.Errorf("expected %d topics, got %d", len(indexedArgs)+1, len(topics))
	}
	hashes, err := parseTopicHashes(topics[1:])
	if err != nil {
		return err
	}
	if err := abi.ParseTopics(out, indexedArgs, hashes); err != nil {
		return fmt.Errorf("parse topics: %w", err)
	}
	return nil
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) > 32 {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func unpackNonIndexed(event abi.Event, dataHex string) ([]interface{}, error) {
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return values, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	cast, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected *big.Int, got %T", value)
	}
	return cast, nil
}
