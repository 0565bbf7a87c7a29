package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies a webhook event kind.
type EventType string

const (
	EventStakeConfirmed      EventType = "stake_confirmed"
	EventStakeActivated      EventType = "stake_activated"
	EventValidatorDelinquent EventType = "validator_delinquent"
	EventStakeUnstaked       EventType = "stake_unstaked"
	EventRewardEarned        EventType = "reward_earned"
)

// KnownEventTypes lists every event type a subscription may register for.
var KnownEventTypes = []EventType{
	EventStakeConfirmed,
	EventStakeActivated,
	EventValidatorDelinquent,
	EventStakeUnstaked,
	EventRewardEarned,
}

// IsKnownEventType validates a raw event type string.
func IsKnownEventType(s string) bool {
	for _, et := range KnownEventTypes {
		if string(et) == s {
			return true
		}
	}
	return false
}

// Event is a domain event emitted by the monitor (or an out-of-scope
// producer reusing the same dispatcher). Data holds the payload struct
// matching Type; MarshalData is exhaustive over event kinds.
type Event struct {
	Type       EventType
	Data       any
	OccurredAt time.Time
}

// StakeConfirmedData is the payload for stake_confirmed.
type StakeConfirmedData struct {
	Signature    string    `json:"signature"`
	StakeAccount string    `json:"stake_account"`
	Owner        string    `json:"owner"`
	Validator    string    `json:"validator"`
	Lamports     uint64    `json:"lamports"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// StakeActivatedData is the payload for stake_activated.
type StakeActivatedData struct {
	Signature    string    `json:"signature"`
	StakeAccount string    `json:"stake_account"`
	Owner        string    `json:"owner"`
	Validator    string    `json:"validator"`
	Lamports     uint64    `json:"lamports"`
	ActivatedAt  time.Time `json:"activated_at"`
}

// ValidatorDelinquentData is the payload for validator_delinquent.
type ValidatorDelinquentData struct {
	Validator        string `json:"validator"`
	StakeAccount     string `json:"stake_account"`
	Owner            string `json:"owner"`
	DelinquentEpochs uint64 `json:"delinquent_epochs"`
}

// StakeUnstakedData is the payload for stake_unstaked.
type StakeUnstakedData struct {
	Signature    string    `json:"signature"`
	StakeAccount string    `json:"stake_account"`
	Owner        string    `json:"owner"`
	Lamports     uint64    `json:"lamports"`
	UnstakedAt   time.Time `json:"unstaked_at"`
}

// RewardEarnedData is the payload for reward_earned.
type RewardEarnedData struct {
	StakeAccount string `json:"stake_account"`
	Owner        string `json:"owner"`
	Validator    string `json:"validator"`
	Lamports     uint64 `json:"lamports"`
	Epoch        uint64 `json:"epoch"`
}

// MarshalData encodes the event payload, rejecting payloads whose shape does
// not match the event type.
func (e Event) MarshalData() (json.RawMessage, error) {
	var ok bool
	switch e.Type {
	case EventStakeConfirmed:
		_, ok = e.Data.(StakeConfirmedData)
	case EventStakeActivated:
		_, ok = e.Data.(StakeActivatedData)
	case EventValidatorDelinquent:
		_, ok = e.Data.(ValidatorDelinquentData)
	case EventStakeUnstaked:
		_, ok = e.Data.(StakeUnstakedData)
	case EventRewardEarned:
		_, ok = e.Data.(RewardEarnedData)
	default:
		return nil, fmt.Errorf("unknown event type: %s", e.Type)
	}
	if !ok {
		return nil, fmt.Errorf("payload type %T does not match event type %s", e.Data, e.Type)
	}
	return json.Marshal(e.Data)
}
