package events

import (
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Event type names
const (
	TypePhaseTransitionEvent = "icosale/PhaseTransitionEvent"
	TypeCommitmentEvent      = "icosale/CommitmentEvent"
	TypeTicketEvent          = "icosale/TicketEvent"
	TypeForfeitEvent         = "icosale/ForfeitEvent"
	TypeSaleAbortedEvent     = "icosale/SaleAbortedEvent"
)

type Event interface {
	Type() string
}

type Events []Event

// PhaseTransitionEvent records a successful phase machine transition.
type PhaseTransitionEvent struct {
	OldPhase string `json:"old_phase"`
	NewPhase string `json:"new_phase"`
}

func (e *PhaseTransitionEvent) Type() string { return TypePhaseTransitionEvent }

// CommitmentEvent records a settled contribution.
type CommitmentEvent struct {
	Address         types.Address `json:"address"`
	Amount          string        `json:"amount"`
	Currency        string        `json:"currency"`
	ReferenceAmount string        `json:"reference_amount"`
	Reward          string        `json:"reward"`
	RewardAsset     string        `json:"reward_asset"`
}

func (e *CommitmentEvent) Type() string { return TypeCommitmentEvent }

func (e *CommitmentEvent) AddressString() string { return e.Address.String() }

// TicketEvent records a priority reservation registered during Before.
type TicketEvent struct {
	Address         types.Address `json:"address"`
	Currency        string        `json:"currency"`
	ReferenceAmount string        `json:"reference_amount"`
	Reward          string        `json:"reward"`
}

func (e *TicketEvent) Type() string { return TypeTicketEvent }

func (e *TicketEvent) AddressString() string { return e.Address.String() }

// ForfeitEvent records the burn of reserved-but-unclaimed reward at a
// phase boundary.
type ForfeitEvent struct {
	Currency          string `json:"currency"`
	Reward            string `json:"reward"`
	ReferenceReleased string `json:"reference_released"`
}

func (e *ForfeitEvent) Type() string { return TypeForfeitEvent }

// SaleAbortedEvent records the one-way abort of the sale before start.
type SaleAbortedEvent struct {
	BurnedReward string `json:"burned_reward"`
}

func (e *SaleAbortedEvent) Type() string { return TypeSaleAbortedEvent }
