package events

import (
	"testing"

	"github.com/KSingh1980/ico-contracts/core/types"
	db "github.com/tendermint/tm-db"
)

func TestIEventsDB(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	{
		event := &TicketEvent{
			Address:         types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1"),
			Currency:        types.CurrencyEther.String(),
			ReferenceAmount: "111497225000000000000",
			Reward:          "724731962500000000000",
		}
		store.AddEvent(1, event)
	}
	{
		event := &CommitmentEvent{
			Address:         types.HexToAddress("0x18467bbb64a8edf890201d526c35957d82be3d95"),
			Amount:          "891977800000000000000",
			Currency:        types.CurrencyEuro.String(),
			ReferenceAmount: "891977800000000000000",
			Reward:          "5797855700000000000000",
			RewardAsset:     "ICX",
		}
		store.AddEvent(1, event)
	}
	err := store.CommitEvents()
	if err != nil {
		t.Fatal(err)
	}

	{
		event := &PhaseTransitionEvent{
			OldPhase: "Whitelist",
			NewPhase: "Public",
		}
		store.AddEvent(2, event)
	}
	{
		event := &ForfeitEvent{
			Currency:          types.CurrencyEther.String(),
			Reward:            "650000000000000000000",
			ReferenceReleased: "100000000000000000000",
		}
		store.AddEvent(2, event)
	}
	err = store.CommitEvents()
	if err != nil {
		t.Fatal(err)
	}

	loaded := store.LoadEvents(1)
	if len(loaded) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loaded))
	}

	if loaded[0].Type() != TypeTicketEvent {
		t.Fatal("invalid event type")
	}
	ticket, ok := loaded[0].(*TicketEvent)
	if !ok {
		t.Fatal("invalid event interface")
	}
	if ticket.AddressString() != "0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1" {
		t.Fatal("invalid event address")
	}
	if ticket.Reward != "724731962500000000000" {
		t.Fatal("invalid event reward")
	}

	loaded = store.LoadEvents(2)
	if len(loaded) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loaded))
	}

	transition, ok := loaded[0].(*PhaseTransitionEvent)
	if !ok {
		t.Fatal("invalid event interface")
	}
	if transition.OldPhase != "Whitelist" || transition.NewPhase != "Public" {
		t.Fatal("invalid transition event data")
	}

	if loaded[1].Type() != TypeForfeitEvent {
		t.Fatal("invalid event type")
	}
}

func TestEventsDBEmptySeq(t *testing.T) {
	store := NewEventsStore(db.NewMemDB())

	loaded := store.LoadEvents(42)
	if len(loaded) != 0 {
		t.Fatal("expected no events for unused sequence")
	}
}
