package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of the append-only sale event log. Events are
// grouped by the sequence number of the operation that produced them.
type IEventsDB interface {
	AddEvent(seq uint32, event Event)
	LoadEvents(seq uint32) Events
	CommitEvents() error
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db      db.DB
	pending pendingEvents
}

type pendingEvents struct {
	sync.Mutex
	seq   uint32
	items Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(&PhaseTransitionEvent{}, "phaseTransition", nil)
	codec.RegisterConcrete(&CommitmentEvent{}, "commitment", nil)
	codec.RegisterConcrete(&TicketEvent{}, "ticket", nil)
	codec.RegisterConcrete(&ForfeitEvent{}, "forfeit", nil)
	codec.RegisterConcrete(&SaleAbortedEvent{}, "saleAborted", nil)

	return &eventsStore{
		cdc:     codec,
		RWMutex: sync.RWMutex{},
		db:      db,
		pending: pendingEvents{},
	}
}

func (store *eventsStore) AddEvent(seq uint32, event Event) {
	store.pending.Lock()
	defer store.pending.Unlock()
	if store.pending.seq != seq {
		store.pending.items = Events{}
	}
	store.pending.items = append(store.pending.items, event)
	store.pending.seq = seq
}

func (store *eventsStore) LoadEvents(seq uint32) Events {
	bytes, err := store.db.Get(uint32ToBytes(seq))
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var items Events
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	return items
}

func (store *eventsStore) CommitEvents() error {
	store.pending.Lock()
	defer store.pending.Unlock()

	bytes, err := store.cdc.MarshalBinaryBare(store.pending.items)
	if err != nil {
		return err
	}

	store.Lock()
	defer store.Unlock()
	if err := store.db.Set(uint32ToBytes(store.pending.seq), bytes); err != nil {
		return err
	}

	store.pending.items = Events{}

	return nil
}

func uint32ToBytes(seq uint32) []byte {
	var bytes [4]byte
	binary.BigEndian.PutUint32(bytes[:], seq)
	return bytes[:]
}
