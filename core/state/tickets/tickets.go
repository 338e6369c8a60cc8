package tickets

import (
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Tickets is the priority reservation registry: per-participant models,
// the insertion-ordered registration list and the per-currency reserved
// reward counters. Every movement is reported to the bus checker.
type Tickets struct {
	list     map[types.Address]*Model
	order    []types.Address
	reserved map[types.Currency]*big.Int

	bus *bus.Bus

	lock sync.RWMutex
}

func NewTickets(stateBus *bus.Bus) *Tickets {
	return &Tickets{
		list:  map[types.Address]*Model{},
		order: []types.Address{},
		reserved: map[types.Currency]*big.Int{
			types.CurrencyEther: big.NewInt(0),
			types.CurrencyEuro:  big.NewInt(0),
		},
		bus: stateBus,
	}
}

// Exists reports whether the participant already holds a ticket.
func (t *Tickets) Exists(address types.Address) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	_, exists := t.list[address]
	return exists
}

// Get returns the participant's ticket or nil.
func (t *Tickets) Get(address types.Address) *Model {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.list[address]
}

// Create registers a ticket for a participant without one and adds its
// reward to the matching reserved counter. The caller checks for
// duplicates beforehand.
func (t *Tickets) Create(address types.Address, currency types.Currency, reference, reward *big.Int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.list[address] = &Model{
		Currency:           currency,
		RemainingReference: big.NewInt(0).Set(reference),
		RemainingReward:    big.NewInt(0).Set(reward),
	}
	t.order = append(t.order, address)
	t.reserved[currency].Add(t.reserved[currency], reward)

	t.bus.Checker().AddReserved(currency, reward)
	t.bus.Checker().AddTicketReward(currency, reward)
}

// Consume drains the participant's ticket by up to reference units and
// decrements the matching reserved counter by the reward taken.
func (t *Tickets) Consume(address types.Address, reference *big.Int) (consumedReference, consumedReward *big.Int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	ticket := t.list[address]
	if ticket == nil {
		return big.NewInt(0), big.NewInt(0)
	}

	consumedReference, consumedReward = ticket.Consume(reference)
	if consumedReward.Sign() == 1 {
		t.reserved[ticket.Currency].Sub(t.reserved[ticket.Currency], consumedReward)

		t.bus.Checker().AddReserved(ticket.Currency, big.NewInt(0).Neg(consumedReward))
		t.bus.Checker().AddTicketReward(ticket.Currency, big.NewInt(0).Neg(consumedReward))
	}

	return consumedReference, consumedReward
}

// Reserved returns a copy of the reserved reward counter for a currency.
func (t *Tickets) Reserved(currency types.Currency) *big.Int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return big.NewInt(0).Set(t.reserved[currency])
}

// ForfeitReserved zeroes the reserved counter of a currency and returns
// the forfeited reward. Per-ticket remainders are intentionally left
// untouched: the counter is authoritative for the burn.
func (t *Tickets) ForfeitReserved(currency types.Currency) *big.Int {
	t.lock.Lock()
	defer t.lock.Unlock()

	burned := big.NewInt(0).Set(t.reserved[currency])
	t.reserved[currency] = big.NewInt(0)

	if burned.Sign() == 1 {
		t.bus.Checker().AddReserved(currency, big.NewInt(0).Neg(burned))
		t.bus.Checker().AddForfeit(currency, big.NewInt(0).Neg(burned))
	}

	return burned
}

// Count returns the number of registered tickets.
func (t *Tickets) Count() int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return len(t.order)
}

// At returns the i-th registered participant in registration order.
func (t *Tickets) At(i int) types.Address {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.order[i]
}

// SumRemainingReward sums the remaining reward over every ticket of a
// currency. Equals the reserved counter until the currency's
// forfeiture boundary has passed.
func (t *Tickets) SumRemainingReward(currency types.Currency) *big.Int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	sum := big.NewInt(0)
	for _, ticket := range t.list {
		if ticket.Currency == currency {
			sum.Add(sum, ticket.RemainingReward)
		}
	}

	return sum
}

// State is a deep copy of the registry used for settlement rollback.
type State struct {
	list     map[types.Address]*Model
	order    []types.Address
	reserved map[types.Currency]*big.Int
}

// Snapshot captures the full registry state.
func (t *Tickets) Snapshot() *State {
	t.lock.RLock()
	defer t.lock.RUnlock()

	state := &State{
		list:     map[types.Address]*Model{},
		order:    append([]types.Address{}, t.order...),
		reserved: map[types.Currency]*big.Int{},
	}
	for address, ticket := range t.list {
		state.list[address] = ticket.copy()
	}
	for currency, reserved := range t.reserved {
		state.reserved[currency] = big.NewInt(0).Set(reserved)
	}

	return state
}

// Restore replaces the registry state with a snapshot.
func (t *Tickets) Restore(state *State) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.list = map[types.Address]*Model{}
	for address, ticket := range state.list {
		t.list[address] = ticket.copy()
	}
	t.order = append([]types.Address{}, state.order...)
	t.reserved = map[types.Currency]*big.Int{}
	for currency, reserved := range state.reserved {
		t.reserved[currency] = big.NewInt(0).Set(reserved)
	}
}
