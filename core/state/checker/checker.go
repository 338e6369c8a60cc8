package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Checker accumulates the reserved-reward movements of a single
// operation from two independent views: the per-currency counters and
// the per-ticket remainders. Check verifies they agree; forfeits are
// counter-only by design and tracked separately.
type Checker struct {
	reservedDelta map[types.Currency]*big.Int
	ticketDelta   map[types.Currency]*big.Int
	forfeitDelta  map[types.Currency]*big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		reservedDelta: map[types.Currency]*big.Int{},
		ticketDelta:   map[types.Currency]*big.Int{},
		forfeitDelta:  map[types.Currency]*big.Int{},
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddReserved(currency types.Currency, value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cValue, exists := c.reservedDelta[currency]

	if !exists {
		cValue = big.NewInt(0)
		c.reservedDelta[currency] = cValue
	}

	cValue.Add(cValue, value)
}

func (c *Checker) AddTicketReward(currency types.Currency, value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cValue, exists := c.ticketDelta[currency]

	if !exists {
		cValue = big.NewInt(0)
		c.ticketDelta[currency] = cValue
	}

	cValue.Add(cValue, value)
}

func (c *Checker) AddForfeit(currency types.Currency, value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cValue, exists := c.forfeitDelta[currency]

	if !exists {
		cValue = big.NewInt(0)
		c.forfeitDelta[currency] = cValue
	}

	cValue.Add(cValue, value)
}

// Reset resets checker deltas, called after every verified operation
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.reservedDelta = map[types.Currency]*big.Int{}
	c.ticketDelta = map[types.Currency]*big.Int{}
	c.forfeitDelta = map[types.Currency]*big.Int{}
}

// Check verifies that counter movements minus forfeits equal ticket
// movements for every currency touched by the operation.
func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	currencies := map[types.Currency]struct{}{}
	for currency := range c.reservedDelta {
		currencies[currency] = struct{}{}
	}
	for currency := range c.ticketDelta {
		currencies[currency] = struct{}{}
	}
	for currency := range c.forfeitDelta {
		currencies[currency] = struct{}{}
	}

	for currency := range currencies {
		reserved := c.reservedDelta[currency]
		if reserved == nil {
			reserved = big.NewInt(0)
		}
		tickets := c.ticketDelta[currency]
		if tickets == nil {
			tickets = big.NewInt(0)
		}
		forfeit := c.forfeitDelta[currency]
		if forfeit == nil {
			forfeit = big.NewInt(0)
		}

		accounted := big.NewInt(0).Add(tickets, forfeit)
		if reserved.Cmp(accounted) != 0 {
			return fmt.Errorf("invariants error on currency %s: %s",
				currency.String(), big.NewInt(0).Sub(accounted, reserved).String())
		}
	}

	return nil
}

// CheckCap fails with CapExceeded when cumulative issuance is above the
// configured cap. Called after every minting operation.
func CheckCap(issued, cap *big.Int) error {
	if issued.Cmp(cap) == 1 {
		return code.NewError(code.CapExceeded,
			fmt.Sprintf("cumulative issuance %s exceeds cap %s", issued.String(), cap.String()),
			code.NewCapExceeded(issued.String(), cap.String()))
	}

	return nil
}
