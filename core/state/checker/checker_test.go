package checker

import (
	"math/big"
	"testing"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/types"
)

func TestCheckBalancedDeltas(t *testing.T) {
	t.Parallel()

	c := NewChecker(bus.NewBus())

	c.AddReserved(types.CurrencyEuro, big.NewInt(100))
	c.AddTicketReward(types.CurrencyEuro, big.NewInt(100))

	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckForfeitIsCounterOnly(t *testing.T) {
	t.Parallel()

	c := NewChecker(bus.NewBus())

	// a forfeit moves the counter without touching ticket remainders
	c.AddReserved(types.CurrencyEther, big.NewInt(-70))
	c.AddForfeit(types.CurrencyEther, big.NewInt(-70))

	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckDetectsImbalance(t *testing.T) {
	t.Parallel()

	c := NewChecker(bus.NewBus())

	c.AddReserved(types.CurrencyEuro, big.NewInt(100))
	c.AddTicketReward(types.CurrencyEuro, big.NewInt(99))

	if err := c.Check(); err == nil {
		t.Fatal("expected an invariants error")
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	c := NewChecker(bus.NewBus())

	c.AddReserved(types.CurrencyEuro, big.NewInt(100))
	c.Reset()

	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistersItselfOnBus(t *testing.T) {
	t.Parallel()

	b := bus.NewBus()
	c := NewChecker(b)

	if b.Checker() == nil {
		t.Fatal("checker must register itself on the bus")
	}
	b.Checker().AddReserved(types.CurrencyEuro, big.NewInt(1))
	c.AddTicketReward(types.CurrencyEuro, big.NewInt(1))

	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckCap(t *testing.T) {
	t.Parallel()

	if err := CheckCap(big.NewInt(100), big.NewInt(100)); err != nil {
		t.Fatal("issuance at the cap is allowed")
	}

	err := CheckCap(big.NewInt(101), big.NewInt(100))
	if err == nil {
		t.Fatal("expected a cap error")
	}
	if !code.Is(err, code.CapExceeded) {
		t.Fatalf("expected CapExceeded, got %q", err.Error())
	}
}
