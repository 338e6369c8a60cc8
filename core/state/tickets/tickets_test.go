package tickets

import (
	"math/big"
	"testing"

	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/state/checker"
	"github.com/KSingh1980/ico-contracts/core/types"
)

func newTestTickets() (*Tickets, *checker.Checker) {
	b := bus.NewBus()
	check := checker.NewChecker(b)
	return NewTickets(b), check
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	registry, check := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEther, big.NewInt(1000), big.NewInt(6500))

	if !registry.Exists(addr) {
		t.Fatal("ticket not found")
	}

	ticket := registry.Get(addr)
	if ticket.Currency != types.CurrencyEther {
		t.Fatal("invalid ticket currency")
	}
	if ticket.RemainingReference.Cmp(big.NewInt(1000)) != 0 || ticket.RemainingReward.Cmp(big.NewInt(6500)) != 0 {
		t.Fatal("invalid ticket data")
	}

	if registry.Reserved(types.CurrencyEther).Cmp(big.NewInt(6500)) != 0 {
		t.Fatal("reserved counter not incremented")
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistrationOrder(t *testing.T) {
	t.Parallel()
	registry, _ := newTestTickets()

	addrs := []types.Address{
		types.HexToAddress("0x0000000000000000000000000000000000000003"),
		types.HexToAddress("0x0000000000000000000000000000000000000001"),
		types.HexToAddress("0x0000000000000000000000000000000000000002"),
	}

	for _, addr := range addrs {
		registry.Create(addr, types.CurrencyEuro, big.NewInt(100), big.NewInt(650))
	}

	if registry.Count() != 3 {
		t.Fatal("invalid registration count")
	}

	for i, addr := range addrs {
		if registry.At(i).Compare(addr) != 0 {
			t.Fatalf("registration order not preserved at %d", i)
		}
	}
}

func TestConsumeFull(t *testing.T) {
	t.Parallel()
	registry, check := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEther, big.NewInt(1000), big.NewInt(6500))

	ref, reward := registry.Consume(addr, big.NewInt(1000))
	if ref.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("consumed reference %s, want 1000", ref)
	}
	if reward.Cmp(big.NewInt(6500)) != 0 {
		t.Fatalf("consumed reward %s, want 6500", reward)
	}

	ticket := registry.Get(addr)
	if ticket.RemainingReference.Sign() != 0 || ticket.RemainingReward.Sign() != 0 {
		t.Fatal("ticket not fully drained")
	}

	if registry.Reserved(types.CurrencyEther).Sign() != 0 {
		t.Fatal("reserved counter not drained")
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestConsumePartialProportional(t *testing.T) {
	t.Parallel()
	registry, check := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEuro, big.NewInt(1000), big.NewInt(6500))

	// 400/1000 of the reward, rounded down
	ref, reward := registry.Consume(addr, big.NewInt(400))
	if ref.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("consumed reference %s, want 400", ref)
	}
	if reward.Cmp(big.NewInt(2600)) != 0 {
		t.Fatalf("consumed reward %s, want 2600", reward)
	}

	ticket := registry.Get(addr)
	if ticket.RemainingReference.Cmp(big.NewInt(600)) != 0 {
		t.Fatal("remaining reference wrong")
	}
	if ticket.RemainingReward.Cmp(big.NewInt(3900)) != 0 {
		t.Fatal("remaining reward wrong")
	}

	if registry.Reserved(types.CurrencyEuro).Cmp(big.NewInt(3900)) != 0 {
		t.Fatal("reserved counter wrong")
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestConsumeOverdraw(t *testing.T) {
	t.Parallel()
	registry, _ := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEuro, big.NewInt(1000), big.NewInt(6500))

	// asking for more than the reservation consumes only what is left
	ref, reward := registry.Consume(addr, big.NewInt(1500))
	if ref.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("consumed reference %s, want 1000", ref)
	}
	if reward.Cmp(big.NewInt(6500)) != 0 {
		t.Fatalf("consumed reward %s, want 6500", reward)
	}
}

func TestConsumeWithoutTicket(t *testing.T) {
	t.Parallel()
	registry, _ := newTestTickets()

	ref, reward := registry.Consume(types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1"), big.NewInt(100))
	if ref.Sign() != 0 || reward.Sign() != 0 {
		t.Fatal("consumed from a missing ticket")
	}
}

func TestForfeitReservedLeavesTickets(t *testing.T) {
	t.Parallel()
	registry, check := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEther, big.NewInt(1000), big.NewInt(6500))

	burned := registry.ForfeitReserved(types.CurrencyEther)
	if burned.Cmp(big.NewInt(6500)) != 0 {
		t.Fatalf("forfeited %s, want 6500", burned)
	}

	if registry.Reserved(types.CurrencyEther).Sign() != 0 {
		t.Fatal("reserved counter not zeroed")
	}

	// the ticket's own remainders are intentionally untouched
	ticket := registry.Get(addr)
	if ticket.RemainingReference.Cmp(big.NewInt(1000)) != 0 || ticket.RemainingReward.Cmp(big.NewInt(6500)) != 0 {
		t.Fatal("ticket remainders must survive forfeiture")
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestReservedEqualsTicketSum(t *testing.T) {
	t.Parallel()
	registry, _ := newTestTickets()

	addrs := []types.Address{
		types.HexToAddress("0x0000000000000000000000000000000000000001"),
		types.HexToAddress("0x0000000000000000000000000000000000000002"),
	}
	registry.Create(addrs[0], types.CurrencyEuro, big.NewInt(1000), big.NewInt(6500))
	registry.Create(addrs[1], types.CurrencyEuro, big.NewInt(500), big.NewInt(3250))

	registry.Consume(addrs[0], big.NewInt(300))

	if registry.Reserved(types.CurrencyEuro).Cmp(registry.SumRemainingReward(types.CurrencyEuro)) != 0 {
		t.Fatal("reserved counter diverged from ticket remainders")
	}
}

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()
	registry, _ := newTestTickets()

	addr := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	registry.Create(addr, types.CurrencyEuro, big.NewInt(1000), big.NewInt(6500))

	snapshot := registry.Snapshot()

	registry.Consume(addr, big.NewInt(999))
	registry.Create(types.HexToAddress("0x0000000000000000000000000000000000000002"),
		types.CurrencyEther, big.NewInt(77), big.NewInt(500))

	registry.Restore(snapshot)

	if registry.Count() != 1 {
		t.Fatal("order not restored")
	}
	ticket := registry.Get(addr)
	if ticket.RemainingReference.Cmp(big.NewInt(1000)) != 0 || ticket.RemainingReward.Cmp(big.NewInt(6500)) != 0 {
		t.Fatal("ticket not restored")
	}
	if registry.Reserved(types.CurrencyEuro).Cmp(big.NewInt(6500)) != 0 {
		t.Fatal("reserved counter not restored")
	}
	if registry.Reserved(types.CurrencyEther).Sign() != 0 {
		t.Fatal("ether counter not restored")
	}
}
