package sale

import (
	"fmt"
	"math/big"
	"time"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Phase is the linear sale protocol state. It only ever moves forward,
// one step at a time.
type Phase uint32

const (
	PhaseBefore Phase = iota
	PhaseWhitelist
	PhasePublic
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseBefore:
		return "Before"
	case PhaseWhitelist:
		return "Whitelist"
	case PhasePublic:
		return "Public"
	case PhaseFinished:
		return "Finished"
	}

	return fmt.Sprintf("Phase(%d)", uint32(p))
}

// legal transition edges, one successor per phase
var transitions = map[Phase]Phase{
	PhaseBefore:    PhaseWhitelist,
	PhaseWhitelist: PhasePublic,
	PhasePublic:    PhaseFinished,
}

// transitionTo performs one step of the phase machine: validate the
// edge, move, run the post-transition hook and verify the hook left the
// machine's state alone. A hook that moves the phase disables the
// instance for good.
func (s *Sale) transitionTo(next Phase) error {
	old := s.phase

	allowed, exists := transitions[old]
	if !exists || allowed != next {
		return code.NewError(code.IllegalTransition,
			fmt.Sprintf("transition %s -> %s is not allowed", old.String(), next.String()),
			code.NewIllegalTransition(old.String(), next.String()))
	}

	s.phase = next

	if err := s.hook(old, next); err != nil {
		s.poisoned = true
		return err
	}

	if s.phase != next {
		s.poisoned = true
		return code.NewError(code.IllegalTransition,
			fmt.Sprintf("transition hook moved phase from %s to %s", next.String(), s.phase.String()),
			code.NewIllegalTransition(next.String(), s.phase.String()))
	}

	s.logger.Info("phase transition", "from", old.String(), "to", next.String())
	s.bus.Events().AddEvent(s.seq, &events.PhaseTransitionEvent{
		OldPhase: old.String(),
		NewPhase: next.String(),
	})

	return nil
}

// advance applies every time-triggered transition whose start instant
// has passed. Public -> Finished is never triggered by time. Called at
// the top of every external operation; there are no timers.
func (s *Sale) advance(now time.Time) error {
	for {
		switch s.phase {
		case PhaseBefore:
			if now.Before(s.cfg.Sale.StartDate) {
				return nil
			}
		case PhaseWhitelist:
			if now.Before(s.cfg.PublicStart()) {
				return nil
			}
		default:
			return nil
		}

		if err := s.transitionTo(transitions[s.phase]); err != nil {
			return err
		}
	}
}

// PhaseAt computes the phase a given instant maps to, ignoring the
// explicit end-of-sale action. Pure, does not touch the instance state.
func (s *Sale) PhaseAt(now time.Time) Phase {
	if now.Before(s.cfg.Sale.StartDate) {
		return PhaseBefore
	}
	if now.Before(s.cfg.PublicStart()) {
		return PhaseWhitelist
	}

	return PhasePublic
}

// onTransition is the phase machine's side-effect hook. Entering Public
// forfeits unclaimed ether-ticket rewards; entering Finished forfeits
// euro-ticket rewards and releases custody.
func (s *Sale) onTransition(old, next Phase) error {
	switch next {
	case PhasePublic:
		return s.forfeitReserved(types.CurrencyEther)
	case PhaseFinished:
		if err := s.forfeitReserved(types.CurrencyEuro); err != nil {
			return err
		}

		s.bus.Vault(types.CurrencyEther).OnSaleSucceeded()
		s.bus.Vault(types.CurrencyEuro).OnSaleSucceeded()
		s.logger.Info("custody released", "sale", s.cfg.Sale.ID)
	}

	return nil
}

// forfeitReserved burns every reward unit still reserved for a
// currency's tickets. The per-ticket remainders are left as they are;
// the counter is authoritative for the burn. Unclaimed value is
// permanently lost here, which is the expected outcome, not a failure.
func (s *Sale) forfeitReserved(currency types.Currency) error {
	burned := s.tickets.ForfeitReserved(currency)
	if burned.Sign() == 0 {
		return nil
	}

	released, err := s.bus.Curve().BurnReward(burned)
	if err != nil {
		return err
	}

	s.logger.Info("forfeited reserved reward",
		"currency", currency.String(),
		"reward", burned.String(),
		"reference_released", released.String())
	s.bus.Events().AddEvent(s.seq, &events.ForfeitEvent{
		Currency:          currency.String(),
		Reward:            burned.String(),
		ReferenceReleased: released.String(),
	})

	return nil
}

// reservedTotal sums both reserved counters.
func (s *Sale) reservedTotal() *big.Int {
	total := s.tickets.Reserved(types.CurrencyEther)
	return total.Add(total, s.tickets.Reserved(types.CurrencyEuro))
}
