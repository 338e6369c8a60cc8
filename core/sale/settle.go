package sale

import (
	"fmt"
	"math/big"

	"github.com/KSingh1980/ico-contracts/config"
	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/state/checker"
	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/helpers"
)

// settlement is the outcome of one commitment: where the reward came
// from and how it splits between the participant and the platform.
type settlement struct {
	fromTicket *big.Int
	fromCurve  *big.Int

	participantReward *big.Int
	platformReward    *big.Int
}

// CommitEther settles a contribution in the wrapped payment currency.
// The committed amount is the caller's pre-approved allowance plus any
// directly attached raw value: the allowance is pulled, the attached
// value is wrapped into ledger form, and the reference value of the sum
// is derived through the configured fixed fraction.
func (s *Sale) CommitEther(caller types.Address, attached *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitGuard(caller); err != nil {
		return err
	}
	if attached == nil {
		attached = big.NewInt(0)
	}
	if attached.Sign() == -1 {
		s.failOp()
		return code.NewError(code.InvalidArgument, "attached value cannot be negative",
			code.NewInvalidArgument("negative attached value"))
	}

	token := s.bus.CurrencyToken(types.CurrencyEther)
	allowance := token.Allowance(caller, s.self)
	total, err := helpers.AddChecked(attached, allowance)
	if err != nil {
		s.failOp()
		return err
	}
	if total.Sign() != 1 {
		s.failOp()
		return code.NewError(code.InvalidArgument, "no value attached and no allowance granted",
			code.NewInvalidArgument("nothing to commit"))
	}

	reference := s.toReference(total, types.CurrencyEther)

	snapshot := s.snapshot()
	result, err := s.settle(caller, types.CurrencyEther, reference)
	if err != nil {
		s.restore(snapshot)
		s.failOp()
		return err
	}

	if err := s.mintRewards(caller, result); err != nil {
		s.restore(snapshot)
		s.failOp()
		return err
	}

	if allowance.Sign() == 1 {
		if err := token.PullTransfer(caller, s.self, allowance); err != nil {
			s.burnRewards(caller, result)
			s.restore(snapshot)
			s.failOp()
			return err
		}
	}
	if attached.Sign() == 1 {
		if err := token.Deposit(s.self, attached); err != nil {
			if allowance.Sign() == 1 {
				// hand the pulled funds back, they were just received
				_ = token.Transfer(s.self, caller, allowance)
			}
			s.burnRewards(caller, result)
			s.restore(snapshot)
			s.failOp()
			return err
		}
	}

	if err := s.lockFunds(caller, types.CurrencyEther, total, result); err != nil {
		// both movements operate on balances this operation just
		// created; a failure here means a corrupted ledger
		s.restore(snapshot)
		s.poisoned = true
		return err
	}

	s.emitCommitment(caller, types.CurrencyEther, total, reference, result)

	return s.finishOp()
}

// CommitEuro settles a contribution in the reference currency. There is
// no attached value: the full pre-approved allowance is pulled from the
// caller's ledger balance.
func (s *Sale) CommitEuro(caller types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitGuard(caller); err != nil {
		return err
	}

	token := s.bus.CurrencyToken(types.CurrencyEuro)
	amount := token.Allowance(caller, s.self)
	if amount.Sign() != 1 {
		s.failOp()
		return code.NewError(code.InsufficientAllowance,
			fmt.Sprintf("%s granted no allowance to the sale", caller.String()),
			code.NewInsufficientAllowance(caller.String(), "1", amount.String()))
	}

	snapshot := s.snapshot()
	result, err := s.settle(caller, types.CurrencyEuro, amount)
	if err != nil {
		s.restore(snapshot)
		s.failOp()
		return err
	}

	if err := s.mintRewards(caller, result); err != nil {
		s.restore(snapshot)
		s.failOp()
		return err
	}

	if err := token.PullTransfer(caller, s.self, amount); err != nil {
		s.burnRewards(caller, result)
		s.restore(snapshot)
		s.failOp()
		return err
	}

	if err := s.lockFunds(caller, types.CurrencyEuro, amount, result); err != nil {
		// both movements operate on balances this operation just
		// created; a failure here means a corrupted ledger
		s.restore(snapshot)
		s.poisoned = true
		return err
	}

	s.emitCommitment(caller, types.CurrencyEuro, amount, amount, result)

	return s.finishOp()
}

// commitGuard runs the shared preamble of both commitment entry points:
// instance guard, time gate, phase window and the agreement gate.
func (s *Sale) commitGuard(caller types.Address) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.phase != PhaseWhitelist && s.phase != PhasePublic {
		s.failOp()
		return code.NewError(code.WrongPhase,
			fmt.Sprintf("commitments are not accepted in phase %s", s.phase.String()),
			code.NewWrongPhase(s.phase.String(), PhaseWhitelist.String()))
	}
	if !s.bus.Agreement().HasAccepted(caller) {
		s.failOp()
		return code.NewError(code.Unauthorized,
			fmt.Sprintf("%s has not accepted the agreement", caller.String()),
			code.NewUnauthorized(caller.String(), "agreement party"))
	}

	return nil
}

// settle resolves a contribution of reference units against the ticket
// registry and the curve. It mutates the tickets and the curve only;
// callers snapshot beforehand and restore on error.
//
// The reward is drawn first from the participant's consumable ticket,
// proportionally; any remainder is priced by the curve when the
// participant is a ticket holder or the sale is public, and rejected
// otherwise. The global cap is checked after the draw. The total splits
// evenly between the participant and the platform, the odd unit going
// to the platform.
func (s *Sale) settle(participant types.Address, currency types.Currency, reference *big.Int) (*settlement, error) {
	if reference.Cmp(s.cfg.MinTicketUlps()) == -1 {
		return nil, code.NewError(code.InvalidArgument,
			fmt.Sprintf("contribution of %s reference units is below the minimum %s",
				reference.String(), s.cfg.MinTicketUlps().String()),
			code.NewInvalidArgument("contribution below minimum"))
	}

	consumable := s.ticketConsumable(participant, currency)

	fromTicket := big.NewInt(0)
	consumedReference := big.NewInt(0)
	if consumable {
		consumedReference, fromTicket = s.tickets.Consume(participant, reference)
	}

	remainder := big.NewInt(0).Sub(reference, consumedReference)
	fromCurve := big.NewInt(0)
	if remainder.Sign() == 1 {
		if !consumable && s.phase != PhasePublic {
			return nil, code.NewError(code.PartialCommitmentNotAllowed,
				fmt.Sprintf("%s holds no consumable ticket for %s reference units",
					participant.String(), remainder.String()),
				code.NewPartialCommitmentNotAllowed(participant.String(), remainder.String()))
		}

		issued, err := s.bus.Curve().Issue(remainder)
		if err != nil {
			return nil, err
		}
		fromCurve = issued
	}

	if err := checker.CheckCap(s.bus.Curve().CumulativeIssued(), s.cfg.CapUlps()); err != nil {
		return nil, err
	}

	total, err := helpers.AddChecked(fromTicket, fromCurve)
	if err != nil {
		return nil, err
	}

	// even split, the odd unit goes to the platform
	platform := big.NewInt(0).Add(total, big.NewInt(1))
	platform.Div(platform, big.NewInt(config.PlatformShareDivisor))

	return &settlement{
		fromTicket:        fromTicket,
		fromCurve:         fromCurve,
		participantReward: big.NewInt(0).Sub(total, platform),
		platformReward:    platform,
	}, nil
}

// ticketConsumable reports whether the participant holds a ticket that
// can be drawn for the given currency in the current phase. Wrapped
// currency tickets are consumable during Whitelist only; reference
// currency tickets stay consumable through Public.
func (s *Sale) ticketConsumable(participant types.Address, currency types.Currency) bool {
	ticket := s.tickets.Get(participant)
	if ticket == nil || ticket.Currency != currency {
		return false
	}

	switch currency {
	case types.CurrencyEuro:
		return s.phase == PhaseWhitelist || s.phase == PhasePublic
	case types.CurrencyEther:
		return s.phase == PhaseWhitelist
	}

	return false
}

// mintRewards mints both reward legs before any funds move, so a mint
// failure unwinds without touching the currency ledgers. A second-leg
// failure burns the first leg back.
func (s *Sale) mintRewards(participant types.Address, result *settlement) error {
	reward := s.bus.RewardToken()
	if err := reward.Mint(participant, result.participantReward); err != nil {
		return err
	}
	if err := reward.Mint(s.cfg.Platform(), result.platformReward); err != nil {
		// the first leg was minted a moment ago, burning it back cannot fail
		_ = reward.Burn(participant, result.participantReward)
		return err
	}

	return nil
}

// burnRewards unwinds both just-minted reward legs.
func (s *Sale) burnRewards(participant types.Address, result *settlement) {
	reward := s.bus.RewardToken()
	_ = reward.Burn(participant, result.participantReward)
	_ = reward.Burn(s.cfg.Platform(), result.platformReward)
}

// lockFunds moves the collected funds from the engine's account into
// custody and records the participant's claim.
func (s *Sale) lockFunds(participant types.Address, currency types.Currency, amount *big.Int, result *settlement) error {
	token := s.bus.CurrencyToken(currency)
	vault := s.bus.Vault(currency)

	if err := token.Transfer(s.self, vault.Account(), amount); err != nil {
		return err
	}

	return vault.Lock(participant, amount, result.participantReward)
}

func (s *Sale) emitCommitment(participant types.Address, currency types.Currency, amount, reference *big.Int, result *settlement) {
	s.logger.Info("commitment settled",
		"participant", participant.String(),
		"currency", currency.String(),
		"amount", amount.String(),
		"reference", reference.String(),
		"from_ticket", result.fromTicket.String(),
		"from_curve", result.fromCurve.String(),
		"reward", result.participantReward.String(),
		"platform_reward", result.platformReward.String())
	s.bus.Events().AddEvent(s.seq, &events.CommitmentEvent{
		Address:         participant,
		Amount:          amount.String(),
		Currency:        currency.String(),
		ReferenceAmount: reference.String(),
		Reward:          result.participantReward.String(),
		RewardAsset:     s.bus.RewardToken().Symbol(),
	})
}
