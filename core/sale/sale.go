package sale

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
	tmlog "github.com/tendermint/tendermint/libs/log"

	"github.com/KSingh1980/ico-contracts/config"
	"github.com/KSingh1980/ico-contracts/core/access"
	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/state/checker"
	"github.com/KSingh1980/ico-contracts/core/state/tickets"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Sale is the phased capital-commitment engine of one token-issuance
// event. It owns all mutable sale state (phase, tickets, counters) and
// serializes every operation behind a single mutex; collaborators are
// reached only through the bus.
type Sale struct {
	cfg    *config.Config
	bus    *bus.Bus
	logger tmlog.Logger

	// self is the engine's own ledger identity: pulled funds land here
	// before moving into custody.
	self types.Address

	now  func() time.Time
	hook func(old, next Phase) error

	phase    Phase
	aborted  bool
	poisoned bool
	seq      uint32

	tickets *tickets.Tickets
	checker *checker.Checker

	mu sync.Mutex
}

// NewSale wires a sale over the given bus. The bus must already carry
// the curve, the reward token, both currency tokens, both vaults, the
// access policy, the agreement gate and the events store.
func NewSale(cfg *config.Config, self types.Address, stateBus *bus.Bus, logger tmlog.Logger) (*Sale, error) {
	return NewSaleAt(cfg, self, stateBus, logger, time.Now)
}

// NewSaleAt is NewSale with an injectable time source.
func NewSaleAt(cfg *config.Config, self types.Address, stateBus *bus.Bus, logger tmlog.Logger, now func() time.Time) (*Sale, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sale config")
	}
	if err := checkBus(stateBus); err != nil {
		return nil, err
	}
	if self.IsZero() {
		return nil, errors.New("sale needs its own ledger identity")
	}

	s := &Sale{
		cfg:    cfg,
		bus:    stateBus,
		logger: logger.With("module", "sale", "sale", cfg.Sale.ID),
		self:   self,
		now:    now,
		phase:  PhaseBefore,
		seq:    1,
	}
	s.hook = s.onTransition
	s.checker = checker.NewChecker(stateBus)
	s.tickets = tickets.NewTickets(stateBus)

	return s, nil
}

func checkBus(b *bus.Bus) error {
	if b.Curve() == nil {
		return errors.New("bus: curve is not set")
	}
	if b.RewardToken() == nil {
		return errors.New("bus: reward token is not set")
	}
	for _, currency := range []types.Currency{types.CurrencyEther, types.CurrencyEuro} {
		if b.CurrencyToken(currency) == nil {
			return errors.Errorf("bus: %s token is not set", currency.String())
		}
		if b.Vault(currency) == nil {
			return errors.Errorf("bus: %s vault is not set", currency.String())
		}
	}
	if b.Access() == nil {
		return errors.New("bus: access policy is not set")
	}
	if b.Agreement() == nil {
		return errors.New("bus: agreement gate is not set")
	}
	if b.Events() == nil {
		return errors.New("bus: events store is not set")
	}

	return nil
}

// guard rejects operations on a disabled instance and lazily applies
// time-triggered phase transitions. A transition that actually fires is
// committed as its own completed operation, so its records survive even
// when the operation that triggered it fails afterwards. Callers hold
// the mutex.
func (s *Sale) guard() error {
	if s.aborted || s.poisoned {
		return code.NewError(code.SaleAborted, "sale instance is permanently disabled", code.NewSaleAborted())
	}

	before := s.phase
	if err := s.advance(s.now()); err != nil {
		return err
	}
	if s.phase != before {
		if err := s.finishOp(); err != nil {
			return err
		}
	}

	return nil
}

// finishOp verifies the operation's bookkeeping deltas, resets them and
// commits the operation's events. A checker failure means corrupted
// accounting and disables the instance.
func (s *Sale) finishOp() error {
	if err := s.checker.Check(); err != nil {
		s.poisoned = true
		return errors.Wrap(err, "bookkeeping invariant violated")
	}
	s.checker.Reset()

	if err := s.bus.Events().CommitEvents(); err != nil {
		return errors.Wrap(err, "commit events")
	}
	s.seq++

	return nil
}

// failOp drops the failed operation's bookkeeping deltas and bumps the
// sequence so stale pending events can never leak into the next commit.
func (s *Sale) failOp() {
	s.checker.Reset()
	s.seq++
}

// RegisterTicket pre-allocates a priority reservation for a participant.
// Whitelist-admin only, Before phase only. The reward quote advances the
// curve: reservations consume real issuance capacity.
func (s *Sale) RegisterTicket(caller, participant types.Address, currency types.Currency, amount *big.Int) error {
	return s.RegisterTickets(caller, []types.Address{participant}, []types.Currency{currency}, []*big.Int{amount})
}

// RegisterTickets registers a batch of reservations one at a time and
// checks the global issuance cap once after the whole batch. The batch
// is atomic: any failure rolls every registration back.
func (s *Sale) RegisterTickets(caller types.Address, participants []types.Address, currencies []types.Currency, amounts []*big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.phase != PhaseBefore {
		s.failOp()
		return code.NewError(code.WrongPhase,
			fmt.Sprintf("tickets can only be registered before the sale, current phase is %s", s.phase.String()),
			code.NewWrongPhase(s.phase.String(), PhaseBefore.String()))
	}
	if !s.bus.Access().IsAuthorized(caller, access.RoleWhitelistAdmin, s.cfg.Sale.ID) {
		s.failOp()
		return code.NewError(code.Unauthorized,
			fmt.Sprintf("%s is not a whitelist admin", caller.String()),
			code.NewUnauthorized(caller.String(), access.RoleWhitelistAdmin))
	}
	if len(participants) != len(currencies) || len(participants) != len(amounts) {
		s.failOp()
		return code.NewError(code.InvalidArgument, "mismatched batch lengths",
			code.NewInvalidArgument("participants, currencies and amounts must have equal length"))
	}

	snapshot := s.snapshot()

	for i := range participants {
		if err := s.registerOne(participants[i], currencies[i], amounts[i]); err != nil {
			s.restore(snapshot)
			s.failOp()
			return err
		}
	}

	if err := checker.CheckCap(s.bus.Curve().CumulativeIssued(), s.cfg.CapUlps()); err != nil {
		s.restore(snapshot)
		s.failOp()
		return err
	}

	return s.finishOp()
}

func (s *Sale) registerOne(participant types.Address, currency types.Currency, amount *big.Int) error {
	if participant.IsZero() {
		return code.NewError(code.InvalidArgument, "participant address is zero",
			code.NewInvalidArgument("zero participant"))
	}
	if !currency.IsAccepted() {
		return code.NewError(code.InvalidArgument,
			fmt.Sprintf("currency %s is not accepted", currency.String()),
			code.NewInvalidArgument("unknown currency"))
	}
	if s.tickets.Exists(participant) {
		return code.NewError(code.DuplicateTicket,
			fmt.Sprintf("participant %s already holds a ticket", participant.String()),
			code.NewDuplicateTicket(participant.String()))
	}
	if amount == nil || amount.Sign() == -1 {
		return code.NewError(code.InvalidArgument, "ticket amount must be non-negative",
			code.NewInvalidArgument("negative ticket amount"))
	}

	reference := s.toReference(amount, currency)
	if amount.Sign() != 0 && reference.Cmp(s.cfg.MinTicketUlps()) == -1 {
		return code.NewError(code.InvalidArgument,
			fmt.Sprintf("ticket of %s reference units is below the minimum %s", reference.String(), s.cfg.MinTicketUlps().String()),
			code.NewInvalidArgument("ticket below minimum contribution"))
	}

	reward, err := s.bus.Curve().Issue(reference)
	if err != nil {
		return err
	}

	s.tickets.Create(participant, currency, reference, reward)

	s.logger.Info("ticket registered",
		"participant", participant.String(),
		"currency", currency.String(),
		"reference", reference.String(),
		"reward", reward.String())
	s.bus.Events().AddEvent(s.seq, &events.TicketEvent{
		Address:         participant,
		Currency:        currency.String(),
		ReferenceAmount: reference.String(),
		Reward:          reward.String(),
	})

	return nil
}

// Abort burns every reservation made so far and permanently disables
// the instance. Sale-admin only, Before phase only, irrecoverable.
func (s *Sale) Abort(caller types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.phase != PhaseBefore {
		s.failOp()
		return code.NewError(code.WrongPhase,
			fmt.Sprintf("the sale can only be aborted before start, current phase is %s", s.phase.String()),
			code.NewWrongPhase(s.phase.String(), PhaseBefore.String()))
	}
	if !s.bus.Access().IsAuthorized(caller, access.RoleSaleAdmin, s.cfg.Sale.ID) {
		s.failOp()
		return code.NewError(code.Unauthorized,
			fmt.Sprintf("%s is not a sale admin", caller.String()),
			code.NewUnauthorized(caller.String(), access.RoleSaleAdmin))
	}

	burned := s.reservedTotal()

	if err := s.forfeitReserved(types.CurrencyEther); err != nil {
		s.failOp()
		return err
	}
	if err := s.forfeitReserved(types.CurrencyEuro); err != nil {
		s.failOp()
		return err
	}

	s.aborted = true

	s.logger.Info("sale aborted", "burned_reward", burned.String())
	s.bus.Events().AddEvent(s.seq, &events.SaleAbortedEvent{BurnedReward: burned.String()})

	return s.finishOp()
}

// Finish is the explicit end-of-sale action: Public -> Finished. It is
// never triggered by elapsed time. Sale-admin only.
func (s *Sale) Finish(caller types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !s.bus.Access().IsAuthorized(caller, access.RoleSaleAdmin, s.cfg.Sale.ID) {
		s.failOp()
		return code.NewError(code.Unauthorized,
			fmt.Sprintf("%s is not a sale admin", caller.String()),
			code.NewUnauthorized(caller.String(), access.RoleSaleAdmin))
	}
	if s.phase != PhasePublic {
		s.failOp()
		return code.NewError(code.WrongPhase,
			fmt.Sprintf("the sale can only be finished from Public, current phase is %s", s.phase.String()),
			code.NewWrongPhase(s.phase.String(), PhasePublic.String()))
	}

	if err := s.transitionTo(PhaseFinished); err != nil {
		s.failOp()
		return err
	}

	return s.finishOp()
}

// toReference converts a raw currency amount into reference ulps.
func (s *Sale) toReference(amount *big.Int, currency types.Currency) *big.Int {
	if currency == types.CurrencyEuro {
		return big.NewInt(0).Set(amount)
	}

	reference := big.NewInt(0).SetUint64(s.cfg.Sale.EtherEuroFraction)
	return reference.Mul(reference, amount)
}

type snapshotState struct {
	tickets *tickets.State
	issued  *big.Int
}

func (s *Sale) snapshot() *snapshotState {
	return &snapshotState{
		tickets: s.tickets.Snapshot(),
		issued:  s.bus.Curve().CumulativeIssued(),
	}
}

func (s *Sale) restore(state *snapshotState) {
	s.tickets.Restore(state.tickets)
	s.bus.Curve().Restore(state.issued)
}

// Phase returns the stored phase; time-triggered transitions apply on
// the next operation, not here.
func (s *Sale) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Aborted reports whether the instance was permanently disabled.
func (s *Sale) Aborted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.aborted
}

// CumulativeIssued returns the reference units ever issued against the
// curve.
func (s *Sale) CumulativeIssued() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bus.Curve().CumulativeIssued()
}

// ContributionForReward quotes the reference contribution currently
// needed to earn at least the given reward from the curve.
func (s *Sale) ContributionForReward(reward *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bus.Curve().DeltaForReward(reward)
}

// ReservedReward returns the reward still reserved for a currency's
// unconsumed tickets.
func (s *Sale) ReservedReward(currency types.Currency) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tickets.Reserved(currency)
}

// TicketOf returns a copy of the participant's ticket state, or nil.
// Field reads happen under the instance mutex, the same lock every
// mutation holds.
func (s *Sale) TicketOf(participant types.Address) (currency types.Currency, reference, reward *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := s.tickets.Get(participant)
	if ticket == nil {
		return types.CurrencyNone, big.NewInt(0), big.NewInt(0)
	}

	return ticket.Currency, big.NewInt(0).Set(ticket.RemainingReference), big.NewInt(0).Set(ticket.RemainingReward)
}

// WhitelistedCount returns the number of registered participants.
func (s *Sale) WhitelistedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tickets.Count()
}

// WhitelistedAt returns the i-th registered participant in registration
// order.
func (s *Sale) WhitelistedAt(i int) types.Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tickets.At(i)
}
