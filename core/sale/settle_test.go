package sale

import (
	"math/big"
	"testing"
	"time"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/helpers"
)

func TestCommitEuroAbsorbsTicket(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	reward := env.registerEuroTicket(t, participantOne, 1000)

	env.clock.current = saleStart.Add(time.Minute)
	env.fundEuro(participantOne, 1000)

	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}

	_, reference, remaining := env.sale.TicketOf(participantOne)
	if reference.Sign() != 0 || remaining.Sign() != 0 {
		t.Fatal("a full commitment must drain the ticket")
	}
	if env.sale.ReservedReward(types.CurrencyEuro).Sign() != 0 {
		t.Fatal("consumed reward must leave the reserved counter")
	}

	// a fully absorbed commitment never touches the curve again
	if env.sale.CumulativeIssued().Cmp(helpers.Uint64ToUlps(1000)) != 0 {
		t.Fatalf("expected 1000 reference units issued, got %s", env.sale.CumulativeIssued().String())
	}

	minted := big.NewInt(0).Add(
		env.reward.BalanceOf(participantOne),
		env.reward.BalanceOf(env.cfg.Platform()))
	if minted.Cmp(reward) != 0 {
		t.Fatalf("minted %s, ticket reserved %s", minted.String(), reward.String())
	}

	// funds moved into custody
	if env.euro.BalanceOf(euroVaultAcc).Cmp(helpers.Uint64ToUlps(1000)) != 0 {
		t.Fatal("the pulled funds must sit on the vault account")
	}
	if env.euro.BalanceOf(participantOne).Sign() != 0 {
		t.Fatal("the participant's funds must be gone")
	}
}

func TestCommitEuroOverflowsToCurve(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.registerEuroTicket(t, participantOne, 1000)

	env.clock.current = saleStart.Add(time.Minute)
	env.fundEuro(participantOne, 1500)

	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}

	if env.sale.CumulativeIssued().Cmp(helpers.Uint64ToUlps(1500)) != 0 {
		t.Fatalf("expected 1500 reference units issued, got %s", env.sale.CumulativeIssued().String())
	}

	// ticket segment plus curve segment telescope to the curve value of
	// the full contribution
	minted := big.NewInt(0).Add(
		env.reward.BalanceOf(participantOne),
		env.reward.BalanceOf(env.cfg.Platform()))
	if minted.Cmp(env.curve.CumulativeAt(helpers.Uint64ToUlps(1500))) != 0 {
		t.Fatalf("total minted reward %s does not match the curve", minted.String())
	}
}

func TestCommitEuroWithoutTicketDuringWhitelist(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = saleStart.Add(time.Minute)
	env.fundEuro(participantOne, 1500)

	assertCode(t, env.sale.CommitEuro(participantOne), code.PartialCommitmentNotAllowed)

	if env.euro.BalanceOf(participantOne).Cmp(helpers.Uint64ToUlps(1500)) != 0 {
		t.Fatal("a rejected commitment must not move funds")
	}
	if env.sale.CumulativeIssued().Sign() != 0 {
		t.Fatal("a rejected commitment must rewind the curve")
	}
}

func TestCommitEuroPublicWithoutTicket(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.fundEuro(participantOne, 500)

	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}

	participant := env.reward.BalanceOf(participantOne)
	platform := env.reward.BalanceOf(env.cfg.Platform())

	total := big.NewInt(0).Add(participant, platform)
	if total.Cmp(env.curve.CumulativeAt(helpers.Uint64ToUlps(500))) != 0 {
		t.Fatal("public commitment must be priced by the curve")
	}

	// the reward splits evenly, the odd unit going to the platform
	diff := big.NewInt(0).Sub(platform, participant)
	if diff.Sign() == -1 || diff.Cmp(big.NewInt(1)) == 1 {
		t.Fatalf("platform share must exceed the participant's by at most one unit, diff %s", diff.String())
	}
}

func TestCommitRequiresAgreement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)

	amount := helpers.Uint64ToUlps(500)
	if err := env.euro.Mint(participantOne, amount); err != nil {
		t.Fatal(err)
	}
	env.euro.Approve(participantOne, saleAccount, amount)

	assertCode(t, env.sale.CommitEuro(participantOne), code.Unauthorized)

	env.agreement.Accept(participantOne)
	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}
}

func TestCommitEuroWithoutAllowance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.agreement.Accept(participantOne)

	assertCode(t, env.sale.CommitEuro(participantOne), code.InsufficientAllowance)
}

func TestCommitEuroBelowMinimum(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.fundEuro(participantOne, 100)

	assertCode(t, env.sale.CommitEuro(participantOne), code.InvalidArgument)
}

func TestCommitEuroBeforeStart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.fundEuro(participantOne, 500)

	assertCode(t, env.sale.CommitEuro(participantOne), code.WrongPhase)
}

func TestCommitEuroAllowanceExceedsBalance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)

	env.agreement.Accept(participantOne)
	env.euro.Approve(participantOne, saleAccount, helpers.Uint64ToUlps(500))

	assertCode(t, env.sale.CommitEuro(participantOne), code.TransferFailed)

	if env.sale.CumulativeIssued().Sign() != 0 {
		t.Fatal("a failed pull must rewind the curve")
	}
	if env.reward.BalanceOf(participantOne).Sign() != 0 || env.reward.BalanceOf(env.cfg.Platform()).Sign() != 0 {
		t.Fatal("a failed pull must burn the minted rewards back")
	}

	// the instance keeps accepting good commitments
	if err := env.euro.Mint(participantOne, helpers.Uint64ToUlps(500)); err != nil {
		t.Fatal(err)
	}
	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}
}

func TestCommitEtherWithTicket(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	attached := helpers.Uint64ToUlps(10)
	if err := env.sale.RegisterTicket(adminAccount, participantOne, types.CurrencyEther, attached); err != nil {
		t.Fatal(err)
	}
	reward := env.sale.ReservedReward(types.CurrencyEther)

	env.clock.current = saleStart.Add(time.Minute)
	env.agreement.Accept(participantOne)

	if err := env.sale.CommitEther(participantOne, attached); err != nil {
		t.Fatal(err)
	}

	_, _, remaining := env.sale.TicketOf(participantOne)
	if remaining.Sign() != 0 {
		t.Fatal("a full commitment must drain the ticket")
	}

	minted := big.NewInt(0).Add(
		env.reward.BalanceOf(participantOne),
		env.reward.BalanceOf(env.cfg.Platform()))
	if minted.Cmp(reward) != 0 {
		t.Fatalf("minted %s, ticket reserved %s", minted.String(), reward.String())
	}

	// attached value lands wrapped on the vault account
	if env.ether.BalanceOf(etherVaultAcc).Cmp(attached) != 0 {
		t.Fatal("the wrapped attached value must sit on the vault account")
	}
	locked := env.bus.Vault(types.CurrencyEther)
	if locked.Account() != etherVaultAcc {
		t.Fatal("wrong vault account")
	}
}

func TestCommitEtherWithoutValue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.agreement.Accept(participantOne)

	assertCode(t, env.sale.CommitEther(participantOne, big.NewInt(0)), code.InvalidArgument)
	assertCode(t, env.sale.CommitEther(participantOne, nil), code.InvalidArgument)
}

func TestCommitEtherTicketUselessInPublic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	attached := helpers.Uint64ToUlps(10)
	if err := env.sale.RegisterTicket(adminAccount, participantOne, types.CurrencyEther, attached); err != nil {
		t.Fatal(err)
	}

	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.agreement.Accept(participantOne)

	if err := env.sale.CommitEther(participantOne, attached); err != nil {
		t.Fatal(err)
	}

	// the forfeited ticket plays no part, the whole commitment is
	// priced by the curve
	reference := big.NewInt(0).Mul(attached, big.NewInt(0).SetUint64(env.cfg.Sale.EtherEuroFraction))
	if env.sale.CumulativeIssued().Cmp(reference) != 0 {
		t.Fatalf("expected %s reference units issued, got %s",
			reference.String(), env.sale.CumulativeIssued().String())
	}
	_, _, remaining := env.sale.TicketOf(participantOne)
	if remaining.Sign() != 1 {
		t.Fatal("the forfeited ticket's remainder must stay in place")
	}
}

func TestCommitCrossCurrencyTicketNotConsumed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	reward := env.registerEuroTicket(t, participantOne, 1000)

	env.clock.current = saleStart.Add(time.Minute)
	env.agreement.Accept(participantOne)

	// an ether commitment cannot draw from a reference-currency ticket,
	// and without a consumable ticket the whitelist rejects it outright
	err := env.sale.CommitEther(participantOne, helpers.Uint64ToUlps(10))
	assertCode(t, err, code.PartialCommitmentNotAllowed)

	_, _, remaining := env.sale.TicketOf(participantOne)
	if remaining.Cmp(reward) != 0 {
		t.Fatal("the reference-currency ticket must stay untouched")
	}
}

func TestCommitmentEventEmitted(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.fundEuro(participantOne, 500)

	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}

	// the time-triggered advance committed as its own operation under
	// the first sequence, the commitment record follows under the next
	loaded := env.bus.Events().LoadEvents(2)
	var commitment *events.CommitmentEvent
	for _, event := range loaded {
		if c, ok := event.(*events.CommitmentEvent); ok {
			commitment = c
		}
	}
	if commitment == nil {
		t.Fatal("expected a commitment event")
	}
	if commitment.Address != participantOne {
		t.Fatal("commitment event carries the wrong participant")
	}
	if commitment.RewardAsset != env.cfg.Sale.RewardSymbol {
		t.Fatalf("wrong reward asset %q", commitment.RewardAsset)
	}
	if commitment.Reward != env.reward.BalanceOf(participantOne).String() {
		t.Fatal("commitment event reward does not match the minted balance")
	}
}

func TestCommitEtherAllowanceOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.fundEther(participantOne, 10)

	if err := env.sale.CommitEther(participantOne, nil); err != nil {
		t.Fatal(err)
	}

	fraction := big.NewInt(0).SetUint64(env.cfg.Sale.EtherEuroFraction)
	reference := big.NewInt(0).Mul(helpers.Uint64ToUlps(10), fraction)
	if env.sale.CumulativeIssued().Cmp(reference) != 0 {
		t.Fatalf("expected %s reference units issued, got %s",
			reference.String(), env.sale.CumulativeIssued().String())
	}

	// the pulled allowance is consumed and sits wrapped on the vault
	if env.ether.Allowance(participantOne, saleAccount).Sign() != 0 {
		t.Fatal("the allowance must be consumed")
	}
	if env.ether.BalanceOf(participantOne).Sign() != 0 {
		t.Fatal("the participant's wrapped funds must be gone")
	}
	if env.ether.BalanceOf(etherVaultAcc).Cmp(helpers.Uint64ToUlps(10)) != 0 {
		t.Fatal("the pulled funds must sit on the vault account")
	}
}

func TestCommitEtherAllowancePlusAttached(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	total := helpers.Uint64ToUlps(15)
	if err := env.sale.RegisterTicket(adminAccount, participantOne, types.CurrencyEther, total); err != nil {
		t.Fatal(err)
	}
	reward := env.sale.ReservedReward(types.CurrencyEther)

	env.clock.current = saleStart.Add(time.Minute)
	env.fundEther(participantOne, 5)

	if err := env.sale.CommitEther(participantOne, helpers.Uint64ToUlps(10)); err != nil {
		t.Fatal(err)
	}

	// allowance and attached value settle as one sum, draining the ticket
	_, _, remaining := env.sale.TicketOf(participantOne)
	if remaining.Sign() != 0 {
		t.Fatal("the combined commitment must drain the ticket")
	}
	if env.ether.Allowance(participantOne, saleAccount).Sign() != 0 {
		t.Fatal("the allowance must be consumed")
	}
	if env.ether.BalanceOf(etherVaultAcc).Cmp(total) != 0 {
		t.Fatal("both legs must land wrapped on the vault account")
	}

	minted := big.NewInt(0).Add(
		env.reward.BalanceOf(participantOne),
		env.reward.BalanceOf(env.cfg.Platform()))
	if minted.Cmp(reward) != 0 {
		t.Fatalf("minted %s, ticket reserved %s", minted.String(), reward.String())
	}
}

func TestCommitEtherAllowanceExceedsBalance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)

	env.agreement.Accept(participantOne)
	env.ether.Approve(participantOne, saleAccount, helpers.Uint64ToUlps(10))

	assertCode(t, env.sale.CommitEther(participantOne, nil), code.TransferFailed)

	if env.sale.CumulativeIssued().Sign() != 0 {
		t.Fatal("a failed pull must rewind the curve")
	}
	if env.reward.BalanceOf(participantOne).Sign() != 0 || env.reward.BalanceOf(env.cfg.Platform()).Sign() != 0 {
		t.Fatal("a failed pull must burn the minted rewards back")
	}

	// the instance keeps accepting good commitments
	if err := env.ether.Mint(participantOne, helpers.Uint64ToUlps(10)); err != nil {
		t.Fatal(err)
	}
	if err := env.sale.CommitEther(participantOne, nil); err != nil {
		t.Fatal(err)
	}
}

func TestCommitEuroRewardOverflowLeavesLedgersUntouched(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.current = env.cfg.PublicStart().Add(time.Minute)
	env.fundEuro(participantOne, 500)

	// saturate the reward supply so the platform leg must overflow after
	// the participant leg minted
	expected := env.curve.CumulativeAt(helpers.Uint64ToUlps(500))
	platform := big.NewInt(0).Add(expected, big.NewInt(1))
	platform.Div(platform, big.NewInt(2))
	participant := big.NewInt(0).Sub(expected, platform)
	headroom := big.NewInt(0).Add(participant, big.NewInt(0).Div(platform, big.NewInt(2)))
	saturation := big.NewInt(0).Sub(helpers.MaxAmount, headroom)
	if err := env.reward.Mint(strangerAccount, saturation); err != nil {
		t.Fatal(err)
	}

	assertCode(t, env.sale.CommitEuro(participantOne), code.ArithmeticOverflow)

	if env.reward.BalanceOf(participantOne).Sign() != 0 {
		t.Fatal("the participant leg must be burned back")
	}
	if env.reward.TotalSupply().Cmp(saturation) != 0 {
		t.Fatal("the reward supply must return to its pre-operation value")
	}
	if env.euro.BalanceOf(participantOne).Cmp(helpers.Uint64ToUlps(500)) != 0 {
		t.Fatal("the participant's funds must stay in place")
	}
	if env.euro.Allowance(participantOne, saleAccount).Cmp(helpers.Uint64ToUlps(500)) != 0 {
		t.Fatal("the allowance must stay in place")
	}
	if env.sale.CumulativeIssued().Sign() != 0 {
		t.Fatal("the curve must rewind")
	}

	// with the headroom back the same commitment settles
	if err := env.reward.Burn(strangerAccount, saturation); err != nil {
		t.Fatal(err)
	}
	if err := env.sale.CommitEuro(participantOne); err != nil {
		t.Fatal(err)
	}
}
