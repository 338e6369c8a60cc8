package cmd

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"

	"github.com/KSingh1980/ico-contracts/config"
	"github.com/KSingh1980/ico-contracts/core/access"
	"github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/sale"
	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/token"
	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/core/vault"
	"github.com/KSingh1980/ico-contracts/formula"
	"github.com/KSingh1980/ico-contracts/helpers"
	"github.com/KSingh1980/ico-contracts/log"
)

var (
	engineAccount     = types.HexToAddress("0x0000000000000000000000000000000000000001")
	etherVaultAccount = types.HexToAddress("0x0000000000000000000000000000000000000002")
	euroVaultAccount  = types.HexToAddress("0x0000000000000000000000000000000000000003")
)

var RunSale = &cobra.Command{
	Use:   "run",
	Short: "Run the configured sale script",
	RunE:  runSale,
}

func runSale(cmd *cobra.Command, args []string) error {
	log.InitLog(cfg)
	logger := log.Logger()

	stateBus := bus.NewBus()
	stateBus.SetCurve(formula.NewCurve(cfg.RewardCapUlps()))
	reward := token.NewLedger(cfg.Sale.RewardSymbol)
	stateBus.SetRewardToken(reward)

	ether := token.NewLedger("WETH")
	euro := token.NewLedger("EURT")
	stateBus.SetCurrencyToken(types.CurrencyEther, ether)
	stateBus.SetCurrencyToken(types.CurrencyEuro, euro)
	stateBus.SetVault(types.CurrencyEther, vault.NewVault(etherVaultAccount, ether))
	stateBus.SetVault(types.CurrencyEuro, vault.NewVault(euroVaultAccount, euro))

	admin := cfg.Admin()
	policy := access.NewPolicy()
	policy.Allow(admin, access.RoleWhitelistAdmin, cfg.Sale.ID)
	policy.Allow(admin, access.RoleSaleAdmin, cfg.Sale.ID)
	stateBus.SetAccess(policy)

	agreement := access.NewAcknowledgments()
	stateBus.SetAgreement(agreement)

	eventsDB := db.DB(db.NewMemDB())
	if cfg.EventsPath != "" {
		var err error
		eventsDB, err = db.NewGoLevelDB("events", cfg.EventsPath)
		if err != nil {
			return errors.Wrap(err, "open events db")
		}
	}
	stateBus.SetEvents(events.NewEventsStore(eventsDB))

	clock := &scriptClock{current: cfg.Sale.StartDate.Add(-time.Hour)}
	engine, err := sale.NewSaleAt(cfg, engineAccount, stateBus, logger, clock.now)
	if err != nil {
		return err
	}

	for i, step := range cfg.Script {
		clock.current = cfg.Sale.StartDate.Add(step.Offset)

		if err := runStep(engine, agreement, euro, &step); err != nil {
			return errors.Wrapf(err, "script step %d (%s)", i, step.Op)
		}
	}

	logger.Info("script finished",
		"phase", engine.Phase().String(),
		"issued", engine.CumulativeIssued().String(),
		"reward_supply", reward.TotalSupply().String(),
		"participants", engine.WhitelistedCount())

	return nil
}

type scriptClock struct {
	current time.Time
}

func (c *scriptClock) now() time.Time {
	return c.current
}

func runStep(engine *sale.Sale, agreement *access.Acknowledgments, euro *token.Ledger, step *config.ScriptStep) error {
	admin := cfg.Admin()

	switch step.Op {
	case "register":
		currency := types.CurrencyFromString(step.Currency)
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		return engine.RegisterTicket(admin, types.HexToAddress(step.Participant), currency, amount)

	case "commit_euro":
		participant := types.HexToAddress(step.Participant)
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		// the simulated participant accepts the agreement and holds
		// the funds it commits
		agreement.Accept(participant)
		if err := euro.Mint(participant, amount); err != nil {
			return err
		}
		euro.Approve(participant, engineAccount, amount)

		return engine.CommitEuro(participant)

	case "commit_ether":
		participant := types.HexToAddress(step.Participant)
		amount, err := parseAmount(step.Amount)
		if err != nil {
			return err
		}

		agreement.Accept(participant)

		return engine.CommitEther(participant, amount)

	case "abort":
		return engine.Abort(admin)

	case "finish":
		return engine.Finish(admin)
	}

	return errors.Errorf("unknown script op %q", step.Op)
}

func parseAmount(s string) (*big.Int, error) {
	if !helpers.IsValidBigInt(s) {
		return nil, errors.Errorf("invalid amount %q", s)
	}

	return helpers.StringToBigInt(s), nil
}
