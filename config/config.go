package config

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/helpers"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"
)

// Numeric bounds enforced at construction and never relaxed. Whole
// reference-currency units.
const (
	MinCapEuro = 1000000
	MaxCapEuro = 1000000000

	MinTicketEuroLower = 100
	MinTicketEuroUpper = 100000

	MinEtherEuroFraction = 100
	MaxEtherEuroFraction = 10000

	// PlatformShareDivisor is fixed: the platform receives the rounded
	// half of every minted reward.
	PlatformShareDivisor = 2
)

type Config struct {
	LogPath   string `mapstructure:"log_path"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// EventsPath is the directory of the persistent event log. Empty
	// keeps events in memory.
	EventsPath string `mapstructure:"events_path"`

	Sale   SaleConfig   `mapstructure:"sale"`
	Script []ScriptStep `mapstructure:"script"`
}

// ScriptStep is one action of the scripted sale runner. Steps run in
// order; Offset moves the runner's clock relative to the start date
// before the action fires.
type ScriptStep struct {
	Op          string        `mapstructure:"op"` // register, commit_ether, commit_euro, finish
	Participant string        `mapstructure:"participant"`
	Currency    string        `mapstructure:"currency"`
	Amount      string        `mapstructure:"amount"` // 18-decimal fixed point
	Offset      time.Duration `mapstructure:"offset"`
}

// SaleConfig carries the parameters of one token-issuance event.
type SaleConfig struct {
	// ID is the access-policy object of this sale.
	ID string `mapstructure:"id"`

	// StartDate anchors the phase timers: Whitelist starts here,
	// Public at StartDate+WhitelistDuration. Finished has no timer.
	StartDate         time.Time     `mapstructure:"start_date"`
	WhitelistDuration time.Duration `mapstructure:"whitelist_duration"`

	// Whole reference-currency units.
	CapEuro       uint64 `mapstructure:"cap_euro"`
	MinTicketEuro uint64 `mapstructure:"min_ticket_euro"`

	// RewardCap is the asymptotic issuance bound of the reward curve,
	// whole reward units.
	RewardCap uint64 `mapstructure:"reward_cap"`

	// Reference units per one ether.
	EtherEuroFraction uint64 `mapstructure:"ether_euro_fraction"`

	PlatformAddress string `mapstructure:"platform_address"`
	RewardSymbol    string `mapstructure:"reward_symbol"`

	// AdminAddress holds both admin roles in the scripted runner.
	AdminAddress string `mapstructure:"admin_address"`
}

func DefaultConfig() *Config {
	return &Config{
		LogPath:   "stdout",
		LogLevel:  "info",
		LogFormat: LogFormatPlain,
		Sale: SaleConfig{
			ID:                "sale-1",
			WhitelistDuration: 5 * 24 * time.Hour,
			CapEuro:           200000000,
			MinTicketEuro:     300,
			RewardCap:         1500000000,
			EtherEuroFraction: 218,
			PlatformAddress:   "0x00000000000000000000000000000000000000fe",
			RewardSymbol:      "ICX",
			AdminAddress:      "0x00000000000000000000000000000000000000ff",
		},
	}
}

// Validate enforces the construction-time bounds.
func (cfg *Config) Validate() error {
	sale := cfg.Sale

	if sale.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if sale.WhitelistDuration <= 0 {
		return errors.New("whitelist_duration must be positive")
	}
	if sale.CapEuro < MinCapEuro || sale.CapEuro > MaxCapEuro {
		return errors.Errorf("cap_euro %d out of range [%d, %d]", sale.CapEuro, MinCapEuro, MaxCapEuro)
	}
	if sale.MinTicketEuro < MinTicketEuroLower || sale.MinTicketEuro > MinTicketEuroUpper {
		return errors.Errorf("min_ticket_euro %d out of range [%d, %d]", sale.MinTicketEuro, MinTicketEuroLower, MinTicketEuroUpper)
	}
	if sale.RewardCap == 0 {
		return errors.New("reward_cap must be positive")
	}
	if sale.EtherEuroFraction < MinEtherEuroFraction || sale.EtherEuroFraction > MaxEtherEuroFraction {
		return errors.Errorf("ether_euro_fraction %d out of range [%d, %d]", sale.EtherEuroFraction, MinEtherEuroFraction, MaxEtherEuroFraction)
	}
	if !types.IsHexAddress(sale.PlatformAddress) {
		return errors.Errorf("platform_address %q is not a valid address", sale.PlatformAddress)
	}
	if sale.RewardSymbol == "" {
		return errors.New("reward_symbol is required")
	}
	if sale.AdminAddress != "" && !types.IsHexAddress(sale.AdminAddress) {
		return errors.Errorf("admin_address %q is not a valid address", sale.AdminAddress)
	}

	switch cfg.LogFormat {
	case LogFormatPlain, LogFormatJSON:
	default:
		return errors.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return nil
}

// CapUlps returns the funding cap in reference ulps.
func (cfg *Config) CapUlps() *big.Int {
	return helpers.Uint64ToUlps(cfg.Sale.CapEuro)
}

// RewardCapUlps returns the curve's issuance bound in reward ulps.
func (cfg *Config) RewardCapUlps() *big.Int {
	return helpers.Uint64ToUlps(cfg.Sale.RewardCap)
}

// MinTicketUlps returns the minimum contribution in reference ulps.
func (cfg *Config) MinTicketUlps() *big.Int {
	return helpers.Uint64ToUlps(cfg.Sale.MinTicketEuro)
}

// Platform returns the platform reward account.
func (cfg *Config) Platform() types.Address {
	return types.HexToAddress(cfg.Sale.PlatformAddress)
}

// Admin returns the account holding both admin roles in the scripted
// runner.
func (cfg *Config) Admin() types.Address {
	return types.HexToAddress(cfg.Sale.AdminAddress)
}

// PublicStart returns the instant the Public phase opens.
func (cfg *Config) PublicStart() time.Time {
	return cfg.Sale.StartDate.Add(cfg.Sale.WhitelistDuration)
}
