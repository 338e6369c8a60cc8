package bus

import (
	eventsdb "github.com/KSingh1980/ico-contracts/core/events"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Bus wires the sale engine to its collaborators. Every collaborator is
// consumed through an interface declared in this package; the engine
// never reaches past these contracts.
type Bus struct {
	curve       Curve
	rewardToken RewardToken
	etherToken  CurrencyToken
	euroToken   CurrencyToken
	etherVault  Vault
	euroVault   Vault
	access      Access
	agreement   Agreement
	checker     Checker
	events      eventsdb.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetCurve(curve Curve) {
	b.curve = curve
}

func (b *Bus) Curve() Curve {
	return b.curve
}

func (b *Bus) SetRewardToken(token RewardToken) {
	b.rewardToken = token
}

func (b *Bus) RewardToken() RewardToken {
	return b.rewardToken
}

func (b *Bus) SetCurrencyToken(currency types.Currency, token CurrencyToken) {
	switch currency {
	case types.CurrencyEther:
		b.etherToken = token
	case types.CurrencyEuro:
		b.euroToken = token
	default:
		panic("unknown currency for token")
	}
}

func (b *Bus) CurrencyToken(currency types.Currency) CurrencyToken {
	switch currency {
	case types.CurrencyEther:
		return b.etherToken
	case types.CurrencyEuro:
		return b.euroToken
	}

	return nil
}

func (b *Bus) SetVault(currency types.Currency, vault Vault) {
	switch currency {
	case types.CurrencyEther:
		b.etherVault = vault
	case types.CurrencyEuro:
		b.euroVault = vault
	default:
		panic("unknown currency for vault")
	}
}

func (b *Bus) Vault(currency types.Currency) Vault {
	switch currency {
	case types.CurrencyEther:
		return b.etherVault
	case types.CurrencyEuro:
		return b.euroVault
	}

	return nil
}

func (b *Bus) SetAccess(access Access) {
	b.access = access
}

func (b *Bus) Access() Access {
	return b.access
}

func (b *Bus) SetAgreement(agreement Agreement) {
	b.agreement = agreement
}

func (b *Bus) Agreement() Agreement {
	return b.agreement
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetEvents(events eventsdb.IEventsDB) {
	b.events = events
}

func (b *Bus) Events() eventsdb.IEventsDB {
	return b.events
}
