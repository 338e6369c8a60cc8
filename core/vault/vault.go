package vault

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/code"
	"github.com/KSingh1980/ico-contracts/core/state/bus"
	"github.com/KSingh1980/ico-contracts/core/types"
)

// Item is one participant's locked funds together with the reward that
// was granted for them.
type Item struct {
	Address types.Address
	Amount  *big.Int
	Reward  *big.Int
}

// Vault is the custody lock-up for one payment currency. Funds locked
// during the sale can be withdrawn only after the one-way
// OnSaleSucceeded release.
type Vault struct {
	account  types.Address
	token    bus.CurrencyToken
	list     map[types.Address]*Item
	released bool

	lock sync.RWMutex
}

func NewVault(account types.Address, token bus.CurrencyToken) *Vault {
	return &Vault{
		account: account,
		token:   token,
		list:    map[types.Address]*Item{},
	}
}

// Account returns the vault's own ledger identity, the destination of
// locked funds.
func (v *Vault) Account() types.Address {
	return v.account
}

// Lock records custody of amount for the participant. Repeated locks
// accumulate. Funds must already sit on the vault's account.
func (v *Vault) Lock(participant types.Address, amount, reward *big.Int) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.released {
		return code.NewError(code.WrongPhase, "vault is already released",
			code.NewWrongPhase("released", "locked"))
	}

	item, exists := v.list[participant]
	if !exists {
		item = &Item{
			Address: participant,
			Amount:  big.NewInt(0),
			Reward:  big.NewInt(0),
		}
		v.list[participant] = item
	}

	item.Amount.Add(item.Amount, amount)
	item.Reward.Add(item.Reward, reward)

	return nil
}

// OnSaleSucceeded releases the vault. Irreversible.
func (v *Vault) OnSaleSucceeded() {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.released = true
}

func (v *Vault) Released() bool {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.released
}

// LockedOf returns a copy of the participant's custody record or nil.
func (v *Vault) LockedOf(participant types.Address) *Item {
	v.lock.RLock()
	defer v.lock.RUnlock()

	item, exists := v.list[participant]
	if !exists {
		return nil
	}

	return &Item{
		Address: item.Address,
		Amount:  big.NewInt(0).Set(item.Amount),
		Reward:  big.NewInt(0).Set(item.Reward),
	}
}

// Withdraw pays the participant's locked funds back out of the vault
// account. Only available after release.
func (v *Vault) Withdraw(participant types.Address) (*big.Int, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if !v.released {
		return nil, code.NewError(code.WrongPhase, "vault is not released yet",
			code.NewWrongPhase("locked", "released"))
	}

	item, exists := v.list[participant]
	if !exists || item.Amount.Sign() == 0 {
		return nil, code.NewError(code.InvalidArgument,
			fmt.Sprintf("no locked funds for %s", participant.String()),
			code.NewInvalidArgument("no locked funds"))
	}

	amount := big.NewInt(0).Set(item.Amount)
	if err := v.token.Transfer(v.account, participant, amount); err != nil {
		return nil, err
	}

	item.Amount = big.NewInt(0)

	return amount, nil
}
