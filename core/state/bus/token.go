package bus

import (
	"math/big"

	"github.com/KSingh1980/ico-contracts/core/types"
)

// RewardToken is the fungible ledger of the reward asset.
type RewardToken interface {
	Mint(to types.Address, amount *big.Int) error
	Burn(from types.Address, amount *big.Int) error
	Transfer(from, to types.Address, amount *big.Int) error
	BalanceOf(owner types.Address) *big.Int
	Symbol() string
}

// CurrencyToken is a pull-payment source for one accepted payment
// currency: pre-approved allowances are pulled, raw attached value is
// wrapped into ledger form through Deposit.
type CurrencyToken interface {
	Allowance(owner, spender types.Address) *big.Int
	PullTransfer(owner, spender types.Address, amount *big.Int) error
	Deposit(to types.Address, amount *big.Int) error
	Transfer(from, to types.Address, amount *big.Int) error
	BalanceOf(owner types.Address) *big.Int
}
