package bus

import (
	"math/big"

	"github.com/KSingh1980/ico-contracts/core/types"
)

// Vault is the custody lock-up for one accepted payment currency.
// OnSaleSucceeded is a one-way irreversible unlock.
type Vault interface {
	Lock(participant types.Address, amount, reward *big.Int) error
	OnSaleSucceeded()
	Released() bool
	Account() types.Address
}
