package bus

import (
	"math/big"

	"github.com/KSingh1980/ico-contracts/core/types"
)

// Checker observes every reserved-reward movement so per-operation
// bookkeeping can be cross-checked: counter-level and ticket-level
// deltas of one operation must agree.
type Checker interface {
	AddReserved(types.Currency, *big.Int)
	AddTicketReward(types.Currency, *big.Int)
	AddForfeit(types.Currency, *big.Int)
}
