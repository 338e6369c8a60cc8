package tickets

import (
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/types"
	"github.com/KSingh1980/ico-contracts/helpers"
)

// Model is one participant's priority reservation. Both remaining fields
// only ever decrease toward zero; the record is never deleted, only
// zeroed by consumption.
type Model struct {
	Currency           types.Currency
	RemainingReference *big.Int
	RemainingReward    *big.Int

	lock sync.RWMutex
}

// Consume drains up to reference units from the reservation. The reward
// taken is the proportional share of the remaining reward, rounded down
// and capped so it never exceeds what is left.
func (m *Model) Consume(reference *big.Int) (consumedReference *big.Int, consumedReward *big.Int) {
	m.lock.Lock()
	defer m.lock.Unlock()

	consumedReference = big.NewInt(0).Set(reference)
	if consumedReference.Cmp(m.RemainingReference) == 1 {
		consumedReference.Set(m.RemainingReference)
	}

	if consumedReference.Sign() == 0 || m.RemainingReference.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0)
	}

	consumedReward = helpers.ProportionOf(m.RemainingReward, consumedReference, m.RemainingReference)

	m.RemainingReference = big.NewInt(0).Sub(m.RemainingReference, consumedReference)
	m.RemainingReward = big.NewInt(0).Sub(m.RemainingReward, consumedReward)

	return consumedReference, consumedReward
}

func (m *Model) copy() *Model {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return &Model{
		Currency:           m.Currency,
		RemainingReference: big.NewInt(0).Set(m.RemainingReference),
		RemainingReward:    big.NewInt(0).Set(m.RemainingReward),
	}
}
