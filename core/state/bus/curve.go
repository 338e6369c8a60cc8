package bus

import (
	"math/big"
)

// Curve is the opaque issuance curve: a monotonic function of cumulative
// reference input with an exact inverse. Issuing advances cumulative
// issuance; burning rewinds it.
type Curve interface {
	Issue(delta *big.Int) (*big.Int, error)
	DeltaForReward(reward *big.Int) (*big.Int, error)
	BurnReward(reward *big.Int) (*big.Int, error)
	CumulativeIssued() *big.Int

	// Restore rewinds cumulative issuance to a previously observed
	// value, supporting all-or-nothing settlement rollback.
	Restore(issued *big.Int)
}
