package formula

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/KSingh1980/ico-contracts/core/code"
)

const precision = 1024

func newFloat(x float64) *big.Float {
	return big.NewFloat(x).SetPrec(precision)
}

// Curve is the reward issuance curve. Cumulative reward approaches
// rewardCap asymptotically as reference input grows:
//
//	R(n) = rewardCap * (1 - e^(-rate * n / rewardCap))
//
// The curve owns the cumulative issuance counter; minting through Issue
// advances it, BurnReward rewinds it by the exact inverse.
type Curve struct {
	rewardCap *big.Int
	rate      *big.Float
	issued    *big.Int

	lock sync.RWMutex
}

// DefaultIssuanceRate is the reward-per-reference-unit slope at zero
// issuance.
const DefaultIssuanceRate = 6.5

func NewCurve(rewardCap *big.Int) *Curve {
	return NewCurveWithRate(rewardCap, DefaultIssuanceRate)
}

func NewCurveWithRate(rewardCap *big.Int, rate float64) *Curve {
	if rewardCap.Sign() != 1 {
		panic("reward cap must be positive")
	}
	if rate <= 0 {
		panic("issuance rate must be positive")
	}

	return &Curve{
		rewardCap: big.NewInt(0).Set(rewardCap),
		rate:      newFloat(rate),
		issued:    big.NewInt(0),
	}
}

// CumulativeAt returns total reward minted after n reference units of
// cumulative input, rounded down.
func (c *Curve) CumulativeAt(n *big.Int) *big.Int {
	if n.Sign() == 0 {
		return big.NewInt(0)
	}

	tCap := newFloat(0).SetInt(c.rewardCap)
	tN := newFloat(0).SetInt(n)

	x := newFloat(0).Mul(c.rate, tN) // rate * n
	x.Quo(x, tCap)                   // rate * n / cap
	x.Neg(x)
	e := Exp(x)                    // e^(-rate * n / cap)
	res := newFloat(0).Sub(newFloat(1), e) // 1 - e^(-rate * n / cap)
	res.Mul(res, tCap)                     // cap * (1 - e^(-rate * n / cap))

	result, _ := res.Int(nil)

	return result
}

// CumulativeIssued returns a copy of the cumulative reference input
// issued against the curve so far.
func (c *Curve) CumulativeIssued() *big.Int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return big.NewInt(0).Set(c.issued)
}

// Issue mints the reward for delta reference units at the current point
// of the curve and advances cumulative issuance by delta.
func (c *Curve) Issue(delta *big.Int) (*big.Int, error) {
	if delta.Sign() == -1 {
		return nil, code.NewError(code.InvalidArgument,
			"cannot issue a negative reference amount",
			code.NewInvalidArgument("negative issue amount"))
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	before := c.CumulativeAt(c.issued)
	next := big.NewInt(0).Add(c.issued, delta)
	after := c.CumulativeAt(next)

	c.issued = next

	return after.Sub(after, before), nil
}

// DeltaForReward returns the smallest reference delta whose issuance at
// the current curve point mints at least the wanted reward. It does not
// advance the curve.
func (c *Curve) DeltaForReward(reward *big.Int) (*big.Int, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if reward.Sign() == -1 {
		return nil, code.NewError(code.InvalidArgument,
			"cannot invert a negative reward",
			code.NewInvalidArgument("negative reward"))
	}

	remaining := big.NewInt(0).Sub(c.rewardCap, c.CumulativeAt(c.issued))
	if reward.Cmp(remaining) >= 0 {
		return nil, code.NewError(code.InvalidArgument,
			fmt.Sprintf("reward %s is beyond curve capacity %s", reward.String(), remaining.String()),
			code.NewInvalidArgument("reward beyond curve capacity"))
	}

	before := c.CumulativeAt(c.issued)

	// search the smallest delta with R(issued+delta)-R(issued) >= reward
	lo := big.NewInt(0)
	hi := big.NewInt(1)
	for {
		point := big.NewInt(0).Add(c.issued, hi)
		minted := big.NewInt(0).Sub(c.CumulativeAt(point), before)
		if minted.Cmp(reward) >= 0 {
			break
		}
		hi.Lsh(hi, 1)
	}

	one := big.NewInt(1)
	for lo.Cmp(hi) == -1 {
		mid := big.NewInt(0).Add(lo, hi)
		mid.Rsh(mid, 1)
		point := big.NewInt(0).Add(c.issued, mid)
		minted := big.NewInt(0).Sub(c.CumulativeAt(point), before)
		if minted.Cmp(reward) >= 0 {
			hi.Set(mid)
		} else {
			lo.Add(mid, one)
		}
	}

	return lo, nil
}

// BurnReward rewinds the curve by the reference delta backing the burned
// reward and returns that delta. The delta is the smallest amount whose
// removal releases at least the burned reward.
func (c *Curve) BurnReward(reward *big.Int) (*big.Int, error) {
	if reward.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if reward.Sign() == -1 {
		return nil, code.NewError(code.InvalidArgument,
			"cannot burn a negative reward",
			code.NewInvalidArgument("negative burn amount"))
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	at := c.CumulativeAt(c.issued)
	if reward.Cmp(at) == 1 {
		return nil, code.NewError(code.ArithmeticUnderflow,
			fmt.Sprintf("cannot burn %s, only %s minted", reward.String(), at.String()),
			code.NewArithmeticUnderflow(at.String(), reward.String()))
	}

	// search the smallest d with R(issued)-R(issued-d) >= reward
	lo := big.NewInt(0)
	hi := big.NewInt(0).Set(c.issued)
	one := big.NewInt(1)
	for lo.Cmp(hi) == -1 {
		mid := big.NewInt(0).Add(lo, hi)
		mid.Rsh(mid, 1)
		point := big.NewInt(0).Sub(c.issued, mid)
		released := big.NewInt(0).Sub(at, c.CumulativeAt(point))
		if released.Cmp(reward) >= 0 {
			hi.Set(mid)
		} else {
			lo.Add(mid, one)
		}
	}

	c.issued.Sub(c.issued, lo)

	return lo, nil
}

// Restore rewinds cumulative issuance to a previously observed value.
// Supports all-or-nothing settlement rollback, never moves forward.
func (c *Curve) Restore(issued *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if issued.Cmp(c.issued) == 1 {
		panic("curve restore point is ahead of cumulative issuance")
	}

	c.issued = big.NewInt(0).Set(issued)
}
