package formula

import (
	"math/big"
)

// Exp returns a big.Float representation of e**z. Precision is the same
// as the one of the argument. Computed by argument halving down to a
// small value, a Taylor expansion there, and repeated squaring back.
func Exp(z *big.Float) *big.Float {
	prec := z.Prec()

	if z.Sign() == 0 {
		return big.NewFloat(1).SetPrec(prec)
	}

	// Exp(-z) = 1 / Exp(z)
	if z.Sign() < 0 {
		x := new(big.Float).SetPrec(prec + 64)
		zNeg := new(big.Float).Neg(z)
		return x.Quo(big.NewFloat(1), Exp(zNeg.SetPrec(prec+64))).SetPrec(prec)
	}

	guard := prec + 64
	x := new(big.Float).Copy(z).SetPrec(guard)

	// reduce x below 1/2 so that the series converges quickly
	half := big.NewFloat(0.5).SetPrec(guard)
	var squarings uint
	for x.Cmp(half) > 0 {
		x.Mul(x, half)
		squarings++
	}

	// e^x = sum x^i / i!
	sum := big.NewFloat(1).SetPrec(guard)
	term := big.NewFloat(1).SetPrec(guard)
	lim := new(big.Float).SetMantExp(big.NewFloat(1).SetPrec(guard), -int(guard))

	for i := int64(1); ; i++ {
		term.Mul(term, x)
		term.Quo(term, big.NewFloat(float64(i)).SetPrec(guard))
		sum.Add(sum, term)

		if new(big.Float).Abs(term).Cmp(lim) < 0 {
			break
		}
	}

	for i := uint(0); i < squarings; i++ {
		sum.Mul(sum, sum)
	}

	return sum.SetPrec(prec)
}
