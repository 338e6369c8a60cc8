package helpers

import (
	"fmt"
	"math/big"

	"github.com/KSingh1980/ico-contracts/core/code"
)

// MaxAmount bounds every ledger amount to the 256-bit range used by the
// token ledgers. Checked arithmetic fails with ArithmeticOverflow past it.
var MaxAmount = big.NewInt(0).Sub(big.NewInt(0).Exp(big.NewInt(2), big.NewInt(256), nil), big.NewInt(1))

// EuroToUlps converts whole reference-currency units to ulps
// (multiplies input by 1e18)
func EuroToUlps(euro *big.Int) *big.Int {
	p := big.NewInt(10)
	p.Exp(p, big.NewInt(18), nil)
	p.Mul(p, euro)

	return p
}

// Uint64ToUlps converts whole reference-currency units to ulps
func Uint64ToUlps(euro uint64) *big.Int {
	return EuroToUlps(big.NewInt(0).SetUint64(euro))
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	if s == "" {
		panic("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		panic(fmt.Sprintf("Cannot decode %s into big.Int", s))
	}

	return b
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	if s == "" {
		return false
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return false
	}

	if b.Cmp(big.NewInt(0)) == -1 {
		return false
	}

	return true
}

// AddChecked returns a+b or ArithmeticOverflow when the sum leaves the
// ledger amount range.
func AddChecked(a, b *big.Int) (*big.Int, error) {
	sum := big.NewInt(0).Add(a, b)
	if sum.Cmp(MaxAmount) == 1 {
		return nil, code.NewError(code.ArithmeticOverflow,
			fmt.Sprintf("sum of %s and %s overflows amount range", a.String(), b.String()),
			code.NewArithmeticOverflow(sum.String(), MaxAmount.String()))
	}

	return sum, nil
}

// SubChecked returns a-b or ArithmeticUnderflow when the result would be
// negative.
func SubChecked(a, b *big.Int) (*big.Int, error) {
	if a.Cmp(b) == -1 {
		return nil, code.NewError(code.ArithmeticUnderflow,
			fmt.Sprintf("cannot subtract %s from %s", b.String(), a.String()),
			code.NewArithmeticUnderflow(a.String(), b.String()))
	}

	return big.NewInt(0).Sub(a, b), nil
}

// ProportionOf returns total*part/whole rounded down, capped at total.
// whole must be nonzero.
func ProportionOf(total, part, whole *big.Int) *big.Int {
	share := big.NewInt(0).Mul(total, part)
	share.Div(share, whole)

	if share.Cmp(total) == 1 {
		return big.NewInt(0).Set(total)
	}

	return share
}
