package types

// Currency is a tag for the payment currencies accepted by the sale.
// CurrencyNone is the sentinel for "no ticket".
type Currency uint32

const (
	CurrencyNone Currency = iota
	CurrencyEther
	CurrencyEuro
)

func (c Currency) String() string {
	switch c {
	case CurrencyNone:
		return "NONE"
	case CurrencyEther:
		return "ETH"
	case CurrencyEuro:
		return "EUR"
	}

	return "UNKNOWN"
}

// CurrencyFromString parses a currency tag, returning CurrencyNone for
// anything unknown.
func CurrencyFromString(s string) Currency {
	switch s {
	case "ETH":
		return CurrencyEther
	case "EUR":
		return CurrencyEuro
	}

	return CurrencyNone
}

// IsAccepted reports whether the currency is one of the two accepted
// payment currencies.
func (c Currency) IsAccepted() bool {
	return c == CurrencyEther || c == CurrencyEuro
}
