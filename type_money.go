package commission

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value.
type Money struct {
	value  decimal.Decimal // as major unit value
	cur    string
	digits int32 // fraction digits used by String
}

// M returns a Money in the given currency, printed with the currency's fraction digits.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency, digits: fraction(currency)}
}

// fraction returns the number of fraction digits of a currency, 2 when unknown.
func fraction(code string) int32 {
	if c := money.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the value as a fixed decimal number, without currency symbol.
// Commissions are written this way: "3.00", "0.50".
func (m Money) String() string { return m.value.StringFixed(m.digits) }

// Display returns the value formatted for humans with the currency symbol, like "€3.00".
// It keeps the money's own digits when they exceed the currency's fraction, and never rounds
// down.
func (m Money) Display() string {
	cur := m.currency()
	f := *cur.Formatter()
	if int(m.digits) > f.Fraction {
		f.Fraction = int(m.digits)
	}
	return f.Format(m.value.Shift(int32(f.Fraction)).Ceil().IntPart())
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }

// Add returns the sum of m and n, keeping the largest precision of both.
func (m Money) Add(n Money) Money {
	digits := m.digits
	if n.digits > digits {
		digits = n.digits
	}
	return Money{value: m.value.Add(n.value), cur: cur(m, n), digits: digits}
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value.Round(m.digits))
	return w.MarshalJSON()
}
