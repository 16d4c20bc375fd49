package commission

import (
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Default commission constants.
var (
	DefaultDepositRate         = D(0.0003) // 0.03% of a deposit
	DefaultDepositMax          = D(5)      // deposits never pay more than 5.00
	DefaultWithdrawalRate      = D(0.003)  // 0.3% of a withdrawal
	DefaultOrganizationMin     = D(0.5)    // organizations never pay less than 0.50 per withdrawal
	DefaultWeeklyFreeAllowance = D(1000)   // free withdrawals per individual and per week
)

// DefaultCurrency is the currency of every amount when none is configured.
const DefaultCurrency = "EUR"

// Rules holds the pricing constants. The zero value is not usable, start from DefaultRules.
type Rules struct {
	DepositRate         decimal.Decimal
	DepositMax          decimal.Decimal
	WithdrawalRate      decimal.Decimal
	OrganizationMin     decimal.Decimal
	WeeklyFreeAllowance decimal.Decimal
	Currency            string
	// Subunits is the number of smallest units in one unit of Currency, commissions are
	// rounded up to 1/Subunits. Zero means the currency's own subunit (100 for EUR).
	Subunits int64
}

// DefaultRules returns the standard pricing.
func DefaultRules() Rules {
	return Rules{
		DepositRate:         DefaultDepositRate,
		DepositMax:          DefaultDepositMax,
		WithdrawalRate:      DefaultWithdrawalRate,
		OrganizationMin:     DefaultOrganizationMin,
		WeeklyFreeAllowance: DefaultWeeklyFreeAllowance,
		Currency:            DefaultCurrency,
	}
}

// Validate checks that the rules can price transactions.
func (r Rules) Validate() error {
	var errs []error
	for name, v := range map[string]decimal.Decimal{
		"deposit rate":          r.DepositRate,
		"deposit max":           r.DepositMax,
		"withdrawal rate":       r.WithdrawalRate,
		"organization min":      r.OrganizationMin,
		"weekly free allowance": r.WeeklyFreeAllowance,
	} {
		if v.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, v))
		}
	}
	if money.GetCurrency(r.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", r.Currency))
	}
	if r.Subunits < 0 || (r.Subunits > 0 && digitsOf(r.Subunits) < 0) {
		errs = append(errs, fmt.Errorf("subunits must be a power of ten, got %d", r.Subunits))
	}
	return errors.Join(errs...)
}

// DepositCommission returns amount*DepositRate capped at DepositMax.
func (r Rules) DepositCommission(amount decimal.Decimal) decimal.Decimal {
	return minDecimal(amount.Mul(r.DepositRate), r.DepositMax)
}

// OrganizationWithdrawalCommission returns amount*WithdrawalRate but never less than
// OrganizationMin.
func (r Rules) OrganizationWithdrawalCommission(amount decimal.Decimal) decimal.Decimal {
	return maxDecimal(amount.Mul(r.WithdrawalRate), r.OrganizationMin)
}

// IndividualWithdrawalCommission returns the commission of an individual withdrawal when
// freeUsed of the weekly allowance is already consumed. Only the part of amount exceeding the
// remaining allowance is charged.
//
// It does not update the allowance, see QuotaLedger.Consume.
func (r Rules) IndividualWithdrawalCommission(amount, freeUsed decimal.Decimal) decimal.Decimal {
	freeLeft := r.WeeklyFreeAllowance.Sub(freeUsed)
	switch {
	case !freeLeft.IsPositive():
		return amount.Mul(r.WithdrawalRate)
	case amount.LessThanOrEqual(freeLeft):
		return decimal.Zero
	default:
		return amount.Sub(freeLeft).Mul(r.WithdrawalRate)
	}
}

// RoundUp rounds amount up to the next currency subunit, it never rounds down.
func (r Rules) RoundUp(amount decimal.Decimal) Money {
	sub := decimal.NewFromInt(r.subunits())
	return Money{
		value:  amount.Mul(sub).Ceil().Div(sub),
		cur:    r.Currency,
		digits: r.digits(),
	}
}

// subunits returns the effective number of subunits per unit.
func (r Rules) subunits() int64 {
	if r.Subunits > 0 {
		return r.Subunits
	}
	n := int64(1)
	for range fraction(r.Currency) {
		n *= 10
	}
	return n
}

// digits returns the number of fraction digits needed to print a subunit.
func (r Rules) digits() int32 {
	if d := digitsOf(r.subunits()); d >= 0 {
		return d
	}
	return fraction(r.Currency)
}

// digitsOf returns log10(n) for a power of ten, -1 otherwise.
func digitsOf(n int64) int32 {
	var d int32
	for ; n > 1; n /= 10 {
		if n%10 != 0 {
			return -1
		}
		d++
	}
	if n != 1 {
		return -1
	}
	return d
}
