package commission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/commission/date"
	"github.com/shopspring/decimal"
)

// ErrMalformedTransaction is returned when an input record cannot be turned into a Transaction.
var ErrMalformedTransaction = errors.New("malformed transaction")

// Direction tells whether funds enter or leave the account.
type Direction string

const (
	Deposit    Direction = "cash_in"
	Withdrawal Direction = "cash_out"
)

// ParseDirection accepts "cash_in"/"deposit" and "cash_out"/"withdrawal", case insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash_in", "deposit":
		return Deposit, nil
	case "cash_out", "withdrawal":
		return Withdrawal, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Holder is the category of the account holder.
type Holder string

const (
	Individual   Holder = "natural"
	Organization Holder = "juridical"
)

// ParseHolder accepts "natural"/"individual" and "juridical"/"organization", case insensitive.
func ParseHolder(s string) (Holder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "natural", "individual":
		return Individual, nil
	case "juridical", "organization":
		return Organization, nil
	default:
		return "", fmt.Errorf("unknown user type %q", s)
	}
}

// Transaction is a single cash-in or cash-out operation.
type Transaction struct {
	Date      date.Date
	Direction Direction
	Holder    Holder
	Account   string
	Amount    decimal.Decimal
	Currency  string // informational, amounts are never converted
}

// String returns a short description of the transaction.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s %s", tx.Date, tx.Account, tx.Holder, tx.Direction, tx.Amount)
}
