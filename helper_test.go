package commission

import "github.com/etnz/commission/date"

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// scenarioRules are the rules of the documented examples: a 3% deposit rate capped at 5.
func scenarioRules() Rules {
	r := DefaultRules()
	r.DepositRate = D(0.03)
	return r
}

// tx is a helper to create transactions in tests.
func tx(on string, account string, h Holder, d Direction, amount float64) Transaction {
	return Transaction{Date: date.MustParse(on), Account: account, Holder: h, Direction: d, Amount: D(amount), Currency: "EUR"}
}
