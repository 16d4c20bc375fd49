// Package commission computes the commission charged on a batch of cash-in and cash-out
// transactions.
//
// The rules depend on the direction of the transaction and on the category of the account
// holder:
//   - Deposits (cash in) pay a percentage of the amount, capped at a maximum.
//   - Organizations (juridical persons) pay a percentage of every withdrawal, with a floor.
//   - Individuals (natural persons) withdraw for free up to a weekly allowance; only the excess
//     is charged.
//
// The weekly allowance is tracked per account by a QuotaLedger. A ledger period is an ISO week
// (starting on Monday), and every account's usage is zeroed when a transaction from a later week
// is processed. The ledger is persisted through a QuotaStore after every mutation so that the
// allowance survives across runs within the same week.
//
// Commissions always round up to the smallest currency subunit.
//
// This package serves as the foundational logic for the `comcalc` command-line tool.
package commission
