package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Commission is the rounded commission charged for a transaction.
type Commission struct {
	Transaction Transaction
	Amount      Money
}

// Processor computes the commissions of a batch of transactions.
//
// Transactions are processed one at a time, in order, because the quota ledger carries over
// from one transaction to the next.
type Processor struct {
	Rules  Rules
	Ledger *QuotaLedger
	// Store, if set, receives the ledger state after every change. Save failures are logged
	// and do not stop the batch: the in-memory ledger remains the reference.
	Store QuotaStore
	// Publisher, if set, receives an event per commission. Failures are logged.
	Publisher Publisher
	Log       logrus.FieldLogger
	// Now is the clock used to stamp events, time.Now if nil.
	Now func() time.Time
}

// Process returns one commission per transaction, in input order.
func (p *Processor) Process(ctx context.Context, txs []Transaction) []Commission {
	out := make([]Commission, 0, len(txs))
	for _, tx := range txs {
		out = append(out, p.process(ctx, tx))
	}
	return out
}

// process computes the commission of a single transaction and updates the ledger.
func (p *Processor) process(ctx context.Context, tx Transaction) Commission {
	log := p.logger().WithFields(logrus.Fields{
		"date":    tx.Date.String(),
		"account": tx.Account,
	})

	if p.Ledger.CheckPeriod(tx.Date) {
		log.WithField("week", p.Ledger.WeekStart().String()).Debug("new quota period")
		p.persist(ctx)
	}

	var amount decimal.Decimal
	switch {
	case tx.Direction == Deposit:
		amount = p.Rules.DepositCommission(tx.Amount)
	case tx.Holder == Organization:
		amount = p.Rules.OrganizationWithdrawalCommission(tx.Amount)
	default:
		used := p.Ledger.Entry(tx.Account).FreeUsed
		amount = p.Rules.IndividualWithdrawalCommission(tx.Amount, used)
		p.Ledger.Consume(tx.Account, tx.Amount, p.Rules.WeeklyFreeAllowance)
		p.persist(ctx)
	}

	c := Commission{Transaction: tx, Amount: p.Rules.RoundUp(amount)}
	log.WithFields(logrus.Fields{
		"direction":  tx.Direction,
		"holder":     tx.Holder,
		"amount":     tx.Amount.String(),
		"commission": c.Amount.String(),
	}).Debug("commission computed")

	p.publish(ctx, c)
	return c
}

func (p *Processor) persist(ctx context.Context) {
	if p.Store == nil {
		return
	}
	if err := p.Store.Save(ctx, p.Ledger.State()); err != nil {
		p.logger().WithError(err).Warn("cannot save quota store, quotas will not survive this run")
	}
}

func (p *Processor) publish(ctx context.Context, c Commission) {
	if p.Publisher == nil {
		return
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	if err := p.Publisher.Publish(ctx, NewCommissionEvent(c, now())); err != nil {
		p.logger().WithError(err).WithField("account", c.Transaction.Account).Warn("cannot publish commission event")
	}
}

func (p *Processor) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// Total returns the sum of all commissions.
func Total(cs []Commission, currency string) Money {
	total := M(0, currency)
	for _, c := range cs {
		total = total.Add(c.Amount)
	}
	return total
}
