package commission

import (
	"context"
	"time"

	"github.com/etnz/commission/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionEvent is published for every processed transaction.
type CommissionEvent struct {
	EventID    string          `json:"event_id"`
	AccountID  string          `json:"account_id"`
	Date       date.Date       `json:"date"`
	Direction  Direction       `json:"direction"`
	Holder     Holder          `json:"holder"`
	Amount     decimal.Decimal `json:"amount"`
	Commission decimal.Decimal `json:"commission"`
	Currency   string          `json:"currency"`
	ComputedAt time.Time       `json:"computed_at"`
}

// NewCommissionEvent returns the event describing c, with a fresh event id.
func NewCommissionEvent(c Commission, now time.Time) CommissionEvent {
	return CommissionEvent{
		EventID:    uuid.NewString(),
		AccountID:  c.Transaction.Account,
		Date:       c.Transaction.Date,
		Direction:  c.Transaction.Direction,
		Holder:     c.Transaction.Holder,
		Amount:     c.Transaction.Amount,
		Commission: c.Amount.Decimal(),
		Currency:   c.Amount.Currency(),
		ComputedAt: now.UTC(),
	}
}

// Publisher sends commission events to downstream systems.
type Publisher interface {
	Publish(ctx context.Context, e CommissionEvent) error
}
