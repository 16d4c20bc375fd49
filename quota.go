package commission

import (
	"maps"
	"slices"

	"github.com/etnz/commission/date"
	"github.com/shopspring/decimal"
)

// QuotaEntry is the weekly usage of one account.
type QuotaEntry struct {
	TotalWithdrawn decimal.Decimal // everything withdrawn this week, informational
	FreeUsed       decimal.Decimal // part of the weekly allowance already consumed
}

// QuotaState is a snapshot of a QuotaLedger, as exchanged with a QuotaStore.
type QuotaState struct {
	// CurrentWeek is the ISO week start of the run that wrote the state. A state written during
	// another week is stale.
	CurrentWeek date.Date
	// WeekStart is the ISO week start of the active quota period, zero when no transaction
	// has been processed yet.
	WeekStart date.Date
	Entries   map[string]QuotaEntry
}

// QuotaLedger tracks the weekly free allowance of every account.
//
// The ledger starts without an active period. CheckPeriod opens a period on the first
// transaction and moves it forward when a transaction from a later ISO week is seen, zeroing
// every entry. Entries are created lazily and never removed.
//
// Transactions are expected in date order: a transaction dated in an earlier week than the
// active period does not reset anything and is counted against the active period.
type QuotaLedger struct {
	currentWeek date.Date
	weekStart   date.Date
	entries     map[string]*QuotaEntry
}

// NewQuotaLedger returns an empty ledger, without active period, for a run happening on today.
func NewQuotaLedger(today date.Date) *QuotaLedger {
	return &QuotaLedger{
		currentWeek: today.WeekStart(),
		entries:     make(map[string]*QuotaEntry),
	}
}

// RestoreQuotaLedger returns a ledger initialized from a stored state.
func RestoreQuotaLedger(s QuotaState) *QuotaLedger {
	l := &QuotaLedger{
		currentWeek: s.CurrentWeek,
		weekStart:   s.WeekStart,
		entries:     make(map[string]*QuotaEntry, len(s.Entries)),
	}
	for id, e := range s.Entries {
		l.entries[id] = &e
	}
	return l
}

// State returns a snapshot of the ledger.
func (l *QuotaLedger) State() QuotaState {
	s := QuotaState{
		CurrentWeek: l.currentWeek,
		WeekStart:   l.weekStart,
		Entries:     make(map[string]QuotaEntry, len(l.entries)),
	}
	for id, e := range l.entries {
		s.Entries[id] = *e
	}
	return s
}

// CurrentWeek returns the ISO week start of the run owning the ledger.
func (l *QuotaLedger) CurrentWeek() date.Date { return l.currentWeek }

// WeekStart returns the start of the active period, the zero Date if there is none.
func (l *QuotaLedger) WeekStart() date.Date { return l.weekStart }

// Period returns the active week as a range.
func (l *QuotaLedger) Period() (date.Range, bool) {
	if l.weekStart.IsZero() {
		return date.Range{}, false
	}
	return date.NewRange(l.weekStart, date.Weekly), true
}

// CheckPeriod moves the ledger to the ISO week of on if it is later than the active period, and
// zeroes every entry. It returns true if the entries were reset.
func (l *QuotaLedger) CheckPeriod(on date.Date) bool {
	start := on.WeekStart()
	if !l.weekStart.IsZero() && !start.After(l.weekStart) {
		return false
	}
	l.weekStart = start
	for _, e := range l.entries {
		*e = QuotaEntry{}
	}
	return true
}

// Consume records an individual withdrawal of amount: the free allowance used grows by the
// part of amount still covered by allowance, and never exceeds it.
func (l *QuotaLedger) Consume(account string, amount, allowance decimal.Decimal) {
	e, ok := l.entries[account]
	if !ok {
		e = new(QuotaEntry)
		l.entries[account] = e
	}
	if freeLeft := allowance.Sub(e.FreeUsed); freeLeft.IsPositive() {
		e.FreeUsed = e.FreeUsed.Add(minDecimal(amount, freeLeft))
	}
	e.TotalWithdrawn = e.TotalWithdrawn.Add(amount)
}

// Remaining returns the free allowance left to account this week.
func (l *QuotaLedger) Remaining(account string, allowance decimal.Decimal) decimal.Decimal {
	return maxDecimal(allowance.Sub(l.Entry(account).FreeUsed), decimal.Zero)
}

// Entry returns the usage of account, zero if the account is unknown.
func (l *QuotaLedger) Entry(account string) QuotaEntry {
	if e, ok := l.entries[account]; ok {
		return *e
	}
	return QuotaEntry{}
}

// Accounts returns all known accounts in lexical order.
func (l *QuotaLedger) Accounts() []string {
	return slices.Sorted(maps.Keys(l.entries))
}
