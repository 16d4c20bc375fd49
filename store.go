package commission

import (
	"context"
	"errors"

	"github.com/etnz/commission/date"
	"github.com/sirupsen/logrus"
)

// ErrCorruptStore is returned by stores that cannot make sense of their persisted state.
var ErrCorruptStore = errors.New("corrupt quota store")

// QuotaStore persists the state of a QuotaLedger between runs.
//
// Stores are not safe for concurrent runs: two processes sharing the same store must be
// serialized by the caller.
type QuotaStore interface {
	// Load returns the persisted state, or nil if there is none.
	Load(ctx context.Context) (*QuotaState, error)
	// Save replaces the persisted state.
	Save(ctx context.Context, s QuotaState) error
}

// OpenQuotaLedger loads the ledger for a run happening on today.
//
// It never fails: a missing, empty or unreadable store, as well as a state written during
// another week, gives a fresh ledger. A fresh ledger is saved right away. Problems are logged
// as warnings.
func OpenQuotaLedger(ctx context.Context, store QuotaStore, today date.Date, log logrus.FieldLogger) *QuotaLedger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s, err := store.Load(ctx)
	switch {
	case err != nil:
		log.WithError(err).Warn("cannot load quota store, starting with empty quotas")
	case s == nil:
		log.Debug("no quota store, starting with empty quotas")
	case s.CurrentWeek != today.WeekStart():
		log.WithFields(logrus.Fields{
			"stored": s.CurrentWeek.String(),
			"now":    today.WeekStart().String(),
		}).Info("quota store is from another week, starting with empty quotas")
	default:
		log.WithField("accounts", len(s.Entries)).Debug("quota store loaded")
		return RestoreQuotaLedger(*s)
	}

	l := NewQuotaLedger(today)
	if err := store.Save(ctx, l.State()); err != nil {
		log.WithError(err).Warn("cannot save quota store")
	}
	return l
}

// MemoryStore is a QuotaStore that keeps the state in memory.
// The zero value is an empty store.
type MemoryStore struct {
	state *QuotaState
	saves int
}

// NewMemoryStore returns a store holding s, or an empty store if s is nil.
func NewMemoryStore(s *QuotaState) *MemoryStore {
	m := new(MemoryStore)
	if s != nil {
		c := cloneState(*s)
		m.state = &c
	}
	return m
}

func (m *MemoryStore) Load(context.Context) (*QuotaState, error) {
	if m.state == nil {
		return nil, nil
	}
	s := cloneState(*m.state)
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s QuotaState) error {
	c := cloneState(s)
	m.state = &c
	m.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (m *MemoryStore) Saves() int { return m.saves }

// Remove forgets the stored state.
func (m *MemoryStore) Remove(context.Context) error {
	m.state = nil
	return nil
}

func cloneState(s QuotaState) QuotaState {
	c := s
	c.Entries = make(map[string]QuotaEntry, len(s.Entries))
	for id, e := range s.Entries {
		c.Entries[id] = e
	}
	return c
}
