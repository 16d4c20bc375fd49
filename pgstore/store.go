// Package pgstore persists the commission quota ledger in PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/commission"
	"github.com/etnz/commission/date"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS quota_period (
	id           SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	current_week DATE NOT NULL,
	week_start   DATE NULL
);
CREATE TABLE IF NOT EXISTS quota_entries (
	account_id      TEXT PRIMARY KEY,
	total_withdrawn NUMERIC NOT NULL CHECK (total_withdrawn >= 0),
	free_used       NUMERIC NOT NULL CHECK (free_used >= 0)
);`

// Store is a commission.QuotaStore backed by two tables: a single row quota_period and one
// row per account in quota_entries.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dsn and creates the tables if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// a batch run saves sequentially, one connection is enough.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := New(db)
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection, the tables must already exist.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create quota tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Load returns the stored state, nil if the period row does not exist.
func (s *Store) Load(ctx context.Context) (*commission.QuotaState, error) {
	const periodQuery = `SELECT current_week, week_start FROM quota_period WHERE id = 1`

	var currentWeek time.Time
	var weekStart sql.NullTime
	err := s.db.QueryRowContext(ctx, periodQuery).Scan(&currentWeek, &weekStart)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quota period: %w", err)
	}

	state := &commission.QuotaState{
		CurrentWeek: date.FromTime(currentWeek),
		Entries:     make(map[string]commission.QuotaEntry),
	}
	if weekStart.Valid {
		state.WeekStart = date.FromTime(weekStart.Time)
	}

	const entriesQuery = `SELECT account_id, total_withdrawn, free_used FROM quota_entries`
	rows, err := s.db.QueryContext(ctx, entriesQuery)
	if err != nil {
		return nil, fmt.Errorf("load quota entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var e commission.QuotaEntry
		if err := rows.Scan(&id, &e.TotalWithdrawn, &e.FreeUsed); err != nil {
			return nil, fmt.Errorf("load quota entries: %w", err)
		}
		state.Entries[id] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load quota entries: %w", err)
	}
	return state, nil
}

// Save replaces the stored state in a single transaction.
func (s *Store) Save(ctx context.Context, state commission.QuotaState) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quota save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const upsertPeriod = `
INSERT INTO quota_period (id, current_week, week_start) VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET current_week = EXCLUDED.current_week, week_start = EXCLUDED.week_start`

	var weekStart sql.NullTime
	if !state.WeekStart.IsZero() {
		weekStart = sql.NullTime{Time: state.WeekStart.Time(), Valid: true}
	}
	if _, err = tx.ExecContext(ctx, upsertPeriod, state.CurrentWeek.Time(), weekStart); err != nil {
		return fmt.Errorf("save quota period: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM quota_entries`); err != nil {
		return fmt.Errorf("save quota entries: %w", err)
	}

	const insertEntry = `INSERT INTO quota_entries (account_id, total_withdrawn, free_used) VALUES ($1, $2, $3)`
	for id, e := range state.Entries {
		if _, err = tx.ExecContext(ctx, insertEntry, id, e.TotalWithdrawn, e.FreeUsed); err != nil {
			return fmt.Errorf("save quota entry %q: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit quota save: %w", err)
	}
	return nil
}

// Remove deletes the stored state.
func (s *Store) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE quota_entries, quota_period`); err != nil {
		return fmt.Errorf("remove quota state: %w", err)
	}
	return nil
}

var _ commission.QuotaStore = (*Store)(nil)
