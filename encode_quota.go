package commission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/commission/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The quota file is a single JSON object:
//
//	{
//	  "weeklyStartDate": "2016-01-04",
//	  "currentWeek": "2026-10-19",
//	  "quotas": {
//	    "1": {"totalAmount": 1500, "freeAmountUsed": 1000}
//	  }
//	}
//
// weeklyStartDate is the active quota period, currentWeek the week of the run that wrote it.

// jquotaFile is the quota file as read by the json parser.
type jquotaFile struct {
	WeeklyStartDate date.Date `json:"weeklyStartDate"`
	CurrentWeek     date.Date `json:"currentWeek"`
	Quotas          map[string]struct {
		TotalAmount    decimal.Decimal `json:"totalAmount"`
		FreeAmountUsed decimal.Decimal `json:"freeAmountUsed"`
	} `json:"quotas"`
}

// DecodeQuotaState decodes a quota file. An empty content decodes to a nil state.
func DecodeQuotaState(data []byte) (*QuotaState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var jf jquotaFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
	}
	if jf.CurrentWeek.IsZero() {
		return nil, fmt.Errorf("%w: missing %q", ErrCorruptStore, "currentWeek")
	}
	s := &QuotaState{
		CurrentWeek: jf.CurrentWeek,
		WeekStart:   jf.WeeklyStartDate,
		Entries:     make(map[string]QuotaEntry, len(jf.Quotas)),
	}
	for id, q := range jf.Quotas {
		if q.TotalAmount.IsNegative() || q.FreeAmountUsed.IsNegative() {
			return nil, fmt.Errorf("%w: negative quota for account %q", ErrCorruptStore, id)
		}
		s.Entries[id] = QuotaEntry{TotalWithdrawn: q.TotalAmount, FreeUsed: q.FreeAmountUsed}
	}
	return s, nil
}

// EncodeQuotaState encodes s as a quota file, accounts in lexical order.
func EncodeQuotaState(s QuotaState) ([]byte, error) {
	l := RestoreQuotaLedger(s)
	var w jsonObjectWriter
	w.Append("weeklyStartDate", s.WeekStart)
	w.Append("currentWeek", s.CurrentWeek)
	w.Object("quotas", func(qw *jsonObjectWriter) {
		for _, id := range l.Accounts() {
			e := l.Entry(id)
			qw.Object(id, func(ew *jsonObjectWriter) {
				ew.Append("totalAmount", e.TotalWithdrawn)
				ew.Append("freeAmountUsed", e.FreeUsed)
			})
		}
	})
	data, err := w.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// FileStore is a QuotaStore persisted in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the file at path. The file is created on the first Save.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the quota file. A missing or empty file is not an error and returns nil.
func (f *FileStore) Load(context.Context) (*QuotaState, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read quota file %q: %w", f.path, err)
	}
	s, err := DecodeQuotaState(data)
	if err != nil {
		return nil, fmt.Errorf("cannot decode quota file %q: %w", f.path, err)
	}
	return s, nil
}

// Save writes the quota file. The content is written to a temporary file first and renamed,
// so the previous state stays intact if the write fails.
func (f *FileStore) Save(_ context.Context, s QuotaState) error {
	data, err := EncodeQuotaState(s)
	if err != nil {
		return fmt.Errorf("cannot encode quota file %q: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for quota file %q: %w", f.path, err)
	}
	tmp, err := os.CreateTemp(dir, ".quotas-*.json")
	if err != nil {
		return fmt.Errorf("error opening quota file %q for writing: %w", f.path, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing quota file %q: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing quota file %q: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("error replacing quota file %q: %w", f.path, err)
	}
	return nil
}

// Remove deletes the quota file, a missing file is not an error.
func (f *FileStore) Remove(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot delete quota file %q: %w", f.path, err)
	}
	return nil
}
