package commission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/commission/date"
	"github.com/shopspring/decimal"
)

// Schema locates the transaction fields inside an input record, as JSONPath expressions.
type Schema struct {
	Date      string
	Direction string
	Holder    string
	Account   string
	Amount    string
	Currency  string // optional, empty to ignore
}

// DefaultSchema matches records like:
//
//	{"date":"2016-01-05","user_id":1,"user_type":"natural","type":"cash_in","operation":{"amount":200.00,"currency":"EUR"}}
func DefaultSchema() Schema {
	return Schema{
		Date:      "$.date",
		Direction: "$.type",
		Holder:    "$.user_type",
		Account:   "$.user_id",
		Amount:    "$.operation.amount",
		Currency:  "$.operation.currency",
	}
}

// DecodeTransactions reads every transaction from r, in order.
//
// The input is either a JSON array of records or a stream of records (JSONL). Any malformed
// record fails the whole decoding.
func DecodeTransactions(r io.Reader, schema Schema) ([]Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(records))
	for i, record := range records {
		tx, err := schema.transaction(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// decodeRecords splits data into generic json values, numbers are kept as json.Number to
// preserve amounts exactly.
func decodeRecords(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []any
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("not a correct json array of transactions: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("trailing data after the transaction array")
		}
		return records, nil
	}

	var records []any
	for {
		var record any
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("not a correct json record after %d records: %w", len(records), err)
		}
		records = append(records, record)
	}
}

// transaction extracts a Transaction from a generic json record.
func (s Schema) transaction(record any) (tx Transaction, err error) {
	str, err := s.field(record, "date", s.Date)
	if err != nil {
		return tx, err
	}
	if tx.Date, err = date.Parse(str); err != nil {
		return tx, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	if str, err = s.field(record, "type", s.Direction); err != nil {
		return tx, err
	}
	if tx.Direction, err = ParseDirection(str); err != nil {
		return tx, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	if str, err = s.field(record, "user type", s.Holder); err != nil {
		return tx, err
	}
	if tx.Holder, err = ParseHolder(str); err != nil {
		return tx, fmt.Errorf("%w: %w", ErrMalformedTransaction, err)
	}

	if tx.Account, err = s.field(record, "user id", s.Account); err != nil {
		return tx, err
	}

	if str, err = s.field(record, "amount", s.Amount); err != nil {
		return tx, err
	}
	if tx.Amount, err = decimal.NewFromString(str); err != nil {
		return tx, fmt.Errorf("%w: invalid amount %q: %w", ErrMalformedTransaction, str, err)
	}
	if tx.Amount.IsNegative() {
		return tx, fmt.Errorf("%w: negative amount %s", ErrMalformedTransaction, tx.Amount)
	}

	if s.Currency != "" {
		// the currency is informational, a missing one is not an error.
		tx.Currency, _ = s.field(record, "currency", s.Currency)
	}
	return tx, nil
}

// field returns the scalar at path in record, as a string.
func (s Schema) field(record any, name, path string) (string, error) {
	jval, err := jsonpath.Get(path, record)
	if err != nil {
		return "", fmt.Errorf("%w: missing %s at %q: %w", ErrMalformedTransaction, name, path, err)
	}
	// jsonpath returns a list for wildcard and filter paths, keep the first answer.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return "", fmt.Errorf("%w: missing %s at %q", ErrMalformedTransaction, name, path)
		}
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: empty %s at %q", ErrMalformedTransaction, name, path)
		}
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %s at %q must be a string or a number, got %T", ErrMalformedTransaction, name, path, jval)
	}
}
