package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/commission/date"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/require"
)

// setup points the global state of the application to a temporary quota store, and to a fixed
// run date. It returns the buffer receiving the command results.
func setup(t *testing.T, store, on string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer

	oldStdout, oldToday, oldStore, oldBrokers := stdout, today, storeLocation, kafkaBrokers
	oldOutput := logger.Out
	t.Cleanup(func() {
		stdout, today, storeLocation, kafkaBrokers = oldStdout, oldToday, oldStore, oldBrokers
		logger.SetOutput(oldOutput)
	})

	stdout = &out
	today = func() date.Date { return date.MustParse(on) }
	storeLocation = store
	kafkaBrokers = ""
	logger.SetOutput(io.Discard)
	return &out
}

// execute runs a subcommand with args as the user would.
func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

// writeFile writes content in a temporary file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleInput = `[
	{"date":"2016-01-05","user_id":1,"user_type":"natural","type":"cash_in","operation":{"amount":200.00,"currency":"EUR"}},
	{"date":"2016-01-06","user_id":2,"user_type":"juridical","type":"cash_out","operation":{"amount":300.00,"currency":"EUR"}},
	{"date":"2016-01-06","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":30000,"currency":"EUR"}},
	{"date":"2016-01-07","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":1000.00,"currency":"EUR"}},
	{"date":"2016-01-07","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":100.00,"currency":"EUR"}},
	{"date":"2016-01-10","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":100.00,"currency":"EUR"}},
	{"date":"2016-01-10","user_id":2,"user_type":"juridical","type":"cash_in","operation":{"amount":1000000.00,"currency":"EUR"}},
	{"date":"2016-01-10","user_id":3,"user_type":"natural","type":"cash_out","operation":{"amount":1000.00,"currency":"EUR"}},
	{"date":"2016-02-15","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":300.00,"currency":"EUR"}}
]`

const sampleOutput = `0.06
0.90
87.00
3.00
0.30
0.30
5.00
0.00
0.00
`
