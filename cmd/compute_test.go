package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/commission"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_Sample(t *testing.T) {
	store := filepath.Join(t.TempDir(), "quotas.json")
	out := setup(t, store, "2026-10-19")
	input := writeFile(t, "input.json", sampleInput)

	status := execute(t, &computeCmd{}, input)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, sampleOutput, out.String())

	_, err := os.Stat(store)
	assert.NoError(t, err, "the quota store is written")
}

func TestCompute_QuotaAcrossRuns(t *testing.T) {
	store := filepath.Join(t.TempDir(), "quotas.json")
	out := setup(t, store, "2016-01-06")

	first := writeFile(t, "first.jsonl", `{"date":"2016-01-06","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":800}}`)
	second := writeFile(t, "second.jsonl", `{"date":"2016-01-06","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":400}}`)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, first))
	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, second))
	assert.Equal(t, "0.00\n0.60\n", out.String())

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, "-fresh", second))
	assert.Equal(t, "0.00\n", out.String(), "-fresh forgets the previous runs")
}

func TestCompute_StaleStore(t *testing.T) {
	store := writeFile(t, "quotas.json", `{
  "weeklyStartDate": "2015-12-28",
  "currentWeek": "2015-12-28",
  "quotas": {"1": {"totalAmount": 1000, "freeAmountUsed": 1000}}
}`)
	out := setup(t, store, "2016-01-06")
	input := writeFile(t, "input.jsonl", `{"date":"2016-01-06","user_id":1,"user_type":"natural","type":"cash_out","operation":{"amount":800}}`)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, input))
	assert.Equal(t, "0.00\n", out.String())

	s, err := commission.NewFileStore(store).Load(t.Context())
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "2016-01-04", s.CurrentWeek.String())
	assert.Equal(t, "800", s.Entries["1"].FreeUsed.String())
}

func TestCompute_UnusableStore(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	out := setup(t, filepath.Join(blocker, "quotas.json"), "2026-10-19")
	input := writeFile(t, "input.json", sampleInput)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, input))
	assert.Equal(t, sampleOutput, out.String(), "commissions do not depend on the store")
}

func TestCompute_Errors(t *testing.T) {
	out := setup(t, "mem:", "2026-10-19")
	malformed := writeFile(t, "input.json", `[
	{"date":"2016-01-05","user_id":1,"user_type":"natural","type":"cash_in","operation":{"amount":200.00}},
	{"date":"2016-01-06","user_id":2,"user_type":"alien","type":"cash_out","operation":{"amount":300.00}}
]`)
	valid := writeFile(t, "valid.json", sampleInput)

	assert.Equal(t, subcommands.ExitFailure, execute(t, &computeCmd{}, malformed))
	assert.Equal(t, subcommands.ExitFailure, execute(t, &computeCmd{}, filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &computeCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &computeCmd{}, "-currency", "NOPE", valid))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &computeCmd{}, "-deposit-rate", "-1", valid))
	assert.Empty(t, out.String(), "nothing is printed on error")
}

func TestCompute_Flags(t *testing.T) {
	out := setup(t, "mem:", "2026-10-19")
	input := writeFile(t, "input.jsonl", `{"when":"2016-01-05","client":"a","kind":"natural","op":"cash_out","value":1500}
{"when":"2016-01-05","client":"b","kind":"natural","op":"cash_in","value":100}
`)

	status := execute(t, &computeCmd{},
		"-date-path", "$.when",
		"-user-id-path", "$.client",
		"-user-type-path", "$.kind",
		"-type-path", "$.op",
		"-amount-path", "$.value",
		"-currency-path", "",
		"-free-allowance", "1000",
		"-withdrawal-rate", "0.01",
		"-deposit-rate", "0.03",
		"-subunits", "1000",
		input)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "5.000\n3.000\n", out.String())
}

func TestCompute_Env(t *testing.T) {
	t.Setenv(EnvDepositRate, "0.03")
	t.Setenv(EnvCurrency, "jpy")
	out := setup(t, "mem:", "2026-10-19")
	input := writeFile(t, "input.jsonl", `{"date":"2016-01-05","user_id":1,"user_type":"natural","type":"cash_in","operation":{"amount":101}}`)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, input))
	assert.Equal(t, "4\n", out.String(), "3.03 rounds up to 4 yen")
}

func TestCompute_Markdown(t *testing.T) {
	out := setup(t, "mem:", "2026-10-19")
	input := writeFile(t, "input.json", sampleInput)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, "-md", input))
	assert.Contains(t, out.String(), "Commissions")
}
