package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaAndReset(t *testing.T) {
	store := filepath.Join(t.TempDir(), "quotas.json")
	out := setup(t, store, "2016-01-06")

	// nothing stored yet.
	require.Equal(t, subcommands.ExitSuccess, execute(t, &quotaCmd{}))
	assert.Empty(t, out.String())

	input := writeFile(t, "input.jsonl", `{"date":"2016-01-06","user_id":42,"user_type":"natural","type":"cash_out","operation":{"amount":800}}`)
	require.Equal(t, subcommands.ExitSuccess, execute(t, &computeCmd{}, input))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, execute(t, &quotaCmd{}))
	assert.Contains(t, out.String(), "Weekly Quotas")
	assert.Contains(t, out.String(), "2016-W01")

	require.Equal(t, subcommands.ExitSuccess, execute(t, &resetCmd{}))
	_, err := os.Stat(store)
	assert.True(t, os.IsNotExist(err), "reset deletes the quota file")

	require.Equal(t, subcommands.ExitSuccess, execute(t, &resetCmd{}), "resetting twice is fine")
}

func TestQuota_Corrupt(t *testing.T) {
	store := writeFile(t, "quotas.json", "{")
	out := setup(t, store, "2016-01-06")

	assert.Equal(t, subcommands.ExitFailure, execute(t, &quotaCmd{}))
	assert.Empty(t, out.String())
}

func TestTopic(t *testing.T) {
	out := setup(t, "mem:", "2026-10-19")

	require.Equal(t, subcommands.ExitSuccess, execute(t, &topicCmd{}, "-html", "rules"))
	assert.Contains(t, out.String(), "<h1")

	assert.Equal(t, subcommands.ExitFailure, execute(t, &topicCmd{}, "no-such-topic"))
}

func TestOpenStore(t *testing.T) {
	setup(t, "mem:", "2026-10-19")
	s, closeStore, err := OpenStore(t.Context())
	require.NoError(t, err)
	assert.NoError(t, closeStore())
	assert.NotNil(t, s)

	storeLocation = filepath.Join(t.TempDir(), "q.json")
	s, _, err = OpenStore(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestOpenPublisher(t *testing.T) {
	setup(t, "mem:", "2026-10-19")
	p, closePublisher := OpenPublisher()
	assert.Nil(t, p)
	assert.NoError(t, closePublisher())

	kafkaBrokers = " localhost:9092, ,localhost:9093"
	p, closePublisher = OpenPublisher()
	require.NotNil(t, p)
	assert.NoError(t, closePublisher())
}
