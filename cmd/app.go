// Package cmd implements the comcalc command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/commission"
	"github.com/etnz/commission/date"
	"github.com/etnz/commission/events"
	"github.com/etnz/commission/pgstore"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&computeCmd{}, "commissions")
	c.Register(&quotaCmd{}, "quotas")
	c.Register(&resetCmd{}, "quotas")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeLocation string
	kafkaBrokers  string
	kafkaTopic    string
	verbose       bool
)

// stdout receives the command results, logs and errors go to stderr.
var stdout io.Writer = os.Stdout

// today is the run date, it decides whether the stored quotas are still current.
var today = date.Today

// logger is the application logger, configured by SetupLogging.
var logger = logrus.New()

// LoadEnv loads environment variables from the given .env files (".env" by default) without
// overriding variables already set. A missing file is not an error.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: cannot load %q: %v\n", file, err)
		}
	}
}

// RegisterFlags declares the global flags, their defaults come from the environment.
// It must be called after LoadEnv.
func RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&storeLocation, "store", getEnv(EnvStore, "quotas.json"), "Quota store: a file path, a postgres:// URL, or mem: for no persistence.")
	f.StringVar(&kafkaBrokers, "kafka-brokers", getEnv(EnvKafkaBrokers, ""), "Comma separated Kafka brokers to publish commission events to. Disabled if empty.")
	f.StringVar(&kafkaTopic, "kafka-topic", getEnv(EnvKafkaTopic, events.DefaultTopic), "Kafka topic for commission events.")
	f.BoolVar(&verbose, "v", getEnvBool(EnvVerbose, false), "Verbose logging.")
}

// SetupLogging configures the logger from the global flags.
func SetupLogging() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// quotaStore is a commission.QuotaStore that can also be wiped.
type quotaStore interface {
	commission.QuotaStore
	Remove(ctx context.Context) error
}

// OpenStore opens the quota store selected by the -store flag.
// The returned function releases the store.
func OpenStore(ctx context.Context) (quotaStore, func() error, error) {
	noop := func() error { return nil }
	switch {
	case storeLocation == "mem:":
		return commission.NewMemoryStore(nil), noop, nil
	case strings.HasPrefix(storeLocation, "postgres://"), strings.HasPrefix(storeLocation, "postgresql://"):
		s, err := pgstore.Open(ctx, storeLocation)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return commission.NewFileStore(storeLocation), noop, nil
	}
}

// OpenPublisher returns the commission event publisher, nil if Kafka is not configured.
func OpenPublisher() (*events.Publisher, func() error) {
	if strings.TrimSpace(kafkaBrokers) == "" {
		return nil, func() error { return nil }
	}
	var brokers []string
	for _, b := range strings.Split(kafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	p := events.NewPublisher(brokers, kafkaTopic)
	return p, p.Close
}

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		logger.WithError(err).Debug("cannot render markdown")
		out = md
	}
	fmt.Fprint(stdout, out)
}
