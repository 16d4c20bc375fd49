package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/commission"
	"github.com/etnz/commission/renderer"
	"github.com/google/subcommands"
)

type computeCmd struct {
	rules    rulesFlags
	schema   commission.Schema
	fresh    bool
	markdown bool
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compute the commission of every transaction of a file" }
func (*computeCmd) Usage() string {
	return `comcalc compute [-fresh] [-md] <input.json | ->

  Reads the transactions of the input file (a JSON array or JSONL, "-" for stdin) and prints
  their commissions, one per line, in input order.

  The weekly free allowance of individuals is read from and saved to the quota store (-store).

Usage Examples:
$ comcalc compute input.json
$ comcalc -store mem: compute -free-allowance 500 input.json

`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	c.rules.SetFlags(f)
	d := commission.DefaultSchema()
	f.StringVar(&c.schema.Date, "date-path", d.Date, "JSONPath of the transaction date.")
	f.StringVar(&c.schema.Direction, "type-path", d.Direction, "JSONPath of the transaction type (cash_in, cash_out).")
	f.StringVar(&c.schema.Holder, "user-type-path", d.Holder, "JSONPath of the user type (natural, juridical).")
	f.StringVar(&c.schema.Account, "user-id-path", d.Account, "JSONPath of the user id.")
	f.StringVar(&c.schema.Amount, "amount-path", d.Amount, "JSONPath of the amount.")
	f.StringVar(&c.schema.Currency, "currency-path", d.Currency, "JSONPath of the currency, empty to ignore.")
	f.BoolVar(&c.fresh, "fresh", false, "Delete the quota store before computing.")
	f.BoolVar(&c.markdown, "md", false, "Print a markdown report instead of one commission per line.")
}

func (c *computeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: compute requires exactly one input file.")
		return subcommands.ExitUsageError
	}
	rules, err := c.rules.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, err := readTransactions(f.Arg(0), c.schema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		return subcommands.ExitFailure
	}

	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		logger.WithError(err).Warn("cannot open quota store, quotas will not be saved")
		store = commission.NewMemoryStore(nil)
	}
	defer closeStore()

	if c.fresh {
		if err := store.Remove(ctx); err != nil {
			logger.WithError(err).Warn("cannot delete quota store")
		}
	}

	publisher, closePublisher := OpenPublisher()
	defer func() {
		if err := closePublisher(); err != nil {
			logger.WithError(err).Warn("cannot close event publisher")
		}
	}()

	p := &commission.Processor{
		Rules:  rules,
		Ledger: commission.OpenQuotaLedger(ctx, store, today(), logger),
		Store:  store,
		Log:    logger,
	}
	if publisher != nil {
		p.Publisher = publisher
	}

	commissions := p.Process(ctx, txs)

	if c.markdown {
		printMarkdown(renderer.RenderCommissions(commissions, rules.Currency))
		return subcommands.ExitSuccess
	}
	for _, cm := range commissions {
		fmt.Fprintln(stdout, cm.Amount)
	}
	return subcommands.ExitSuccess
}

// readTransactions decodes all transactions of file, "-" being the standard input.
func readTransactions(file string, schema commission.Schema) ([]commission.Transaction, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return commission.DecodeTransactions(r, schema)
}
