package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/commission"
	"github.com/etnz/commission/renderer"
	"github.com/google/subcommands"
)

type quotaCmd struct {
	rules rulesFlags
}

func (*quotaCmd) Name() string     { return "quota" }
func (*quotaCmd) Synopsis() string { return "show the weekly quotas of the quota store" }
func (*quotaCmd) Usage() string {
	return `comcalc quota

  Shows the weekly free allowance used by every account, as saved in the quota store (-store).
`
}

func (c *quotaCmd) SetFlags(f *flag.FlagSet) { c.rules.SetFlags(f) }

func (c *quotaCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rules, err := c.rules.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening quota store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	state, err := store.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading quota store: %v\n", err)
		return subcommands.ExitFailure
	}
	if state == nil {
		fmt.Fprintln(os.Stderr, "No quotas stored.")
		return subcommands.ExitSuccess
	}
	if state.CurrentWeek != today().WeekStart() {
		fmt.Fprintf(os.Stderr, "Warning: quotas were saved during the week of %s, the next run will ignore them.\n", state.CurrentWeek)
	}

	printMarkdown(renderer.QuotasMarkdown(commission.RestoreQuotaLedger(*state), rules))
	return subcommands.ExitSuccess
}
