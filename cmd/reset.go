package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete the quota store" }
func (*resetCmd) Usage() string {
	return `comcalc reset

  Deletes the quota store (-store): the next run starts with the full weekly allowance for
  every account.
`
}

func (*resetCmd) SetFlags(f *flag.FlagSet) {}

func (*resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, closeStore, err := OpenStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening quota store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := store.Remove(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Quota store %s deleted.\n", storeLocation)
	return subcommands.ExitSuccess
}
