package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/felixmokross/cashfolio2-sub000/renderer"
	"github.com/google/subcommands"
)

type balanceSheetCmd struct {
	date string
}

func (*balanceSheetCmd) Name() string     { return "balance-sheet" }
func (*balanceSheetCmd) Synopsis() string { return "display the balance sheet of the account book" }
func (*balanceSheetCmd) Usage() string {
	return `cashfolio balance-sheet [-d <date>]

  Values every asset and liability account as of the date, in the book's
  reference currency, and prints the aggregated balance sheet.
`
}

func (c *balanceSheetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", cashfolio.Today().String(), "Date of the balance sheet.")
}

func (c *balanceSheetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := cashfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	system, source, closeSystem, err := openSystem(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeSystem()

	accounts, err := source.Accounts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	groups, err := source.AccountGroups(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	sheet, err := system.BalanceSheet(ctx, accounts, groups, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(renderer.BalanceSheetMarkdown(sheet))
	return subcommands.ExitSuccess
}
