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

type incomeCmd struct {
	from string
	to   string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "display the income statement for a period" }
func (*incomeCmd) Usage() string {
	return `cashfolio income -from <date> [-to <date>]

  Computes the income of every equity account over the period, together with
  the transaction and holding gain/loss accounts, and prints the aggregated
  income statement.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the period.")
	f.StringVar(&c.to, "to", cashfolio.Today().String(), "Last day of the period.")
}

func (c *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := cashfolio.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := cashfolio.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
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

	statement, err := system.IncomeStatement(ctx, accounts, groups, cashfolio.NewRange(from, to))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(renderer.IncomeStatementMarkdown(statement))
	return subcommands.ExitSuccess
}
