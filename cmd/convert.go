package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type convertCmd struct {
	amount string
	from   string
	to     string
	date   string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between two units on a date" }
func (*convertCmd) Usage() string {
	return `cashfolio convert -amount <value> -from <unit> -to <unit> [-d <date>]

  Converts an amount between any two units, triangulating through the base
  currency. Units are written as "CHF", "crypto:BTC" or "security:AAPL:USD".
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount to convert.")
	f.StringVar(&c.from, "from", "", "Source unit.")
	f.StringVar(&c.to, "to", "", "Target unit.")
	f.StringVar(&c.date, "d", cashfolio.Today().String(), "Date of the conversion rate.")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	from, err := cashfolio.ParseUnit(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing source unit: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := cashfolio.ParseUnit(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing target unit: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := cashfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	system, _, closeSystem, err := openSystem(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeSystem()

	converted, err := system.Rates.Convert(ctx, amount, from, to, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s %s = %s %s on %s\n", amount, from, converted, to, on)
	return subcommands.ExitSuccess
}
