package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type txCmd struct {
	date        string
	description string
	del         string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record or delete a transaction" }
func (*txCmd) Usage() string {
	return `cashfolio tx [-d <date>] [-desc <text>] <account>:<amount> ...
cashfolio tx -delete <transaction-id>

  Records a transaction with one booking per <account>:<amount> argument. The
  amount is booked in the account's unit. A transaction needs at least two
  bookings, and single-unit transactions must sum to zero.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", cashfolio.Today().String(), "Date of the bookings.")
	f.StringVar(&c.description, "desc", "", "Description of the transaction.")
	f.StringVar(&c.del, "delete", "", "ID of a transaction to delete instead of recording one.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	system, source, closeSystem, err := openSystem(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeSystem()

	if c.del != "" {
		bookings, err := source.DeleteTransaction(ctx, c.del)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := invalidate(ctx, system, bookings); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("deleted transaction %s (%d bookings)\n", c.del, len(bookings))
		return subcommands.ExitSuccess
	}

	on, err := cashfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	accounts, err := source.Accounts(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	byID := make(map[string]cashfolio.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	tx := cashfolio.Transaction{Description: c.description}
	for _, arg := range f.Args() {
		accountID, amount, ok := strings.Cut(arg, ":")
		if !ok {
			fmt.Fprintf(os.Stderr, "Error parsing booking %q: want <account>:<amount>\n", arg)
			return subcommands.ExitUsageError
		}
		account, ok := byID[accountID]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown account %q\n", accountID)
			return subcommands.ExitUsageError
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", amount, err)
			return subcommands.ExitUsageError
		}
		tx.Bookings = append(tx.Bookings, cashfolio.Booking{
			AccountID: account.ID,
			On:        on,
			Value:     value,
			Unit:      account.Unit,
		})
	}

	created, err := source.CreateTransaction(ctx, tx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := invalidate(ctx, system, created.Bookings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("recorded transaction %s (%d bookings)\n", created.ID, len(created.Bookings))
	return subcommands.ExitSuccess
}

// invalidate drops cached balances of every touched account from the earliest
// booking date on.
func invalidate(ctx context.Context, system *cashfolio.System, bookings []cashfolio.Booking) error {
	earliest := make(map[string]cashfolio.Date, len(bookings))
	for _, b := range bookings {
		if on, ok := earliest[b.AccountID]; !ok || b.On.Before(on) {
			earliest[b.AccountID] = b.On
		}
	}
	for accountID, on := range earliest {
		if err := system.InvalidateBalances(ctx, accountID, on); err != nil {
			return err
		}
	}
	return nil
}
