package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the account hierarchy of the book" }
func (*accountsCmd) Usage() string {
	return `cashfolio accounts [-all]

  Prints the account groups and accounts of the book as a tree, one root per
  account type. Inactive accounts are hidden unless -all is given.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include inactive accounts.")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, source, closeSystem, err := openSystem(ctx)
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
	if !c.all {
		active := accounts[:0]
		for _, a := range accounts {
			if a.IsActive {
				active = append(active, a)
			}
		}
		accounts = active
	}
	groups, err := source.AccountGroups(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	forest, err := cashfolio.BuildTree(accounts, groups)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, t := range []cashfolio.AccountType{cashfolio.Asset, cashfolio.Liability, cashfolio.Equity} {
		root := forest.Root(t)
		if root == nil {
			continue
		}
		printGroup(root, 0)
	}
	return subcommands.ExitSuccess
}

func printGroup(g *cashfolio.GroupNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s\n", indent, g.Group.Name)
	for _, child := range g.Children {
		switch n := child.(type) {
		case *cashfolio.GroupNode:
			printGroup(n, depth+1)
		case *cashfolio.AccountNode:
			fmt.Printf("%s  %s (%s)\n", indent, n.Account.Name, n.Account.Unit)
		}
	}
}
