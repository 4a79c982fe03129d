package cashfolio

import (
	"context"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BalanceSheet is the valued view of the asset and liability hierarchies on a
// date, in the book's reference currency. Liabilities carry their natural
// (negative) sign so that Equity = Assets + Liabilities holds without
// special-casing; sign-flipping for display is the renderer's business.
type BalanceSheet struct {
	On                date.Date
	ReferenceCurrency string
	Assets            *BalanceNode
	Liabilities       *BalanceNode
	Equity            Money
}

// BalanceNode is one node of a valued hierarchy. Exactly one of Group and
// Account is set.
type BalanceNode struct {
	Group   *AccountGroup
	Account *Account
	Balance Money // in the reference currency

	// Native annotates leaves whose unit differs from the reference currency
	// with the balance in the account's own unit.
	Native *NativeBalance

	Children []*BalanceNode
}

// NativeBalance is a balance in an account's own unit.
type NativeBalance struct {
	Value decimal.Decimal
	Unit  Unit
}

// Name returns the group or account name of the node.
func (n *BalanceNode) Name() string {
	if n.Group != nil {
		return n.Group.Name
	}
	return n.Account.Name
}

// leafValue holds the two valuations of one leaf account.
type leafValue struct {
	native    decimal.Decimal
	reference decimal.Decimal
}

// BalanceSheet values the asset and liability trees on a date. Leaves are
// valued concurrently since they share no mutable in-process state, and
// subtrees that net to zero are pruned: an all-zero branch carries no
// information.
func (s *System) BalanceSheet(ctx context.Context, accounts []Account, groups []AccountGroup, on date.Date) (*BalanceSheet, error) {
	forest, err := BuildTree(accounts, groups)
	if err != nil {
		return nil, err
	}
	if forest.Assets == nil {
		return nil, &MissingRootGroupError{Type: Asset}
	}
	if forest.Liabilities == nil {
		return nil, &MissingRootGroupError{Type: Liability}
	}

	values, err := s.valueLeaves(ctx, on, forest.Assets, forest.Liabilities)
	if err != nil {
		return nil, err
	}

	assets := s.buildBalanceNode(forest.Assets, values)
	liabilities := s.buildBalanceNode(forest.Liabilities, values)

	return &BalanceSheet{
		On:                on,
		ReferenceCurrency: s.Book.ReferenceCurrency,
		Assets:            assets,
		Liabilities:       liabilities,
		Equity:            assets.Balance.Add(liabilities.Balance),
	}, nil
}

// valueLeaves computes the native and reference-currency balance of every leaf
// of the given trees, concurrently with a bounded fan-out.
func (s *System) valueLeaves(ctx context.Context, on date.Date, trees ...*GroupNode) (map[string]leafValue, error) {
	var leaves []Account
	for _, tree := range trees {
		collectLeaves(tree, &leaves)
	}

	ref := s.ReferenceUnit()
	values := make([]leafValue, len(leaves))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for i, account := range leaves {
		i, account := i, account
		g.Go(func() error {
			native, err := s.BalanceAsOf(ctx, account, account.Unit, on)
			if err != nil {
				return err
			}
			reference, err := s.Rates.Convert(ctx, native, account.Unit, ref, on)
			if err != nil {
				return err
			}
			values[i] = leafValue{native: native, reference: reference}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byAccount := make(map[string]leafValue, len(leaves))
	for i, account := range leaves {
		byAccount[account.ID] = values[i]
	}
	return byAccount, nil
}

func collectLeaves(n *GroupNode, out *[]Account) {
	for _, child := range n.Children {
		switch c := child.(type) {
		case *GroupNode:
			collectLeaves(c, out)
		case *AccountNode:
			*out = append(*out, c.Account)
		}
	}
}

// buildBalanceNode aggregates leaf values up a tree, dropping zero-balance
// children along the way.
func (s *System) buildBalanceNode(n *GroupNode, values map[string]leafValue) *BalanceNode {
	ref := s.Book.ReferenceCurrency
	group := n.Group
	node := &BalanceNode{Group: &group, Balance: NewMoney(decimal.Zero, ref)}

	for _, child := range n.Children {
		var childNode *BalanceNode
		switch c := child.(type) {
		case *GroupNode:
			childNode = s.buildBalanceNode(c, values)
		case *AccountNode:
			account := c.Account
			value := values[account.ID]
			childNode = &BalanceNode{
				Account: &account,
				Balance: NewMoney(value.reference, ref),
			}
			if account.Unit != s.ReferenceUnit() {
				childNode.Native = &NativeBalance{Value: value.native, Unit: account.Unit}
			}
		}
		if childNode.Balance.IsZero() {
			continue
		}
		node.Balance = node.Balance.Add(childNode.Balance)
		node.Children = append(node.Children, childNode)
	}
	return node
}
