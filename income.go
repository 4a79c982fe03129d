package cashfolio

import (
	"context"
	"sort"
	"sync"

	"github.com/felixmokross/cashfolio2-sub000/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// IncomeStatement is the valued equity hierarchy over a period, in the book's
// reference currency. Besides the persisted equity accounts it carries two
// kinds of synthesized virtual accounts: the transaction gain/loss account and
// one holding gain/loss account per foreign-unit asset or liability account.
type IncomeStatement struct {
	Period            date.Range
	ReferenceCurrency string
	Equity            *IncomeNode
	Total             Money
}

// IncomeNode is one node of the valued equity hierarchy. Exactly one of Group
// and Account is set.
type IncomeNode struct {
	Group    *AccountGroup
	Account  *Account
	Income   Money // in the reference currency
	Children []*IncomeNode
}

// Name returns the group or account name of the node.
func (n *IncomeNode) Name() string {
	if n.Group != nil {
		return n.Group.Name
	}
	return n.Account.Name
}

// IncomeStatement computes the income of every equity account over the period,
// derives the transaction and holding gain/loss virtual accounts, and projects
// the merged result onto the equity tree.
//
// A period in which no equity account has bookings yields an all-zero tree,
// not an error. Any unresolved rate aborts the whole statement; there is no
// partial income statement.
func (s *System) IncomeStatement(ctx context.Context, accounts []Account, groups []AccountGroup, period date.Range) (*IncomeStatement, error) {
	ref := s.ReferenceUnit()
	before := period.From.Add(-1)

	// Virtual accounts attach to the book's designated gain/loss groups,
	// falling back to the equity root group.
	equityRootID := ""
	groupIDs := make(map[string]bool, len(groups))
	for _, g := range groups {
		groupIDs[g.ID] = true
		if equityRootID == "" && g.Type == Equity && g.ParentGroupID == "" {
			equityRootID = g.ID
		}
	}
	if equityRootID == "" {
		return nil, &MissingRootGroupError{Type: Equity}
	}
	resolveGroup := func(designated string) string {
		if designated != "" && groupIDs[designated] {
			return designated
		}
		return equityRootID
	}

	var (
		mu       sync.Mutex
		incomes  = make(map[string]decimal.Decimal)
		virtuals []Account
	)
	record := func(account Account, income decimal.Decimal) {
		mu.Lock()
		defer mu.Unlock()
		incomes[account.ID] = income
		if account.Virtual {
			virtuals = append(virtuals, account)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for _, account := range accounts {
		account := account
		switch {
		case account.Type == Equity:
			g.Go(func() error {
				bookings, err := s.Rows.BookingsInRange(gctx, account.ID, period)
				if err != nil {
					return err
				}
				if len(bookings) == 0 {
					return nil
				}
				end, err := s.BalanceAsOf(gctx, account, ref, period.To)
				if err != nil {
					return err
				}
				start, err := s.BalanceAsOf(gctx, account, ref, before)
				if err != nil {
					return err
				}
				record(account, end.Sub(start))
				return nil
			})

		case account.Unit != ref:
			// Foreign-unit asset or liability: derive its holding gain/loss.
			g.Go(func() error {
				gainLoss, err := s.holdingGainLoss(gctx, account, period)
				if err != nil {
					return err
				}
				if gainLoss.IsZero() {
					return nil
				}
				record(s.holdingGainLossAccount(account, resolveGroup), gainLoss)
				return nil
			})
		}
	}

	g.Go(func() error {
		gainLoss, err := s.transactionGainLoss(gctx, period)
		if err != nil {
			return err
		}
		if gainLoss.IsZero() {
			return nil
		}
		record(s.transactionGainLossAccount(resolveGroup), gainLoss)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A deterministic leaf order before value-sorting kicks in.
	sort.Slice(virtuals, func(i, j int) bool { return virtuals[i].Name < virtuals[j].Name })

	var leaves []Account
	for _, account := range accounts {
		if account.Type == Equity {
			if _, ok := incomes[account.ID]; ok {
				leaves = append(leaves, account)
			}
		}
	}
	leaves = append(leaves, virtuals...)

	forest, err := BuildTree(leaves, groups)
	if err != nil {
		return nil, err
	}
	if forest.Equity == nil {
		return nil, &MissingRootGroupError{Type: Equity}
	}

	equity := s.buildIncomeNode(forest.Equity, incomes)
	return &IncomeStatement{
		Period:            period,
		ReferenceCurrency: s.Book.ReferenceCurrency,
		Equity:            equity,
		Total:             equity.Income,
	}, nil
}

// transactionGainLoss sums the residual value of every transaction whose
// latest booking falls within the period: each booking converted to the
// reference currency as of its own date, summed, and negated. Legs booked in
// different units cannot net to exactly zero in any single currency; the
// negated sum is that slippage. A transaction spanning several periods is
// attributed entirely to the period of its last booking.
func (s *System) transactionGainLoss(ctx context.Context, period date.Range) (decimal.Decimal, error) {
	ref := s.ReferenceUnit()
	transactions, err := s.Rows.TransactionsInPeriod(ctx, period)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, tx := range transactions {
		sum := decimal.Zero
		for _, b := range tx.Bookings {
			value, err := s.Rates.Convert(ctx, b.Value, b.Unit, ref, b.On)
			if err != nil {
				return decimal.Zero, err
			}
			sum = sum.Add(value)
		}
		total = total.Add(sum.Neg())
	}
	return total, nil
}

// holdingGainLoss isolates the value change of an account's balance caused by
// rate movement alone. Walking the period's bookings chronologically, at each
// booking date (and once more at the period end) it multiplies the balance
// held before that date's bookings by the rate change since the previous
// checkpoint; the balance is updated only afterwards, so transaction-driven
// change never leaks into the rate-driven component.
func (s *System) holdingGainLoss(ctx context.Context, account Account, period date.Range) (decimal.Decimal, error) {
	before := period.From.Add(-1)
	balance, err := s.BalanceAsOf(ctx, account, account.Unit, before)
	if err != nil {
		return decimal.Zero, err
	}
	bookings, err := s.Rows.BookingsInRange(ctx, account.ID, period)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.IsZero() && len(bookings) == 0 {
		return decimal.Zero, nil
	}

	prevRate, err := s.referenceRate(ctx, account.Unit, before)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := 0; i < len(bookings); {
		on := bookings[i].On
		rate, err := s.referenceRate(ctx, account.Unit, on)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance.Mul(rate.Sub(prevRate)))
		for i < len(bookings) && bookings[i].On == on {
			balance = balance.Add(bookings[i].Value)
			i++
		}
		prevRate = rate
	}

	if len(bookings) == 0 || bookings[len(bookings)-1].On != period.To {
		rate, err := s.referenceRate(ctx, account.Unit, period.To)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(balance.Mul(rate.Sub(prevRate)))
	}
	return total, nil
}

// referenceRate returns the value of one unit of u in the reference currency.
func (s *System) referenceRate(ctx context.Context, u Unit, on date.Date) (decimal.Decimal, error) {
	return s.Rates.Convert(ctx, one, u, s.ReferenceUnit(), on)
}

// transactionGainLossAccount synthesizes the virtual equity account carrying
// the period's transaction gain/loss.
func (s *System) transactionGainLossAccount(resolveGroup func(string) string) Account {
	return Account{
		ID:       uuid.NewString(),
		Name:     "Transaction gain/loss",
		Type:     Equity,
		GroupID:  resolveGroup(s.Book.FXGainLossGroupID),
		IsActive: true,
		Virtual:  true,
	}
}

// holdingGainLossAccount synthesizes the virtual equity account carrying one
// foreign-unit account's holding gain/loss, attached to the designated equity
// group of the unit's asset class.
func (s *System) holdingGainLossAccount(source Account, resolveGroup func(string) string) Account {
	var designated string
	switch source.Unit.Kind() {
	case SecurityUnit:
		designated = s.Book.SecurityGainLossGroupID
	case CryptocurrencyUnit:
		designated = s.Book.CryptoGainLossGroupID
	default:
		designated = s.Book.FXGainLossGroupID
	}
	return Account{
		ID:       uuid.NewString(),
		Name:     "Holding gain/loss " + source.Name,
		Type:     Equity,
		GroupID:  resolveGroup(designated),
		IsActive: true,
		Virtual:  true,
	}
}

// buildIncomeNode projects per-account incomes onto a tree, sums them upward,
// and drops zero-income children. Children with an explicit sort order come
// first, in that order; the rest sort by descending income magnitude.
func (s *System) buildIncomeNode(n *GroupNode, incomes map[string]decimal.Decimal) *IncomeNode {
	ref := s.Book.ReferenceCurrency
	group := n.Group
	node := &IncomeNode{Group: &group, Income: NewMoney(decimal.Zero, ref)}

	for _, child := range n.Children {
		var childNode *IncomeNode
		switch c := child.(type) {
		case *GroupNode:
			childNode = s.buildIncomeNode(c, incomes)
		case *AccountNode:
			account := c.Account
			childNode = &IncomeNode{
				Account: &account,
				Income:  NewMoney(incomes[account.ID], ref),
			}
		}
		if childNode.Income.IsZero() {
			continue
		}
		node.Income = node.Income.Add(childNode.Income)
		node.Children = append(node.Children, childNode)
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i].sortOrder(), node.Children[j].sortOrder()
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return node.Children[i].Income.Abs().Amount().
				GreaterThan(node.Children[j].Income.Abs().Amount())
		}
	})
	return node
}

func (n *IncomeNode) sortOrder() *int {
	if n.Group != nil {
		return n.Group.SortOrder
	}
	return n.Account.SortOrder
}
