package cashfolio

import "fmt"

// Node is one element of the account hierarchy view: either a GroupNode with
// children, or an AccountNode leaf. Trees are built fresh on every query and
// never persisted.
type Node interface{ node() }

// GroupNode is an account group with its child groups and accounts.
type GroupNode struct {
	Group    AccountGroup
	Children []Node
}

// AccountNode is a leaf of the hierarchy.
type AccountNode struct {
	Account Account
}

func (*GroupNode) node()   {}
func (*AccountNode) node() {}

// Forest holds the per-type trees of the account hierarchy. A type whose root
// group is absent from the input has a nil entry; callers decide whether that
// is fatal for their query.
type Forest struct {
	Assets      *GroupNode
	Liabilities *GroupNode
	Equity      *GroupNode
}

// Root returns the tree for one account type, or nil.
func (f Forest) Root(t AccountType) *GroupNode {
	switch t {
	case Asset:
		return f.Assets
	case Liability:
		return f.Liabilities
	case Equity:
		return f.Equity
	default:
		return nil
	}
}

// BuildTree assembles flat account and group rows into the per-type hierarchy.
// At each level children are the child groups in group input order, followed
// by the accounts in account input order. The group forest is expected to be
// acyclic; a cycle in the input is detected and reported rather than trusted.
func BuildTree(accounts []Account, groups []AccountGroup) (Forest, error) {
	childGroups := make(map[string][]AccountGroup)
	childAccounts := make(map[string][]Account)
	for _, g := range groups {
		if g.ParentGroupID != "" {
			childGroups[g.ParentGroupID] = append(childGroups[g.ParentGroupID], g)
		}
	}
	for _, a := range accounts {
		childAccounts[a.GroupID] = append(childAccounts[a.GroupID], a)
	}

	var forest Forest
	for _, g := range groups {
		if g.ParentGroupID != "" {
			continue
		}
		visited := make(map[string]bool)
		root, err := buildGroupNode(g, childGroups, childAccounts, visited)
		if err != nil {
			return Forest{}, err
		}
		switch g.Type {
		case Asset:
			if forest.Assets == nil {
				forest.Assets = root
			}
		case Liability:
			if forest.Liabilities == nil {
				forest.Liabilities = root
			}
		case Equity:
			if forest.Equity == nil {
				forest.Equity = root
			}
		}
	}
	return forest, nil
}

func buildGroupNode(g AccountGroup, childGroups map[string][]AccountGroup, childAccounts map[string][]Account, visited map[string]bool) (*GroupNode, error) {
	if visited[g.ID] {
		return nil, fmt.Errorf("account group cycle detected at %q", g.ID)
	}
	visited[g.ID] = true

	node := &GroupNode{Group: g}
	for _, child := range childGroups[g.ID] {
		childNode, err := buildGroupNode(child, childGroups, childAccounts, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	for _, a := range childAccounts[g.ID] {
		node.Children = append(node.Children, &AccountNode{Account: a})
	}
	return node, nil
}
