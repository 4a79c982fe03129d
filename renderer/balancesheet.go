// Package renderer renders valuation reports as markdown for the CLI.
package renderer

import (
	"fmt"
	"strings"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
)

// BalanceSheetMarkdown renders a balance sheet as a markdown document.
// Liabilities are sign-flipped for display; the engine keeps their natural
// negative sign.
func BalanceSheetMarkdown(bs *cashfolio.BalanceSheet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Balance Sheet as of %s\n\n", bs.On)
	fmt.Fprintf(&b, "All values in %s.\n\n", bs.ReferenceCurrency)

	fmt.Fprint(&b, "## Assets\n\n")
	writeBalanceTable(&b, bs.Assets, false)

	fmt.Fprint(&b, "\n## Liabilities\n\n")
	writeBalanceTable(&b, bs.Liabilities, true)

	fmt.Fprintf(&b, "\n**Equity: %s**\n", bs.Equity)
	return b.String()
}

func writeBalanceTable(b *strings.Builder, root *cashfolio.BalanceNode, flipSign bool) {
	fmt.Fprintln(b, "| Account | Balance | Original |")
	fmt.Fprintln(b, "|:---|---:|---:|")
	for _, child := range root.Children {
		writeBalanceRows(b, child, 0, flipSign)
	}
	total := root.Balance
	if flipSign {
		total = total.Neg()
	}
	fmt.Fprintf(b, "| **Total** | **%s** | |\n", total)
}

func writeBalanceRows(b *strings.Builder, n *cashfolio.BalanceNode, depth int, flipSign bool) {
	balance := n.Balance
	if flipSign {
		balance = balance.Neg()
	}
	original := ""
	if n.Native != nil {
		value := n.Native.Value
		if flipSign {
			value = value.Neg()
		}
		original = fmt.Sprintf("%s %s", value, n.Native.Unit.Label())
	}

	name := n.Name()
	if n.Group != nil {
		name = "**" + name + "**"
	}
	fmt.Fprintf(b, "| %s%s | %s | %s |\n", strings.Repeat("&nbsp;&nbsp;", depth), name, balance, original)

	for _, child := range n.Children {
		writeBalanceRows(b, child, depth+1, flipSign)
	}
}
