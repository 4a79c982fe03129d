package renderer

import (
	"fmt"
	"strings"

	cashfolio "github.com/felixmokross/cashfolio2-sub000"
)

// IncomeStatementMarkdown renders an income statement as a markdown document.
// Equity bookings carry income as negative values, so the display flips the
// sign: a positive number reads as income, a negative one as expense.
func IncomeStatementMarkdown(is *cashfolio.IncomeStatement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Income Statement %s\n\n", is.Period)
	fmt.Fprintf(&b, "All values in %s.\n\n", is.ReferenceCurrency)

	fmt.Fprintln(&b, "| Account | Income |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, child := range is.Equity.Children {
		writeIncomeRows(&b, child, 0)
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", is.Total.Neg().SignedString())
	return b.String()
}

func writeIncomeRows(b *strings.Builder, n *cashfolio.IncomeNode, depth int) {
	name := n.Name()
	if n.Group != nil {
		name = "**" + name + "**"
	}
	fmt.Fprintf(b, "| %s%s | %s |\n", strings.Repeat("&nbsp;&nbsp;", depth), name, n.Income.Neg().SignedString())
	for _, child := range n.Children {
		writeIncomeRows(b, child, depth+1)
	}
}
