package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"github.com/pereira90/banknow/ledger"
)

// renderTable writes a padded text table with a styled header row. Column
// widths follow the widest cell, measured in display cells so wide runes in
// names and addresses line up.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runewidth.StringWidth(cell) > widths[i] {
				widths[i] = runewidth.StringWidth(cell)
			}
		}
	}

	var line strings.Builder
	for i, h := range headers {
		if i > 0 {
			line.WriteString("  ")
		}
		line.WriteString(runewidth.FillRight(h, widths[i]))
	}
	_, _ = fmt.Fprintln(w, headerStyle.Render(line.String()))

	total := 0
	for _, width := range widths {
		total += width
	}
	_, _ = fmt.Fprintln(w, strings.Repeat("-", total+2*(len(widths)-1)))

	for _, row := range rows {
		line.Reset()
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// formatCurrency renders an amount for display: currency symbol, thousands
// separators, two decimal places.
func formatCurrency(amount decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", amount.InexactFloat64())
}

// formatRate renders an interest rate as an annual percentage.
func formatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "% p.a."
}

// transactionDetails describes the variant-specific part of a transaction
// for history listings.
func transactionDetails(tx ledger.Transaction) string {
	switch t := tx.(type) {
	case *ledger.TransferSent:
		return "To Acct: " + t.To
	case *ledger.TransferReceived:
		return "From Acct: " + t.From
	case *ledger.InterestApplied:
		return "Rate: " + formatRate(t.Rate)
	default:
		return ""
	}
}
