// Package report renders the end-of-run portfolio summary for the
// terminal. Formatting lives here; the ledger only produces data.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/paperbroker/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).
			Width(20)

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"})
)

// Render formats the portfolio summary as a styled terminal block.
func Render(s domain.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Portfolio Summary"))
	b.WriteString("\n")

	writeRow(&b, "Initial Cash", s.InitialCash)
	writeRow(&b, "Final Cash", s.Balance)
	writeRow(&b, "Total Revenue", s.Revenue)
	writeRow(&b, "Total Cost", s.TotalCost)
	writeRow(&b, "Net Profit/Loss", s.NetProfit)
	writeRow(&b, "Total Fees Paid", s.TotalFees)
	writeRow(&b, "Net Cash Flow", s.CashFlow)

	if len(s.Positions) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-8s %10s %12s %14s %14s",
		"Stock", "Shares", "Avg Cost", "Last Price", "Unreal. P/L")))
	b.WriteString("\n")

	for _, p := range s.Positions {
		row := fmt.Sprintf("%-8s %10d %12s %14s %14s",
			p.Instrument,
			p.Quantity,
			money(p.AvgCost),
			money(p.LastPrice),
			money(p.UnrealizedPnL))
		if p.UnrealizedPnL.IsNegative() {
			row = negativeStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

func writeRow(b *strings.Builder, label string, amount decimal.Decimal) {
	value := money(amount)
	if amount.IsNegative() {
		value = negativeStyle.Render(value)
	}
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render(label+":"), value)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
