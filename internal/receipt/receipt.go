// Package receipt renders a table's split as a plain-text or PDF bill summary.
package receipt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/money"
)

// Summary is everything a receipt shows.
type Summary struct {
	TableName     string
	TaxRate       float64
	TipPercentage float64
	Breakdowns    []calculator.BillBreakdown
	Totals        calculator.GrandTotals

	// Confirmed marks diners who accepted their amount. Nil hides the status.
	Confirmed map[string]bool
}

// NewSummary computes the grand totals for breakdowns.
func NewSummary(tableName string, taxRate, tipPercentage float64, breakdowns []calculator.BillBreakdown) Summary {
	return Summary{
		TableName:     tableName,
		TaxRate:       taxRate,
		TipPercentage: tipPercentage,
		Breakdowns:    breakdowns,
		Totals:        calculator.ComputeGrandTotals(breakdowns, tipPercentage),
	}
}

const width = 44

// WriteText renders the summary as fixed-width text.
func WriteText(w io.Writer, s Summary) error {
	var b strings.Builder

	title := "Bill Summary"
	if s.TableName != "" {
		title += " - " + s.TableName
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", width) + "\n")

	for _, d := range s.Breakdowns {
		name := d.DinerName
		if s.Confirmed != nil {
			if s.Confirmed[d.DinerID] {
				name += " [confirmed]"
			} else {
				name += " [pending]"
			}
		}
		row(&b, 0, name, money.Format(d.Total))

		if len(d.IndividualItems) > 0 {
			b.WriteString("  Individual Items\n")
			for _, item := range d.IndividualItems {
				row(&b, 4, fmt.Sprintf("%dx %s", item.Quantity, item.Item.Name), money.Format(item.Total))
			}
		}
		if len(d.SharedItems) > 0 {
			b.WriteString("  Shared Items (Your Portion)\n")
			for _, item := range d.SharedItems {
				row(&b, 4, fmt.Sprintf("%dx %s", item.Quantity, item.Item.Name), money.Format(item.PortionPrice))
				fmt.Fprintf(&b, "       Split %d ways (%s total)\n", item.SplitBetween, money.Format(item.TotalPrice))
			}
		}

		row(&b, 2, "Subtotal", money.Format(d.Subtotal))
		row(&b, 2, "Tax ("+money.Percent(s.TaxRate)+")", money.Format(d.Tax))
		if s.TipPercentage > 0 {
			row(&b, 2, "Tip ("+tipLabel(s.TipPercentage)+")", money.Format(d.Tip))
		}
		b.WriteString(strings.Repeat("-", width) + "\n")
	}

	b.WriteString("Total Bill\n")
	row(&b, 2, "Subtotal", money.Format(s.Totals.Subtotal))
	row(&b, 2, "Tax", money.Format(s.Totals.Tax))
	if s.TipPercentage > 0 {
		row(&b, 2, "Tip ("+tipLabel(s.TipPercentage)+")", money.Format(s.Totals.TipAmount))
	}
	row(&b, 2, "Grand Total", money.Format(s.Totals.GrandTotal))

	_, err := io.WriteString(w, b.String())
	return err
}

func row(b *strings.Builder, indent int, label, amount string) {
	pad := width - indent - len(amount)
	if pad < len(label)+1 {
		pad = len(label) + 1
	}
	fmt.Fprintf(b, "%s%-*s%s\n", strings.Repeat(" ", indent), pad, label, amount)
}

// tipLabel prints a tip percentage without trailing zeros, e.g. "20%" or "17.5%".
func tipLabel(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}
