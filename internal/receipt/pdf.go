package receipt

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/mmynk/tablesplit/internal/money"
)

// WritePDF renders the summary as a one-column A4 PDF.
func WritePDF(w io.Writer, s Summary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bill Summary", false)
	pdf.AddPage()

	title := "Bill Summary"
	if s.TableName != "" {
		title += " - " + s.TableName
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	line := func(indent float64, label, amount string) {
		pdf.SetX(10 + indent)
		pdf.CellFormat(150-indent, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, amount, "", 1, "R", false, 0, "")
	}

	for _, d := range s.Breakdowns {
		pdf.SetFont("Arial", "B", 12)
		name := d.DinerName
		if s.Confirmed != nil && s.Confirmed[d.DinerID] {
			name += " (confirmed)"
		}
		line(0, name, money.Format(d.Total))

		pdf.SetFont("Arial", "", 10)
		for _, item := range d.IndividualItems {
			line(4, fmt.Sprintf("%dx %s", item.Quantity, item.Item.Name), money.Format(item.Total))
		}
		for _, item := range d.SharedItems {
			line(4, fmt.Sprintf("%dx %s (split %d ways, %s total)",
				item.Quantity, item.Item.Name, item.SplitBetween, money.Format(item.TotalPrice)),
				money.Format(item.PortionPrice))
		}
		line(4, "Subtotal", money.Format(d.Subtotal))
		line(4, "Tax ("+money.Percent(s.TaxRate)+")", money.Format(d.Tax))
		if s.TipPercentage > 0 {
			line(4, "Tip ("+tipLabel(s.TipPercentage)+")", money.Format(d.Tip))
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Total Bill", "T", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	line(4, "Subtotal", money.Format(s.Totals.Subtotal))
	line(4, "Tax", money.Format(s.Totals.Tax))
	if s.TipPercentage > 0 {
		line(4, "Tip ("+tipLabel(s.TipPercentage)+")", money.Format(s.Totals.TipAmount))
	}
	pdf.SetFont("Arial", "B", 12)
	line(4, "Grand Total", money.Format(s.Totals.GrandTotal))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
