// Command splitcalc computes a restaurant bill split from a JSON check file.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/menu"
	"github.com/mmynk/tablesplit/internal/money"
	"github.com/mmynk/tablesplit/internal/receipt"
	"github.com/mmynk/tablesplit/pkg/logging"
)

func main() {
	logging.Setup()
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("splitcalc failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "splitcalc",
		Usage: "split a restaurant check between diners",
		Commands: []*cli.Command{
			{
				Name:   "compute",
				Usage:  "compute each diner's share of a check",
				Action: compute,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "check JSON with diners and orders (- for stdin)",
						Required: true,
					},
					&cli.Float64Flag{
						Name:    "tax-rate",
						Usage:   "tax rate as a fraction",
						Value:   0.08875,
						EnvVars: []string{"TAX_RATE"},
					},
					&cli.Float64Flag{
						Name:    "tip",
						Usage:   "tip percentage (20 means 20%)",
						EnvVars: []string{"TIP_PERCENTAGE"},
					},
					&cli.StringFlag{
						Name:    "policy",
						Usage:   "multi-assignee lines: full or split",
						Value:   "full",
						EnvVars: []string{"ASSIGNMENT_POLICY"},
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "text or pdf",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output path (default stdout)",
					},
				},
			},
			{
				Name:   "menu",
				Usage:  "print the default catalog",
				Action: printMenu,
			},
		},
	}
}

func compute(c *cli.Context) error {
	policy, err := calculator.ParseAssignmentPolicy(c.String("policy"))
	if err != nil {
		return err
	}
	format := c.String("format")
	if format != "text" && format != "pdf" {
		return fmt.Errorf("unknown format %q", format)
	}

	in := io.Reader(os.Stdin)
	if path := c.String("file"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open check: %w", err)
		}
		defer f.Close()
		in = f
	}

	name, diners, lines, err := readCheck(in, menu.DefaultCatalog())
	if err != nil {
		return err
	}

	taxRate, tip := c.Float64("tax-rate"), c.Float64("tip")
	breakdowns, err := calculator.ComputeBreakdown(diners, lines, taxRate,
		calculator.WithTip(tip),
		calculator.WithAssignmentPolicy(policy),
	)
	if err != nil {
		return err
	}
	if rec := calculator.Reconcile(lines, breakdowns); !rec.Balanced() {
		slog.Warn("Unallocated order lines",
			"line_ids", rec.Orphaned,
			"unallocated", money.Format(rec.Unallocated),
		)
	}

	summary := receipt.NewSummary(name, taxRate, tip, breakdowns)
	path := c.String("out")
	if path == "" {
		return writeReceipt(c.App.Writer, format, summary)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	return writeAndClose(f, format, summary)
}

func writeReceipt(w io.Writer, format string, summary receipt.Summary) error {
	if format == "pdf" {
		return receipt.WritePDF(w, summary)
	}
	return receipt.WriteText(w, summary)
}

// writeAndClose writes the receipt and reports a failed Close, which is
// where buffered writes to a full disk surface.
func writeAndClose(wc io.WriteCloser, format string, summary receipt.Summary) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	return writeReceipt(wc, format, summary)
}

func printMenu(c *cli.Context) error {
	groups := menu.ByCategory(menu.DefaultCatalog())
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, category := range categories {
		fmt.Fprintf(tw, "%s\n", category)
		for _, item := range groups[category] {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.ID, item.Name, money.Format(item.Price))
		}
	}
	return tw.Flush()
}
