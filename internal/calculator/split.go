package calculator

import (
	"math"
	"strconv"
)

// MenuItem is a catalog entry as seen by the calculator.
type MenuItem struct {
	ID          string
	Name        string
	Price       float64
	Category    string
	Description string
}

// OrderLine is one ordered quantity of a menu item for the table.
// AssignedTo is ignored when IsShared is set.
type OrderLine struct {
	ID         string
	Item       MenuItem
	Quantity   int
	IsShared   bool
	AssignedTo []string
}

// Total returns the extended price of the line (unit price × quantity).
func (l OrderLine) Total() float64 {
	return l.Item.Price * float64(l.Quantity)
}

// Diner is a participant at the table. Only ID and Name are needed here.
type Diner struct {
	ID   string
	Name string
}

// IndividualItem is a line charged to one diner.
type IndividualItem struct {
	Item     MenuItem
	Quantity int
	Total    float64
}

// SharedItem is one diner's portion of a shared line.
type SharedItem struct {
	Item         MenuItem
	Quantity     int
	TotalPrice   float64
	PortionPrice float64
	SplitBetween int
}

// BillBreakdown is the computed statement for one diner.
type BillBreakdown struct {
	DinerID         string
	DinerName       string
	IndividualItems []IndividualItem
	SharedItems     []SharedItem
	Subtotal        float64
	Tax             float64
	Total           float64 // Subtotal + Tax, before tip

	// Tip is this diner's share of the tip: Total × (tip / 100).
	Tip float64
}

// TotalWithTip is what the diner pays including their tip share.
func (b BillBreakdown) TotalWithTip() float64 {
	return b.Total + b.Tip
}

// AssignmentPolicy decides how an individual line with several assignees is charged.
type AssignmentPolicy int

const (
	// AssignFull charges the full line total to every assignee.
	AssignFull AssignmentPolicy = iota
	// AssignSplit divides the line total evenly among its assignees.
	AssignSplit
)

// String returns the policy name used in flags and logs.
func (p AssignmentPolicy) String() string {
	switch p {
	case AssignSplit:
		return "split"
	default:
		return "full"
	}
}

// ParseAssignmentPolicy parses "full" or "split".
func ParseAssignmentPolicy(s string) (AssignmentPolicy, error) {
	switch s {
	case "", "full":
		return AssignFull, nil
	case "split":
		return AssignSplit, nil
	default:
		return AssignFull, invalidInput("policy", "unknown assignment policy "+strconv.Quote(s))
	}
}

type options struct {
	tipPercentage float64
	policy        AssignmentPolicy
}

// Option configures ComputeBreakdown.
type Option func(*options)

// WithTip sets the tip percentage in percent units (20 means 20%).
func WithTip(percentage float64) Option {
	return func(o *options) { o.tipPercentage = percentage }
}

// WithAssignmentPolicy overrides the default AssignFull policy.
func WithAssignmentPolicy(p AssignmentPolicy) Option {
	return func(o *options) { o.policy = p }
}

// ComputeBreakdown computes each diner's share of the check.
//
// Individual lines are charged to the diners listed in AssignedTo. Shared
// lines are divided evenly across the whole roster, whatever AssignedTo
// holds. Tax is subtotal × taxRate. Results follow the order of diners and
// are never rounded; round at display time with the money package.
//
// An individual line nobody is assigned to is charged to nobody. Use
// Reconcile to detect that.
func ComputeBreakdown(diners []Diner, lines []OrderLine, taxRate float64, opts ...Option) ([]BillBreakdown, error) {
	o := options{policy: AssignFull}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(diners, lines, taxRate, o.tipPercentage); err != nil {
		return nil, err
	}

	divisor := len(diners)
	breakdowns := make([]BillBreakdown, 0, divisor)

	for _, diner := range diners {
		b := BillBreakdown{
			DinerID:         diner.ID,
			DinerName:       diner.Name,
			IndividualItems: []IndividualItem{},
			SharedItems:     []SharedItem{},
		}

		for _, line := range lines {
			if line.Quantity == 0 {
				continue
			}
			lineTotal := line.Total()

			if line.IsShared {
				b.SharedItems = append(b.SharedItems, SharedItem{
					Item:         line.Item,
					Quantity:     line.Quantity,
					TotalPrice:   lineTotal,
					PortionPrice: lineTotal / float64(divisor),
					SplitBetween: divisor,
				})
				continue
			}

			if !assignedTo(line, diner.ID) {
				continue
			}
			charge := lineTotal
			if o.policy == AssignSplit {
				charge = lineTotal / float64(countAssignees(line))
			}
			b.IndividualItems = append(b.IndividualItems, IndividualItem{
				Item:     line.Item,
				Quantity: line.Quantity,
				Total:    charge,
			})
		}

		for _, item := range b.IndividualItems {
			b.Subtotal += item.Total
		}
		for _, item := range b.SharedItems {
			b.Subtotal += item.PortionPrice
		}
		b.Tax = b.Subtotal * taxRate
		b.Total = b.Subtotal + b.Tax
		b.Tip = b.Total * (o.tipPercentage / 100)
		if !finite(b.Subtotal, b.Tax, b.Total, b.Tip) {
			return nil, invalidInput("orderLines", "diner "+diner.ID+" total overflows")
		}

		breakdowns = append(breakdowns, b)
	}

	g := ComputeGrandTotals(breakdowns, o.tipPercentage)
	if !finite(g.Subtotal, g.Tax, g.Total, g.TipAmount, g.GrandTotal) {
		return nil, invalidInput("orderLines", "table total overflows")
	}

	return breakdowns, nil
}

// GrandTotals aggregates all diners' breakdowns.
type GrandTotals struct {
	Subtotal   float64
	Tax        float64
	Total      float64 // pre-tip
	TipAmount  float64
	GrandTotal float64
}

// ComputeGrandTotals sums already computed breakdowns and applies the tip
// to the pre-tip total.
func ComputeGrandTotals(breakdowns []BillBreakdown, tipPercentage float64) GrandTotals {
	var g GrandTotals
	for _, b := range breakdowns {
		g.Subtotal += b.Subtotal
		g.Tax += b.Tax
		g.Total += b.Total
	}

	g.GrandTotal = g.Total
	if tipPercentage > 0 {
		g.TipAmount = g.Total * (tipPercentage / 100)
		g.GrandTotal = g.Total + g.TipAmount
	}
	return g
}

func validate(diners []Diner, lines []OrderLine, taxRate, tipPercentage float64) error {
	if len(diners) == 0 {
		return invalidInput("diners", "must have at least one diner")
	}
	if !finite(taxRate) {
		return invalidInput("taxRate", "must be a finite number")
	}
	if taxRate < 0 {
		return invalidInput("taxRate", "cannot be negative")
	}
	if !finite(tipPercentage) {
		return invalidInput("tipPercentage", "must be a finite number")
	}
	if tipPercentage < 0 {
		return invalidInput("tipPercentage", "cannot be negative")
	}
	return ValidateOrder(lines)
}

// ValidateOrder checks order lines on their own, without a roster: no
// negative or non-finite prices, no negative quantities, and line totals
// whose sum fits in a float64.
func ValidateOrder(lines []OrderLine) error {
	var sum float64
	for _, line := range lines {
		if line.Quantity < 0 {
			return invalidInput("quantity", "order line "+line.ID+" has a negative quantity")
		}
		if !finite(line.Item.Price) {
			return invalidInput("price", "menu item "+line.Item.ID+" has a non-finite price")
		}
		if line.Item.Price < 0 {
			return invalidInput("price", "menu item "+line.Item.ID+" has a negative price")
		}
		sum += line.Total()
		if !finite(line.Total(), sum) {
			return invalidInput("quantity", "order line "+line.ID+" total overflows")
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func assignedTo(line OrderLine, dinerID string) bool {
	for _, id := range line.AssignedTo {
		if id == dinerID {
			return true
		}
	}
	return false
}

// countAssignees counts distinct assignees so a duplicated ID doesn't dilute the split.
func countAssignees(line OrderLine) int {
	seen := make(map[string]bool, len(line.AssignedTo))
	for _, id := range line.AssignedTo {
		seen[id] = true
	}
	return len(seen)
}
