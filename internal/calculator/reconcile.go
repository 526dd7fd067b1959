package calculator

import "math"

// Reconciliation compares the raw order total with what was charged to diners.
type Reconciliation struct {
	OrderTotal  float64  // Σ price × quantity over all lines
	Allocated   float64  // Σ diner subtotals
	Unallocated float64  // OrderTotal - Allocated
	Orphaned    []string // IDs of individual lines with no assignee
}

// Balanced reports whether every cent of the order landed on some diner.
// Under AssignFull a multi-assignee line over-allocates, which also counts
// as unbalanced.
func (r Reconciliation) Balanced() bool {
	return len(r.Orphaned) == 0 && math.Abs(r.Unallocated) < 0.005
}

// Reconcile detects money that ComputeBreakdown left off every diner's bill.
// It never fails; flagging the mismatch is left to the caller.
func Reconcile(lines []OrderLine, breakdowns []BillBreakdown) Reconciliation {
	r := Reconciliation{Orphaned: []string{}}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		r.OrderTotal += line.Total()
		if !line.IsShared && len(line.AssignedTo) == 0 {
			r.Orphaned = append(r.Orphaned, line.ID)
		}
	}
	for _, b := range breakdowns {
		r.Allocated += b.Subtotal
	}
	r.Unallocated = r.OrderTotal - r.Allocated
	return r
}
