package calculator

import (
	"fmt"
	"sort"
)

// Transfer is a debt from one diner to another.
type Transfer struct {
	From   string // Diner who owes
	To     string // Diner who is owed
	Amount float64
}

// SettleUp works out who owes whom once the check has been paid.
//
// Each diner owes their total plus their tip share. payments maps diner IDs
// to what they actually put down at the register. The net balances are
// matched greedily, largest debtor against largest creditor, so the table
// ends up with few transfers. Amounts under one cent are dropped as
// floating point noise.
func SettleUp(breakdowns []BillBreakdown, payments map[string]float64, tipPercentage float64) ([]Transfer, error) {
	if tipPercentage < 0 {
		return nil, invalidInput("tipPercentage", "cannot be negative")
	}

	// Positive = owed money, negative = owes money
	net := make(map[string]float64, len(breakdowns))
	for _, b := range breakdowns {
		net[b.DinerID] -= b.Total * (1 + tipPercentage/100)
	}
	for dinerID, amount := range payments {
		if _, ok := net[dinerID]; !ok {
			return nil, invalidInput("payments", fmt.Sprintf("diner %s is not at the table", dinerID))
		}
		if amount < 0 {
			return nil, invalidInput("payments", fmt.Sprintf("diner %s has a negative payment", dinerID))
		}
		net[dinerID] += amount
	}

	type balance struct {
		id     string
		amount float64
	}
	var debtors, creditors []balance
	for id, amount := range net {
		if amount > 0 {
			creditors = append(creditors, balance{id, amount})
		} else if amount < 0 {
			debtors = append(debtors, balance{id, -amount})
		}
	}
	byAmount := func(s []balance) {
		sort.Slice(s, func(i, j int) bool {
			if s[i].amount != s[j].amount {
				return s[i].amount > s[j].amount
			}
			return s[i].id < s[j].id
		})
	}
	byAmount(debtors)
	byAmount(creditors)

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := d.amount
		if c.amount < amount {
			amount = c.amount
		}
		if amount > 0.01 {
			transfers = append(transfers, Transfer{From: d.id, To: c.id, Amount: amount})
		}

		d.amount -= amount
		c.amount -= amount
		if d.amount < 0.01 {
			i++
		}
		if c.amount < 0.01 {
			j++
		}
	}

	return transfers, nil
}
