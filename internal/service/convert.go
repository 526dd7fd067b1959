package service

import (
	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/money"
	"github.com/mmynk/tablesplit/pkg/api"
)

func toCalcDiners(diners []*models.Diner) []calculator.Diner {
	out := make([]calculator.Diner, len(diners))
	for i, d := range diners {
		out[i] = calculator.Diner{ID: d.ID, Name: d.Name}
	}
	return out
}

func toCalcLines(lines []*models.OrderLine) []calculator.OrderLine {
	out := make([]calculator.OrderLine, len(lines))
	for i, l := range lines {
		out[i] = calculator.OrderLine{
			ID: l.ID,
			Item: calculator.MenuItem{
				ID:          l.MenuItem.ID,
				Name:        l.MenuItem.Name,
				Price:       l.MenuItem.Price,
				Category:    l.MenuItem.Category,
				Description: l.MenuItem.Description,
			},
			Quantity:   l.Quantity,
			IsShared:   l.IsShared,
			AssignedTo: l.AssignedTo,
		}
	}
	return out
}

func toAPITable(t *models.Table) api.Table {
	return api.Table{
		ID:            t.ID,
		Name:          t.Name,
		TaxRate:       t.TaxRate,
		TipPercentage: t.TipPercentage,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}

func toAPIDiner(d *models.Diner, total float64) api.Diner {
	return api.Diner{
		ID:           d.ID,
		Name:         d.Name,
		IsConnected:  d.IsConnected,
		HasConfirmed: d.HasConfirmed,
		Total:        total,
		JoinedAt:     d.JoinedAt,
	}
}

func toAPIMenuItem(item models.MenuItem) api.MenuItem {
	return api.MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Category:    item.Category,
		Description: item.Description,
	}
}

func calcItemToAPI(item calculator.MenuItem) api.MenuItem {
	return api.MenuItem{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Category:    item.Category,
		Description: item.Description,
	}
}

func toAPIOrderLine(l *models.OrderLine) *api.OrderLine {
	assigned := l.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return &api.OrderLine{
		ID:         l.ID,
		MenuItem:   toAPIMenuItem(l.MenuItem),
		Quantity:   l.Quantity,
		IsShared:   l.IsShared,
		AssignedTo: assigned,
	}
}

func toAPIBreakdown(b calculator.BillBreakdown) api.Breakdown {
	individual := make([]api.IndividualItem, len(b.IndividualItems))
	for i, item := range b.IndividualItems {
		individual[i] = api.IndividualItem{
			Item:     calcItemToAPI(item.Item),
			Quantity: item.Quantity,
			Total:    item.Total,
		}
	}
	shared := make([]api.SharedItem, len(b.SharedItems))
	for i, item := range b.SharedItems {
		shared[i] = api.SharedItem{
			Item:         calcItemToAPI(item.Item),
			Quantity:     item.Quantity,
			TotalPrice:   item.TotalPrice,
			PortionPrice: item.PortionPrice,
			SplitBetween: item.SplitBetween,
		}
	}
	return api.Breakdown{
		DinerID:         b.DinerID,
		DinerName:       b.DinerName,
		IndividualItems: individual,
		SharedItems:     shared,
		Subtotal:        b.Subtotal,
		Tax:             b.Tax,
		Total:           b.Total,
		Tip:             b.Tip,
		Display: api.Display{
			Subtotal: money.Format(b.Subtotal),
			Tax:      money.Format(b.Tax),
			Tip:      money.Format(b.Tip),
			Total:    money.Format(b.Total),
		},
	}
}

func toAPITotals(g calculator.GrandTotals) api.Totals {
	return api.Totals{
		Subtotal:   g.Subtotal,
		Tax:        g.Tax,
		Total:      g.Total,
		TipAmount:  g.TipAmount,
		GrandTotal: g.GrandTotal,
		Display: api.Display{
			Subtotal: money.Format(g.Subtotal),
			Tax:      money.Format(g.Tax),
			Tip:      money.Format(g.TipAmount),
			Total:    money.Format(g.GrandTotal),
		},
	}
}

func toAPIReconciliation(r calculator.Reconciliation) api.Reconciliation {
	return api.Reconciliation{
		OrderTotal:  r.OrderTotal,
		Allocated:   r.Allocated,
		Unallocated: r.Unallocated,
		Orphaned:    r.Orphaned,
		Balanced:    r.Balanced(),
	}
}
