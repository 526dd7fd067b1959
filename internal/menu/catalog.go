// Package menu holds the default catalog and seeds it into storage.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mmynk/tablesplit/internal/models"
)

// Seeder is the storage the catalog is loaded into.
type Seeder interface {
	UpsertMenuItems(ctx context.Context, items []models.MenuItem) error
}

// DefaultCatalog returns the house menu.
func DefaultCatalog() []models.MenuItem {
	return []models.MenuItem{
		{ID: "1", Name: "Galbi (Short Ribs)", Price: 32.99, Category: "BBQ", Description: "Premium marinated short ribs"},
		{ID: "2", Name: "Bulgogi", Price: 28.99, Category: "BBQ", Description: "Marinated sliced beef"},
		{ID: "3", Name: "Pork Belly", Price: 26.99, Category: "BBQ", Description: "Fresh thick cut pork belly"},
		{ID: "4", Name: "Spicy Pork", Price: 25.99, Category: "BBQ", Description: "Gochujang marinated pork"},
		{ID: "5", Name: "Kimchi", Price: 8.99, Category: "Sides", Description: "Fermented cabbage"},
		{ID: "6", Name: "Japchae", Price: 12.99, Category: "Sides", Description: "Sweet potato noodles"},
		{ID: "7", Name: "Pajeon", Price: 14.99, Category: "Sides", Description: "Korean scallion pancake"},
		{ID: "8", Name: "Soju (Original)", Price: 18.99, Category: "Drinks", Description: "Korean rice wine"},
		{ID: "9", Name: "Korean Beer", Price: 6.99, Category: "Drinks", Description: "Hite or Cass"},
		{ID: "10", Name: "Makgeolli", Price: 22.99, Category: "Drinks", Description: "Korean rice wine"},
	}
}

// Seed loads items into the store. Existing entries with the same ID are replaced.
func Seed(ctx context.Context, store Seeder, items []models.MenuItem) error {
	for _, item := range items {
		if item.ID == "" || item.Name == "" {
			return fmt.Errorf("menu item requires id and name: %+v", item)
		}
		if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return fmt.Errorf("menu item %s has a non-finite price", item.ID)
		}
		if item.Price < 0 {
			return fmt.Errorf("menu item %s has a negative price", item.ID)
		}
	}
	if err := store.UpsertMenuItems(ctx, items); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	slog.Info("Menu seeded", "items", len(items))
	return nil
}

// ByCategory groups items by category, keeping their order within each group.
func ByCategory(items []models.MenuItem) map[string][]models.MenuItem {
	out := make(map[string][]models.MenuItem)
	for _, item := range items {
		out[item.Category] = append(out[item.Category], item)
	}
	return out
}
