package menu

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mmynk/tablesplit/internal/models"
)

type fakeSeeder struct {
	items []models.MenuItem
	err   error
}

func (f *fakeSeeder) UpsertMenuItems(ctx context.Context, items []models.MenuItem) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, items...)
	return nil
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.MenuItem
		seedErr error
		wantErr bool
		wantLen int
	}{
		{name: "default catalog", items: DefaultCatalog(), wantLen: 10},
		{name: "missing id", items: []models.MenuItem{{Name: "Kimchi", Price: 8.99}}, wantErr: true},
		{name: "negative price", items: []models.MenuItem{{ID: "x", Name: "Refund", Price: -1}}, wantErr: true},
		{name: "NaN price", items: []models.MenuItem{{ID: "x", Name: "Market Price", Price: math.NaN()}}, wantErr: true},
		{name: "infinite price", items: []models.MenuItem{{ID: "x", Name: "Priceless", Price: math.Inf(1)}}, wantErr: true},
		{name: "store failure", items: DefaultCatalog(), seedErr: errors.New("disk full"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSeeder{err: tt.seedErr}
			err := Seed(context.Background(), store, tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Seed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(store.items) != tt.wantLen {
				t.Errorf("seeded %d items, want %d", len(store.items), tt.wantLen)
			}
		})
	}
}

func TestByCategory(t *testing.T) {
	groups := ByCategory(DefaultCatalog())
	if len(groups["BBQ"]) != 4 || len(groups["Sides"]) != 3 || len(groups["Drinks"]) != 3 {
		t.Errorf("unexpected grouping: BBQ=%d Sides=%d Drinks=%d",
			len(groups["BBQ"]), len(groups["Sides"]), len(groups["Drinks"]))
	}
	if groups["BBQ"][0].Name != "Galbi (Short Ribs)" {
		t.Errorf("first BBQ item = %s", groups["BBQ"][0].Name)
	}
}
