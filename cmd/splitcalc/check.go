package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/models"
)

// checkFile is the JSON input to the compute command.
type checkFile struct {
	Name   string      `json:"name"`
	Diners []checkDiner `json:"diners"`
	Orders []checkOrder `json:"orders"`
}

type checkDiner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type checkOrder struct {
	ID string `json:"id"`
	// MenuItemID references the default catalog. Item overrides it when set.
	MenuItemID string     `json:"menu_item_id"`
	Item       *checkItem `json:"item"`
	Quantity   *int       `json:"quantity"`
	IsShared   bool       `json:"is_shared"`
	AssignedTo []string   `json:"assigned_to"`
}

type checkItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// readCheck decodes a check and resolves menu references against catalog.
func readCheck(r io.Reader, catalog []models.MenuItem) (string, []calculator.Diner, []calculator.OrderLine, error) {
	var cf checkFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cf); err != nil {
		return "", nil, nil, fmt.Errorf("failed to parse check: %w", err)
	}

	byID := make(map[string]models.MenuItem, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	diners := make([]calculator.Diner, len(cf.Diners))
	for i, d := range cf.Diners {
		diners[i] = calculator.Diner{ID: d.ID, Name: d.Name}
	}

	lines := make([]calculator.OrderLine, len(cf.Orders))
	for i, o := range cf.Orders {
		line := calculator.OrderLine{
			ID:         o.ID,
			Quantity:   1,
			IsShared:   o.IsShared,
			AssignedTo: o.AssignedTo,
		}
		if line.ID == "" {
			line.ID = strconv.Itoa(i + 1)
		}
		if o.Quantity != nil {
			line.Quantity = *o.Quantity
		}

		switch {
		case o.Item != nil:
			line.Item = calculator.MenuItem{
				ID:       o.Item.ID,
				Name:     o.Item.Name,
				Price:    o.Item.Price,
				Category: o.Item.Category,
			}
		case o.MenuItemID != "":
			item, ok := byID[o.MenuItemID]
			if !ok {
				return "", nil, nil, fmt.Errorf("order %s: unknown menu item %s", line.ID, o.MenuItemID)
			}
			line.Item = calculator.MenuItem{
				ID:          item.ID,
				Name:        item.Name,
				Price:       item.Price,
				Category:    item.Category,
				Description: item.Description,
			}
		default:
			return "", nil, nil, fmt.Errorf("order %s: needs item or menu_item_id", line.ID)
		}
		lines[i] = line
	}

	return cf.Name, diners, lines, nil
}
