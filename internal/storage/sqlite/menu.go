package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/storage"
)

// UpsertMenuItems inserts or replaces catalog entries in one transaction.
func (s *SQLiteStore) UpsertMenuItems(ctx context.Context, items []models.MenuItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO menu_items (id, name, price, category, description) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price,
			 category = excluded.category, description = excluded.description`,
			item.ID, item.Name, item.Price, item.Category, item.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert menu item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMenuItems returns the catalog ordered by category then name.
func (s *SQLiteStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, category, description FROM menu_items ORDER BY category, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Description); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu items: %w", err)
	}
	return items, nil
}

// GetMenuItem retrieves a catalog entry by ID.
func (s *SQLiteStore) GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, price, category, description FROM menu_items WHERE id = ?",
		itemID,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("menu item %s: %w", itemID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}
