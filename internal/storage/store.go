// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tablesplit/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when the table's status does not
	// allow the change, e.g. ordering on a closed table.
	ErrConflict = errors.New("conflict")
)

// Store defines the interface for table-session storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Order changes (AddDiner, SetTip, AddOrderLine, UpdateOrderLine,
// DeleteOrderLine) fail with ErrConflict on a closed table. In the same
// transaction they move a table in checkout back to open and clear every
// diner's confirmation.
type Store interface {
	// CreateTable persists a new table. ID and CreatedAt are filled in when empty.
	CreateTable(ctx context.Context, table *models.Table) error

	// GetTable retrieves a table by its ID.
	GetTable(ctx context.Context, tableID string) (*models.Table, error)

	// SetTip changes a table's tip percentage.
	SetTip(ctx context.Context, tableID string, tipPercentage float64) error

	// StartCheckout moves an open table with at least one diner to checkout.
	StartCheckout(ctx context.Context, tableID string) error

	// CloseTable moves a table in checkout to closed once every diner has confirmed.
	CloseTable(ctx context.Context, tableID string) error

	// AddDiner adds a diner to a table. ID and JoinedAt are filled in when empty.
	AddDiner(ctx context.Context, diner *models.Diner) error

	// ListDiners returns a table's diners in join order.
	ListDiners(ctx context.Context, tableID string) ([]*models.Diner, error)

	// SetDinerConnected updates only the diner's connectivity flag.
	SetDinerConnected(ctx context.Context, tableID, dinerID string, connected bool) error

	// ConfirmDiner sets HasConfirmed, only while the table is in checkout.
	ConfirmDiner(ctx context.Context, tableID, dinerID string) error

	// WithdrawConfirmation clears one diner's confirmation and moves a table
	// in checkout back to open.
	WithdrawConfirmation(ctx context.Context, tableID, dinerID string) error

	// UpsertMenuItems inserts or replaces catalog entries.
	UpsertMenuItems(ctx context.Context, items []models.MenuItem) error

	// ListMenuItems returns the catalog ordered by category then name.
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)

	// GetMenuItem retrieves a catalog entry by ID.
	GetMenuItem(ctx context.Context, itemID string) (*models.MenuItem, error)

	// AddOrderLine persists a new order line with its assignments.
	AddOrderLine(ctx context.Context, line *models.OrderLine) error

	// GetOrderLine retrieves one order line of a table.
	GetOrderLine(ctx context.Context, tableID, lineID string) (*models.OrderLine, error)

	// ListOrderLines returns a table's order lines in the order they were added.
	ListOrderLines(ctx context.Context, tableID string) ([]*models.OrderLine, error)

	// UpdateOrderLine saves quantity, sharing and assignments.
	UpdateOrderLine(ctx context.Context, line *models.OrderLine) error

	// DeleteOrderLine removes an order line and its assignments.
	DeleteOrderLine(ctx context.Context, tableID, lineID string) error

	// Close releases any resources held by the store.
	Close() error
}
