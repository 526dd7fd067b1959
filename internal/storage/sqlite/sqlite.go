// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTable persists a new table.
func (s *SQLiteStore) CreateTable(ctx context.Context, table *models.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	if table.CreatedAt == 0 {
		table.CreatedAt = time.Now().Unix()
	}
	if table.Status == "" {
		table.Status = models.TableOpen
	}
	if table.Name == "" {
		table.Name = generateName(table.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO dining_tables (id, name, tax_rate, tip_percentage, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		table.ID, table.Name, table.TaxRate, table.TipPercentage, string(table.Status), table.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}
	return nil
}

// GetTable retrieves a table by ID.
func (s *SQLiteStore) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	table := &models.Table{}
	var status string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, tax_rate, tip_percentage, status, created_at FROM dining_tables WHERE id = ?",
		tableID,
	).Scan(&table.ID, &table.Name, &table.TaxRate, &table.TipPercentage, &status, &table.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("table %s: %w", tableID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	table.Status = models.TableStatus(status)
	return table, nil
}

// AddDiner adds a diner to a table that is not closed.
func (s *SQLiteStore) AddDiner(ctx context.Context, diner *models.Diner) error {
	if diner.ID == "" {
		diner.ID = uuid.New().String()
	}
	if diner.JoinedAt == 0 {
		diner.JoinedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Shared portions shrink for everyone already seated
	if err := invalidateCheckout(ctx, tx, diner.TableID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO diners (id, table_id, name, is_connected, has_confirmed, joined_at) VALUES (?, ?, ?, ?, ?, ?)",
		diner.ID, diner.TableID, diner.Name, diner.IsConnected, diner.HasConfirmed, diner.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert diner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListDiners returns a table's diners in join order.
func (s *SQLiteStore) ListDiners(ctx context.Context, tableID string) ([]*models.Diner, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, table_id, name, is_connected, has_confirmed, joined_at FROM diners WHERE table_id = ? ORDER BY joined_at, rowid",
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diners: %w", err)
	}
	defer rows.Close()

	var diners []*models.Diner
	for rows.Next() {
		d := &models.Diner{}
		if err := rows.Scan(&d.ID, &d.TableID, &d.Name, &d.IsConnected, &d.HasConfirmed, &d.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan diner: %w", err)
		}
		diners = append(diners, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diners: %w", err)
	}
	return diners, nil
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// generateName creates a default table name from the opening time.
func generateName(createdAt int64) string {
	return fmt.Sprintf("Table - %s", time.Unix(createdAt, 0).Format("Jan 2, 3:04 PM"))
}
