package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/storage"
)

const orderLineColumns = `id, table_id, item_id, item_name, item_price, item_category, item_description,
	quantity, is_shared, created_at`

// AddOrderLine persists a new order line and its assignments.
func (s *SQLiteStore) AddOrderLine(ctx context.Context, line *models.OrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if line.CreatedAt == 0 {
		line.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := invalidateCheckout(ctx, tx, line.TableID); err != nil {
		return err
	}

	item := line.MenuItem
	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_lines (`+orderLineColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID, line.TableID, item.ID, item.Name, item.Price, item.Category, item.Description,
		line.Quantity, line.IsShared, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order line: %w", err)
	}

	if err := insertAssignments(ctx, tx, line); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrderLine retrieves one order line of a table with its assignments.
func (s *SQLiteStore) GetOrderLine(ctx context.Context, tableID, lineID string) (*models.OrderLine, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderLineColumns+` FROM order_lines WHERE id = ? AND table_id = ?`,
		lineID, tableID,
	)
	line, err := scanOrderLine(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order line %s: %w", lineID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order line: %w", err)
	}

	assigned, err := s.assignments(ctx, "line_id = ?", lineID)
	if err != nil {
		return nil, err
	}
	line.AssignedTo = assigned[line.ID]
	return line, nil
}

// ListOrderLines returns a table's order lines in the order they were added.
func (s *SQLiteStore) ListOrderLines(ctx context.Context, tableID string) ([]*models.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderLineColumns+` FROM order_lines WHERE table_id = ? ORDER BY created_at, rowid`,
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}

	// One query for every line's assignments
	assigned, err := s.assignments(ctx,
		"line_id IN (SELECT id FROM order_lines WHERE table_id = ?)", tableID)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		line.AssignedTo = assigned[line.ID]
	}
	return lines, nil
}

// UpdateOrderLine saves quantity, sharing and assignments.
func (s *SQLiteStore) UpdateOrderLine(ctx context.Context, line *models.OrderLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := invalidateCheckout(ctx, tx, line.TableID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE order_lines SET quantity = ?, is_shared = ? WHERE id = ? AND table_id = ?",
		line.Quantity, line.IsShared, line.ID, line.TableID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order line: %w", err)
	}
	if err := expectOneRow(res, "order line", line.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_assignments WHERE line_id = ?", line.ID); err != nil {
		return fmt.Errorf("failed to clear order assignments: %w", err)
	}
	if err := insertAssignments(ctx, tx, line); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteOrderLine removes an order line; assignments cascade.
func (s *SQLiteStore) DeleteOrderLine(ctx context.Context, tableID, lineID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := invalidateCheckout(ctx, tx, tableID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM order_lines WHERE id = ? AND table_id = ?", lineID, tableID)
	if err != nil {
		return fmt.Errorf("failed to delete order line: %w", err)
	}
	if err := expectOneRow(res, "order line", lineID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertAssignments(ctx context.Context, tx *sql.Tx, line *models.OrderLine) error {
	seen := make(map[string]bool, len(line.AssignedTo))
	position := 0
	for _, dinerID := range line.AssignedTo {
		if seen[dinerID] {
			continue
		}
		seen[dinerID] = true
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_assignments (line_id, diner_id, position) VALUES (?, ?, ?)",
			line.ID, dinerID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order assignment: %w", err)
		}
		position++
	}
	return nil
}

// assignments loads diner IDs keyed by line ID for the lines matching where.
func (s *SQLiteStore) assignments(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT line_id, diner_id FROM order_assignments WHERE "+where+" ORDER BY line_id, position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order assignments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var lineID, dinerID string
		if err := rows.Scan(&lineID, &dinerID); err != nil {
			return nil, fmt.Errorf("failed to scan order assignment: %w", err)
		}
		out[lineID] = append(out[lineID], dinerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order assignments: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrderLine(row scanner) (*models.OrderLine, error) {
	line := &models.OrderLine{}
	item := &line.MenuItem
	err := row.Scan(&line.ID, &line.TableID, &item.ID, &item.Name, &item.Price, &item.Category, &item.Description,
		&line.Quantity, &line.IsShared, &line.CreatedAt)
	if err != nil {
		return nil, err
	}
	return line, nil
}
