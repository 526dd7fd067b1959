package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tablesplit/internal/models"
	"github.com/mmynk/tablesplit/internal/storage"
)

// Status changes are single conditional UPDATEs so that concurrent requests
// serialize on SQLite's write lock instead of racing a read-then-write.

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// tableConflict explains an UPDATE that matched no table row.
func tableConflict(ctx context.Context, q querier, tableID string) error {
	var status string
	err := q.QueryRowContext(ctx, "SELECT status FROM dining_tables WHERE id = ?", tableID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("table %s: %w", tableID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get table status: %w", err)
	}
	return fmt.Errorf("table %s is %s: %w", tableID, status, storage.ErrConflict)
}

// invalidateCheckout runs at the start of every order change. It takes the
// write lock, rejects closed tables, reopens a table in checkout and clears
// all confirmations.
func invalidateCheckout(ctx context.Context, tx *sql.Tx, tableID string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE dining_tables SET status = ? WHERE id = ? AND status != ?",
		string(models.TableOpen), tableID, string(models.TableClosed),
	)
	if err != nil {
		return fmt.Errorf("failed to reopen table: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if n == 0 {
		return tableConflict(ctx, tx, tableID)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE diners SET has_confirmed = 0 WHERE table_id = ?", tableID); err != nil {
		return fmt.Errorf("failed to reset confirmations: %w", err)
	}
	return nil
}

// SetTip changes a table's tip percentage.
func (s *SQLiteStore) SetTip(ctx context.Context, tableID string, tipPercentage float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := invalidateCheckout(ctx, tx, tableID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE dining_tables SET tip_percentage = ? WHERE id = ?", tipPercentage, tableID,
	); err != nil {
		return fmt.Errorf("failed to update tip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// StartCheckout moves an open table with at least one diner to checkout.
func (s *SQLiteStore) StartCheckout(ctx context.Context, tableID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dining_tables SET status = ?
		 WHERE id = ? AND status = ?
		   AND EXISTS (SELECT 1 FROM diners WHERE table_id = dining_tables.id)`,
		string(models.TableCheckout), tableID, string(models.TableOpen),
	)
	if err != nil {
		return fmt.Errorf("failed to start checkout: %w", err)
	}
	return s.expectTableRow(ctx, res, tableID)
}

// CloseTable moves a table in checkout to closed once every diner has confirmed.
func (s *SQLiteStore) CloseTable(ctx context.Context, tableID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dining_tables SET status = ?
		 WHERE id = ? AND status = ?
		   AND NOT EXISTS (SELECT 1 FROM diners WHERE table_id = dining_tables.id AND has_confirmed = 0)`,
		string(models.TableClosed), tableID, string(models.TableCheckout),
	)
	if err != nil {
		return fmt.Errorf("failed to close table: %w", err)
	}
	return s.expectTableRow(ctx, res, tableID)
}

func (s *SQLiteStore) expectTableRow(ctx context.Context, res sql.Result, tableID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return tableConflict(ctx, s.db, tableID)
	}
	return nil
}

// SetDinerConnected updates only the diner's connectivity flag.
func (s *SQLiteStore) SetDinerConnected(ctx context.Context, tableID, dinerID string, connected bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE diners SET is_connected = ? WHERE id = ? AND table_id = ?",
		connected, dinerID, tableID,
	)
	if err != nil {
		return fmt.Errorf("failed to update diner: %w", err)
	}
	return expectOneRow(res, "diner", dinerID)
}

// ConfirmDiner marks a diner as having accepted their total. The write only
// lands while the table is in checkout, so a confirmation can never survive
// an order change that reopened the table.
func (s *SQLiteStore) ConfirmDiner(ctx context.Context, tableID, dinerID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE diners SET has_confirmed = 1
		 WHERE id = ? AND table_id = ?
		   AND EXISTS (SELECT 1 FROM dining_tables WHERE id = diners.table_id AND status = ?)`,
		dinerID, tableID, string(models.TableCheckout),
	)
	if err != nil {
		return fmt.Errorf("failed to confirm diner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM diners WHERE id = ? AND table_id = ?", dinerID, tableID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("diner %s: %w", dinerID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get diner: %w", err)
	}
	return tableConflict(ctx, s.db, tableID)
}

// WithdrawConfirmation clears one diner's confirmation and moves a table in
// checkout back to open.
func (s *SQLiteStore) WithdrawConfirmation(ctx context.Context, tableID, dinerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE dining_tables SET status = ? WHERE id = ? AND status != ?",
		string(models.TableOpen), tableID, string(models.TableClosed),
	)
	if err != nil {
		return fmt.Errorf("failed to reopen table: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	} else if n == 0 {
		return tableConflict(ctx, tx, tableID)
	}

	res, err = tx.ExecContext(ctx,
		"UPDATE diners SET has_confirmed = 0 WHERE id = ? AND table_id = ?", dinerID, tableID,
	)
	if err != nil {
		return fmt.Errorf("failed to withdraw confirmation: %w", err)
	}
	if err := expectOneRow(res, "diner", dinerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
