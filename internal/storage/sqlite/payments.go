package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/storage"
)

const paymentColumns = "id, neighbor_id, method, amount, deposit_account, screenshot_path, created_at"

// created_at has microsecond resolution, so equal timestamps are possible.
// id breaks the tie so later inserts still list first.
const paymentOrder = "ORDER BY created_at DESC, id DESC"

// CreatePayment persists a new payment to the database.
// created_at is stored as Unix microseconds and is never earlier than the
// newest payment already recorded for the same neighbor.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := neighborExists(ctx, tx, payment.NeighborID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("neighbor %d: %w", payment.NeighborID, storage.ErrNotFound)
	}

	var latest int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(created_at), 0) FROM payments WHERE neighbor_id = ?",
		payment.NeighborID,
	).Scan(&latest)
	if err != nil {
		return fmt.Errorf("failed to read latest payment time: %w", err)
	}

	createdAt := s.now().UnixMicro()
	if createdAt < latest {
		createdAt = latest
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (neighbor_id, method, amount, deposit_account, screenshot_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.NeighborID, payment.Method, payment.Amount,
		nullString(payment.DepositAccount), nullString(payment.ScreenshotPath), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read payment id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	payment.ID = id
	payment.CreatedAt = time.UnixMicro(createdAt).UTC()
	return nil
}

// ListPayments retrieves all payments for a neighbor, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, neighborID int64) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE neighbor_id = ? "+paymentOrder,
		neighborID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return scanPayments(rows)
}

// DeletePayment removes a payment only if it belongs to neighborID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, neighborID, paymentID int64) (*models.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	payment, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ? AND neighbor_id = ?",
		paymentID, neighborID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %d of neighbor %d: %w", paymentID, neighborID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", paymentID); err != nil {
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return payment, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var depositAccount, screenshotPath sql.NullString
	var createdAt int64

	if err := row.Scan(&payment.ID, &payment.NeighborID, &payment.Method, &payment.Amount,
		&depositAccount, &screenshotPath, &createdAt); err != nil {
		return nil, err
	}

	payment.DepositAccount = depositAccount.String
	payment.ScreenshotPath = screenshotPath.String
	payment.CreatedAt = time.UnixMicro(createdAt).UTC()
	return payment, nil
}

// scanPayments drains and closes rows.
func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
