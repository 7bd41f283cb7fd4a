package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/storage"
)

const neighborColumns = "id, first_name, last_name, address"

const neighborOrder = "ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE, id"

// CreateNeighbor persists a new neighbor to the database.
func (s *SQLiteStore) CreateNeighbor(ctx context.Context, neighbor *models.Neighbor) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO neighbors (first_name, last_name, address, search_key) VALUES (?, ?, ?, ?)",
		neighbor.FirstName, neighbor.LastName, neighbor.Address,
		searchKey(neighbor.FirstName, neighbor.LastName, neighbor.Address),
	)
	if err != nil {
		return fmt.Errorf("failed to insert neighbor: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read neighbor id: %w", err)
	}
	neighbor.ID = id

	return nil
}

// GetNeighbor retrieves a neighbor by ID.
func (s *SQLiteStore) GetNeighbor(ctx context.Context, id int64) (*models.Neighbor, error) {
	neighbor := &models.Neighbor{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+neighborColumns+" FROM neighbors WHERE id = ?",
		id,
	).Scan(&neighbor.ID, &neighbor.FirstName, &neighbor.LastName, &neighbor.Address)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("neighbor %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get neighbor: %w", err)
	}

	return neighbor, nil
}

// ListNeighbors retrieves all neighbors ordered by last name.
func (s *SQLiteStore) ListNeighbors(ctx context.Context) ([]*models.Neighbor, error) {
	return s.queryNeighbors(ctx, "SELECT "+neighborColumns+" FROM neighbors "+neighborOrder)
}

// SearchNeighbors matches query as a literal substring of first name, last
// name or address, ignoring case and accents.
func (s *SQLiteStore) SearchNeighbors(ctx context.Context, query string) ([]*models.Neighbor, error) {
	term := searchTerm(query)
	if term == "" {
		return []*models.Neighbor{}, nil
	}
	return s.queryNeighbors(ctx,
		"SELECT "+neighborColumns+" FROM neighbors WHERE instr(search_key, ?) > 0 "+neighborOrder,
		term,
	)
}

func (s *SQLiteStore) queryNeighbors(ctx context.Context, query string, args ...any) ([]*models.Neighbor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list neighbors: %w", err)
	}
	defer rows.Close()

	neighbors := []*models.Neighbor{}
	for rows.Next() {
		neighbor := &models.Neighbor{}
		if err := rows.Scan(&neighbor.ID, &neighbor.FirstName, &neighbor.LastName, &neighbor.Address); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		neighbors = append(neighbors, neighbor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate neighbors: %w", err)
	}

	return neighbors, nil
}

// DeleteNeighbor removes a neighbor and, in the same transaction, all of
// its vehicles and payments. The removed payments are returned.
func (s *SQLiteStore) DeleteNeighbor(ctx context.Context, id int64) ([]*models.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := neighborExists(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("neighbor %d: %w", id, storage.ErrNotFound)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE neighbor_id = ? "+paymentOrder,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for cascade: %w", err)
	}
	removed, err := scanPayments(rows)
	if err != nil {
		return nil, err
	}

	// The foreign keys cascade as well; deleting children explicitly keeps
	// the behavior independent of the foreign_keys pragma.
	for _, stmt := range []string{
		"DELETE FROM vehicles WHERE neighbor_id = ?",
		"DELETE FROM payments WHERE neighbor_id = ?",
		"DELETE FROM neighbors WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return nil, fmt.Errorf("failed to delete neighbor: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}
