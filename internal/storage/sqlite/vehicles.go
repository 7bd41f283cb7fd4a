package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/storage"
)

// CreateVehicle persists a new vehicle for an existing neighbor.
func (s *SQLiteStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := neighborExists(ctx, tx, vehicle.NeighborID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("neighbor %d: %w", vehicle.NeighborID, storage.ErrNotFound)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO vehicles (license_plate, make, model, control_number, neighbor_id)
		 VALUES (?, ?, ?, ?, ?)`,
		vehicle.LicensePlate, vehicle.Make, vehicle.Model, vehicle.ControlNumber, vehicle.NeighborID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read vehicle id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	vehicle.ID = id
	return nil
}

// ListVehicles retrieves the vehicles of a neighbor in insertion order.
func (s *SQLiteStore) ListVehicles(ctx context.Context, neighborID int64) ([]*models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, license_plate, make, model, control_number, neighbor_id
		 FROM vehicles WHERE neighbor_id = ? ORDER BY id`,
		neighborID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []*models.Vehicle{}
	for rows.Next() {
		v := &models.Vehicle{}
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Make, &v.Model, &v.ControlNumber, &v.NeighborID); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}

	return vehicles, nil
}

// DeleteVehicle removes a vehicle only if it belongs to neighborID.
func (s *SQLiteStore) DeleteVehicle(ctx context.Context, neighborID, vehicleID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM vehicles WHERE id = ? AND neighbor_id = ?",
		vehicleID, neighborID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted vehicle: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %d of neighbor %d: %w", vehicleID, neighborID, storage.ErrNotFound)
	}

	return nil
}
