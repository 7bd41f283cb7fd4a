// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/parkfees/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist, or does
// not belong to the stated neighbor.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for neighbor, vehicle and payment persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every mutating method runs in its own transaction: either all of its row
// changes land or none do.
type Store interface {
	// CreateNeighbor persists a new neighbor.
	// The neighbor.ID field will be populated by the store.
	CreateNeighbor(ctx context.Context, neighbor *models.Neighbor) error

	// GetNeighbor retrieves a neighbor by ID.
	// Returns ErrNotFound if it does not exist.
	GetNeighbor(ctx context.Context, id int64) (*models.Neighbor, error)

	// ListNeighbors returns all neighbors ordered by last name.
	ListNeighbors(ctx context.Context) ([]*models.Neighbor, error)

	// SearchNeighbors returns neighbors whose first name, last name or
	// address contains query, case-insensitively, ordered by last name.
	SearchNeighbors(ctx context.Context, query string) ([]*models.Neighbor, error)

	// DeleteNeighbor removes a neighbor together with its vehicles and
	// payments. It returns the payments that were removed so the caller can
	// account for their evidence files.
	DeleteNeighbor(ctx context.Context, id int64) ([]*models.Payment, error)

	// CreateVehicle persists a new vehicle for vehicle.NeighborID.
	// Returns ErrNotFound if the neighbor does not exist.
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error

	// ListVehicles returns the vehicles of a neighbor in insertion order.
	ListVehicles(ctx context.Context, neighborID int64) ([]*models.Vehicle, error)

	// DeleteVehicle removes a vehicle owned by neighborID.
	// Returns ErrNotFound if no such vehicle belongs to that neighbor.
	DeleteVehicle(ctx context.Context, neighborID, vehicleID int64) error

	// CreatePayment persists a new payment for payment.NeighborID and
	// assigns ID and CreatedAt. Returns ErrNotFound if the neighbor does
	// not exist.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns the payments of a neighbor, newest first.
	ListPayments(ctx context.Context, neighborID int64) ([]*models.Payment, error)

	// DeletePayment removes a payment owned by neighborID and returns the
	// removed record. Returns ErrNotFound if no such payment belongs to
	// that neighbor.
	DeletePayment(ctx context.Context, neighborID, paymentID int64) (*models.Payment, error)

	// Close releases any resources held by the store.
	Close() error
}
