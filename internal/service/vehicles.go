package service

import (
	"context"

	"github.com/mmynk/parkfees/internal/metrics"
	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/validation"
)

// CreateVehicle validates and registers a vehicle to an existing neighbor.
func (s *Records) CreateVehicle(ctx context.Context, neighborID int64, in validation.VehicleInput) (*models.Vehicle, error) {
	in, err := validation.Vehicle(in)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		NeighborID:    neighborID,
		LicensePlate:  in.LicensePlate,
		Make:          in.Make,
		Model:         in.Model,
		ControlNumber: in.ControlNumber,
	}
	if err := s.store.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated(metrics.EntityVehicle)
	s.logger.Info("Vehicle created", "neighbor_id", neighborID, "vehicle_id", vehicle.ID)
	return vehicle, nil
}

// ListVehicles returns the vehicles of a neighbor. An unknown neighbor has
// no vehicles.
func (s *Records) ListVehicles(ctx context.Context, neighborID int64) ([]*models.Vehicle, error) {
	return s.store.ListVehicles(ctx, neighborID)
}

// DeleteVehicle removes a vehicle if it belongs to neighborID.
func (s *Records) DeleteVehicle(ctx context.Context, neighborID, vehicleID int64) error {
	if err := s.store.DeleteVehicle(ctx, neighborID, vehicleID); err != nil {
		return err
	}

	s.metrics.AddDeleted(metrics.EntityVehicle, 1)
	s.logger.Info("Vehicle deleted", "neighbor_id", neighborID, "vehicle_id", vehicleID)
	return nil
}
