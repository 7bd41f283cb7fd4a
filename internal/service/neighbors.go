package service

import (
	"context"
	"strings"

	"github.com/mmynk/parkfees/internal/metrics"
	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/validation"
)

// CreateNeighbor validates and persists a new neighbor.
func (s *Records) CreateNeighbor(ctx context.Context, in validation.NeighborInput) (*models.Neighbor, error) {
	in, err := validation.Neighbor(in)
	if err != nil {
		return nil, err
	}

	neighbor := &models.Neighbor{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Address:   in.Address,
	}
	if err := s.store.CreateNeighbor(ctx, neighbor); err != nil {
		s.logger.Error("CreateNeighbor failed", "error", err)
		return nil, err
	}

	s.metrics.IncrementCreated(metrics.EntityNeighbor)
	s.logger.Info("Neighbor created", "neighbor_id", neighbor.ID)
	return neighbor, nil
}

// GetNeighbor retrieves a neighbor by ID.
func (s *Records) GetNeighbor(ctx context.Context, id int64) (*models.Neighbor, error) {
	return s.store.GetNeighbor(ctx, id)
}

// ListNeighbors returns all neighbors sorted by last name.
func (s *Records) ListNeighbors(ctx context.Context) ([]*models.Neighbor, error) {
	return s.store.ListNeighbors(ctx)
}

// SearchNeighbors matches query against first name, last name and address,
// case-insensitively. A blank query matches nothing.
func (s *Records) SearchNeighbors(ctx context.Context, query string) ([]*models.Neighbor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Neighbor{}, nil
	}

	neighbors, err := s.store.SearchNeighbors(ctx, query)
	if err != nil {
		s.logger.Error("SearchNeighbors failed", "error", err)
		return nil, err
	}

	s.logger.Debug("SearchNeighbors successful", "query", query, "count", len(neighbors))
	return neighbors, nil
}

// DeleteNeighbor removes a neighbor with all of its vehicles and payments.
//
// Evidence files of the cascaded payments are left on disk; their names are
// logged so they can be cleaned up by hand.
func (s *Records) DeleteNeighbor(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteNeighbor(ctx, id)
	if err != nil {
		return err
	}

	s.metrics.AddDeleted(metrics.EntityNeighbor, 1)

	var orphaned []string
	for _, p := range removed {
		if p.HasScreenshot() {
			orphaned = append(orphaned, p.ScreenshotPath)
		}
	}
	if len(orphaned) > 0 {
		s.logger.Warn("Neighbor deleted with evidence files left on disk",
			"neighbor_id", id,
			"files", orphaned,
		)
	}

	s.logger.Info("Neighbor deleted", "neighbor_id", id, "payments_removed", len(removed))
	return nil
}
