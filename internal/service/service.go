// Package service implements the record operations behind the admin and
// portal handlers: create, list and delete neighbors, vehicles and payments.
package service

import (
	"log/slog"

	"github.com/mmynk/parkfees/internal/metrics"
	"github.com/mmynk/parkfees/internal/storage"
	"github.com/mmynk/parkfees/internal/uploads"
)

// Errors callers are expected to branch on. Validation failures are
// reported as *validation.ValidationError.
var (
	ErrNotFound            = storage.ErrNotFound
	ErrUnsupportedFileType = uploads.ErrUnsupportedFileType
)

// Records composes validation, file intake and storage.
type Records struct {
	store   storage.Store
	files   *uploads.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Records service. m may be nil.
func New(store storage.Store, files *uploads.Store, m *metrics.Metrics, logger *slog.Logger) *Records {
	if logger == nil {
		logger = slog.Default()
	}
	return &Records{
		store:   store,
		files:   files,
		metrics: m,
		logger:  logger,
	}
}
