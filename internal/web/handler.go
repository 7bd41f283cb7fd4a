// Package web serves the admin and public portal pages.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/parkfees/internal/middleware"
	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/service"
	"github.com/mmynk/parkfees/internal/uploads"
	"github.com/mmynk/parkfees/internal/validation"
)

// Records defines the record operations the handlers need.
type Records interface {
	CreateNeighbor(ctx context.Context, in validation.NeighborInput) (*models.Neighbor, error)
	GetNeighbor(ctx context.Context, id int64) (*models.Neighbor, error)
	ListNeighbors(ctx context.Context) ([]*models.Neighbor, error)
	SearchNeighbors(ctx context.Context, query string) ([]*models.Neighbor, error)
	DeleteNeighbor(ctx context.Context, id int64) error

	CreateVehicle(ctx context.Context, neighborID int64, in validation.VehicleInput) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, neighborID int64) ([]*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, neighborID, vehicleID int64) error

	CreatePayment(ctx context.Context, neighborID int64, in validation.PaymentInput, file *uploads.Upload) (*models.Payment, error)
	ListPayments(ctx context.Context, neighborID int64) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, neighborID, paymentID int64) error
}

var _ Records = (*service.Records)(nil)

// Handler serves every page of the application.
type Handler struct {
	records        Records
	files          *uploads.Store
	flash          *Flasher
	templates      map[string]*template.Template
	logger         *slog.Logger
	maxUploadBytes int64
}

// New creates a Handler. maxUploadBytes caps multipart submissions.
func New(records Records, files *uploads.Store, flash *Flasher, logger *slog.Logger, maxUploadBytes int64) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		records:        records,
		files:          files,
		flash:          flash,
		templates:      templates,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}, nil
}

// Register registers the page routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHome)

	r.Route("/admin/users", func(r chi.Router) {
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Post("/{id}/delete", h.handleDeleteUser)

		r.Get("/{id}/vehicles", h.handleListVehicles)
		r.Post("/{id}/vehicles", h.handleCreateVehicle)
		r.Post("/{id}/vehicles/{vid}/delete", h.handleDeleteVehicle)

		r.Get("/{id}/payments", h.handleListPayments)
		r.Post("/{id}/payments", h.handleCreatePayment)
		r.Post("/{id}/payments/{pid}/delete", h.handleDeletePayment)
	})

	r.Get("/portal", h.handlePortalSearch)
	r.Post("/portal", h.handlePortalSearch)
	r.Get("/portal/{id}", h.handlePortalDetail)

	r.Get("/uploads/{filename}", h.handleUpload)
}

// redirect sets a success notice and sends the browser to a listing view.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to, message string) {
	if err := h.flash.Set(w, Notice{Kind: NoticeSuccess, Message: message}); err != nil {
		h.logger.Warn("Failed to set flash notice", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// fail maps a service error to a response: unknown records are 404,
// everything else is a 500 whose details stay in the log.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, msgNotFound, http.StatusNotFound)
}

// badRequest rejects a body that could not be parsed. The parser's
// message stays in the log.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("Malformed form submission",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	http.Error(w, msgBadRequest, http.StatusBadRequest)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	http.Error(w, msgInternalError, http.StatusInternalServerError)
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// loadNeighbor resolves {id} or writes the error response.
func (h *Handler) loadNeighbor(w http.ResponseWriter, r *http.Request) (*models.Neighbor, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return nil, false
	}

	neighbor, err := h.records.GetNeighbor(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return neighbor, true
}

// userNotice turns a recoverable input error into a notice. ok is false
// for errors that are not the user's to fix.
func userNotice(err error) (*Notice, bool) {
	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		return &Notice{Kind: NoticeError, Message: ve.Message}, true
	case errors.Is(err, service.ErrUnsupportedFileType):
		return &Notice{Kind: NoticeError, Message: uploads.MsgUnsupportedFileType}, true
	default:
		return nil, false
	}
}
