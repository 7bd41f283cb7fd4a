package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/uploads"
	"github.com/mmynk/parkfees/internal/validation"
)

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	neighbors, err := h.records.ListNeighbors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageIndex, pageData{Title: "Vecinos", Neighbors: neighbors})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, nil, nil)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	in := validation.NeighborInput{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Address:   r.PostFormValue("address"),
	}
	if _, err := h.records.CreateNeighbor(r.Context(), in); err != nil {
		if notice, ok := userNotice(err); ok {
			h.renderUsers(w, r, notice, formValues(r, "first_name", "last_name", "address"))
			return
		}
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, "/admin/users", msgNeighborCreated)
}

func (h *Handler) renderUsers(w http.ResponseWriter, r *http.Request, notice *Notice, form map[string]string) {
	neighbors, err := h.records.ListNeighbors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageUsers, pageData{
		Title:     "Administración de vecinos",
		Notice:    notice,
		Neighbors: neighbors,
		Form:      form,
		Admin:     true,
	})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.records.DeleteNeighbor(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, "/admin/users", msgNeighborDeleted)
}

func (h *Handler) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	neighbor, ok := h.loadNeighbor(w, r)
	if !ok {
		return
	}
	h.renderVehicles(w, r, neighbor, nil, nil)
}

func (h *Handler) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	neighbor, ok := h.loadNeighbor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	in := validation.VehicleInput{
		LicensePlate:  r.PostFormValue("license_plate"),
		Make:          r.PostFormValue("make"),
		Model:         r.PostFormValue("model"),
		ControlNumber: r.PostFormValue("control_number"),
	}
	if _, err := h.records.CreateVehicle(r.Context(), neighbor.ID, in); err != nil {
		if notice, ok := userNotice(err); ok {
			h.renderVehicles(w, r, neighbor, notice, formValues(r, "license_plate", "make", "model", "control_number"))
			return
		}
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, vehiclesURL(neighbor.ID), msgVehicleCreated)
}

func (h *Handler) renderVehicles(w http.ResponseWriter, r *http.Request, neighbor *models.Neighbor, notice *Notice, form map[string]string) {
	vehicles, err := h.records.ListVehicles(r.Context(), neighbor.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageVehicles, pageData{
		Title:    "Vehículos",
		Notice:   notice,
		Neighbor: neighbor,
		Vehicles: vehicles,
		Form:     form,
		Admin:    true,
	})
}

func (h *Handler) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	neighborID, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	vehicleID, ok := pathID(r, "vid")
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.records.DeleteVehicle(r.Context(), neighborID, vehicleID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, vehiclesURL(neighborID), msgVehicleDeleted)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	neighbor, ok := h.loadNeighbor(w, r)
	if !ok {
		return
	}
	h.renderPayments(w, r, neighbor, nil, nil)
}

func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	neighbor, ok := h.loadNeighbor(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		http.Error(w, msgUploadTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, msgUploadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		h.badRequest(w, r, err)
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, closeFile, err := formUpload(r, "screenshot")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	defer closeFile()

	in := validation.PaymentInput{
		Method:         r.PostFormValue("method"),
		Amount:         r.PostFormValue("amount"),
		DepositAccount: r.PostFormValue("deposit_account"),
	}
	if _, err := h.records.CreatePayment(r.Context(), neighbor.ID, in, file); err != nil {
		if notice, ok := userNotice(err); ok {
			h.renderPayments(w, r, neighbor, notice, formValues(r, "method", "amount", "deposit_account"))
			return
		}
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, paymentsURL(neighbor.ID), msgPaymentCreated)
}

func (h *Handler) renderPayments(w http.ResponseWriter, r *http.Request, neighbor *models.Neighbor, notice *Notice, form map[string]string) {
	payments, err := h.records.ListPayments(r.Context(), neighbor.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pagePayments, pageData{
		Title:    "Pagos",
		Notice:   notice,
		Neighbor: neighbor,
		Payments: payments,
		Form:     form,
		Admin:    true,
	})
}

func (h *Handler) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	neighborID, ok := pathID(r, "id")
	if !ok {
		h.notFound(w, r)
		return
	}
	paymentID, ok := pathID(r, "pid")
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.records.DeletePayment(r.Context(), neighborID, paymentID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.redirect(w, r, paymentsURL(neighborID), msgPaymentDeleted)
}

// formUpload returns the named file part, or nil when none was sent. The
// returned func closes the part and is always safe to call.
func formUpload(r *http.Request, field string) (*uploads.Upload, func(), error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to read %s: %w", field, err)
	}
	upload := &uploads.Upload{Filename: header.Filename, Content: f, Size: header.Size}
	return upload, func() { f.Close() }, nil
}

func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = r.PostFormValue(field)
	}
	return values
}

func vehiclesURL(neighborID int64) string {
	return fmt.Sprintf("/admin/users/%d/vehicles", neighborID)
}

func paymentsURL(neighborID int64) string {
	return fmt.Sprintf("/admin/users/%d/payments", neighborID)
}
