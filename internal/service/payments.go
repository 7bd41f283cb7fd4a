package service

import (
	"context"
	"errors"

	"github.com/mmynk/parkfees/internal/metrics"
	"github.com/mmynk/parkfees/internal/models"
	"github.com/mmynk/parkfees/internal/uploads"
	"github.com/mmynk/parkfees/internal/validation"
)

// CreatePayment records a payment for an existing neighbor, saving the
// optional evidence file first. A rejected file aborts the whole operation
// and no payment is created.
func (s *Records) CreatePayment(ctx context.Context, neighborID int64, in validation.PaymentInput, file *uploads.Upload) (*models.Payment, error) {
	// Check the owner before touching disk.
	if _, err := s.store.GetNeighbor(ctx, neighborID); err != nil {
		return nil, err
	}

	valid, err := validation.Payment(in)
	if err != nil {
		return nil, err
	}

	screenshot, err := s.files.Save(file)
	if err != nil {
		if errors.Is(err, uploads.ErrUnsupportedFileType) {
			s.metrics.IncrementUploadRejected()
			s.logger.Warn("Evidence upload rejected", "neighbor_id", neighborID, "filename", file.Filename)
		} else {
			s.logger.Error("Evidence upload failed", "neighbor_id", neighborID, "error", err)
		}
		return nil, err
	}

	payment := &models.Payment{
		NeighborID:     neighborID,
		Method:         valid.Method,
		Amount:         valid.Amount,
		DepositAccount: valid.DepositAccount,
		ScreenshotPath: screenshot,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		if screenshot != "" {
			if rmErr := s.files.Remove(screenshot); rmErr != nil {
				s.logger.Warn("Failed to remove evidence after insert error", "file", screenshot, "error", rmErr)
			}
		}
		return nil, err
	}

	s.metrics.IncrementCreated(metrics.EntityPayment)
	s.logger.Info("Payment created",
		"neighbor_id", neighborID,
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"screenshot", screenshot,
		"upload_size", uploadSize(file),
	)
	return payment, nil
}

// ListPayments returns the payments of a neighbor, newest first.
func (s *Records) ListPayments(ctx context.Context, neighborID int64) ([]*models.Payment, error) {
	return s.store.ListPayments(ctx, neighborID)
}

// DeletePayment removes a payment if it belongs to neighborID, then removes
// its evidence file. Failure to remove the file is logged, not returned.
func (s *Records) DeletePayment(ctx context.Context, neighborID, paymentID int64) error {
	payment, err := s.store.DeletePayment(ctx, neighborID, paymentID)
	if err != nil {
		return err
	}

	if payment.HasScreenshot() {
		if err := s.files.Remove(payment.ScreenshotPath); err != nil {
			s.logger.Debug("Evidence file not removed", "file", payment.ScreenshotPath, "error", err)
		}
	}

	s.metrics.AddDeleted(metrics.EntityPayment, 1)
	s.logger.Info("Payment deleted", "neighbor_id", neighborID, "payment_id", paymentID)
	return nil
}

func uploadSize(file *uploads.Upload) int64 {
	if file.Empty() {
		return 0
	}
	return file.Size
}
