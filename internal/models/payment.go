package models

import "time"

// Payment represents a parking-fee payment recorded for a neighbor.
type Payment struct {
	// ID is assigned by the store and never reused.
	ID int64

	// NeighborID is the neighbor this payment belongs to.
	NeighborID int64

	// Method is how the fee was paid (e.g., "efectivo", "transferencia").
	Method string

	// Amount is the paid amount. No bounds are enforced; negative values
	// are stored as given.
	Amount float64

	// DepositAccount is the optional account the payment was deposited to.
	// Empty means not provided.
	DepositAccount string

	// ScreenshotPath is the generated name of the uploaded evidence file in
	// the upload store. Empty when no file was attached.
	ScreenshotPath string

	// CreatedAt is the UTC time the payment was recorded. For a given
	// neighbor it never decreases in insertion order.
	CreatedAt time.Time
}

// HasScreenshot reports whether evidence was attached.
func (p *Payment) HasScreenshot() bool {
	return p.ScreenshotPath != ""
}
