package models

// Vehicle represents an automobile registered to a neighbor.
type Vehicle struct {
	// ID is assigned by the store and never reused.
	ID int64

	// NeighborID is the owning neighbor. Set at creation, never changed.
	NeighborID int64

	LicensePlate string
	Make         string
	Model        string

	// ControlNumber is the community-issued parking control number.
	ControlNumber string
}
