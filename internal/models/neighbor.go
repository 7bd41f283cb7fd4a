package models

// Neighbor represents a resident of the community.
type Neighbor struct {
	// ID is assigned by the store and never reused.
	ID int64

	FirstName string
	LastName  string

	// Address is the street address or unit of the resident.
	Address string
}

// FullName returns "First Last".
func (n *Neighbor) FullName() string {
	return n.FirstName + " " + n.LastName
}
