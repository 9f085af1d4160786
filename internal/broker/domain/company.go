package domain

import "time"

// Company is a data-consuming organisation registered with the broker.
// PermissionLedger references companies by ID; Suspended blocks the
// company-side query interface without touching the user's grants.
type Company struct {
	ID         string
	Name       string
	ExternalID string // the identifier the company uses on its side
	Segment    string
	Suspended  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
