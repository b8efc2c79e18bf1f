package model

import (
	"time"

	"github.com/google/uuid"
)

// VehicleDocument is a registration, insurance, sanitary permit or similar
// paper tied to a vehicle, tracked for expiry.
type VehicleDocument struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	Kind      string    `json:"kind"`
	Number    string    `json:"number"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	FileRef   *string   `json:"file_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DaysUntilExpiry is negative once the document has expired.
func (d VehicleDocument) DaysUntilExpiry(now time.Time) int {
	return int(d.ExpiresAt.Sub(now).Hours() / 24)
}
