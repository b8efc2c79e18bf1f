package model

import (
	"time"

	"github.com/google/uuid"
)

type FuelLoad struct {
	ID            uuid.UUID  `json:"id"`
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	TripID        *uuid.UUID `json:"trip_id,omitempty"`
	Liters        float64    `json:"liters"`
	PricePerLiter float64    `json:"price_per_liter"`
	TotalCost     float64    `json:"total_cost"`
	OdometerKm    float64    `json:"odometer_km"`
	Station       string     `json:"station"`
	Timestamp     time.Time  `json:"timestamp"`
	RecordedBy    uuid.UUID  `json:"recorded_by"`
	CreatedAt     time.Time  `json:"created_at"`
}
