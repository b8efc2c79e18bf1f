package model

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceRecord struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	MechanicID  uuid.UUID `json:"mechanic_id"`
	ServiceType string    `json:"service_type"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
	OdometerKm  float64   `json:"odometer_km"`
	PerformedAt time.Time `json:"performed_at"`
	CreatedAt   time.Time `json:"created_at"`
}
