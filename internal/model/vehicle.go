package model

import (
	"time"

	"github.com/google/uuid"
)

type VehicleCategory string

const (
	VehicleTruck        VehicleCategory = "truck"
	VehiclePickup       VehicleCategory = "pickup"
	VehicleVan          VehicleCategory = "van"
	VehicleRefrigerated VehicleCategory = "refrigerated"
	VehicleTank         VehicleCategory = "tank"

	// VehicleAll is only valid on checklist definitions, never on a vehicle.
	VehicleAll VehicleCategory = "all"
)

type Vehicle struct {
	ID         uuid.UUID       `json:"id"`
	Plate      string          `json:"plate"`
	Category   VehicleCategory `json:"category"`
	Make       string          `json:"make"`
	Model      string          `json:"model"`
	Year       int             `json:"year"`
	OdometerKm float64         `json:"odometer_km"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
}
