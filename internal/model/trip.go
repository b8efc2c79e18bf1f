package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
	TripDelayed    TripStatus = "delayed"
)

type CargoCategory string

const (
	CargoFeed            CargoCategory = "feed"
	CargoMussels         CargoCategory = "mussels"
	CargoFinishedProduct CargoCategory = "finished_product"
	CargoGeneral         CargoCategory = "general"
)

type Trip struct {
	ID             uuid.UUID     `json:"id"`
	DriverID       uuid.UUID     `json:"driver_id"`
	VehicleID      uuid.UUID     `json:"vehicle_id"`
	CargoCategory  CargoCategory `json:"cargo_category"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	ScheduledStart time.Time     `json:"scheduled_start"`
	ScheduledEnd   time.Time     `json:"scheduled_end"`
	ActualStart    *time.Time    `json:"actual_start,omitempty"`
	ActualEnd      *time.Time    `json:"actual_end,omitempty"`
	Status         TripStatus    `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TripEvent is an append-only occurrence reported during an active trip
// (arrival, stop, incident, temperature check, checkpoint).
type TripEvent struct {
	ID          uuid.UUID       `json:"id"`
	TripID      uuid.UUID       `json:"trip_id"`
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Timestamp   time.Time       `json:"timestamp"`
	ReporterID  uuid.UUID       `json:"reporter_id"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
