package model

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceRow is one checklist's line in a trip compliance report.
type ComplianceRow struct {
	ChecklistID          uuid.UUID      `json:"checklist_id"`
	Name                 string         `json:"name"`
	Phase                ChecklistPhase `json:"phase"`
	Version              int            `json:"version"`
	Mandatory            bool           `json:"mandatory"`
	TotalItems           int            `json:"total_items"`
	CompletedItems       int            `json:"completed_items"`
	CompliantItems       int            `json:"compliant_items"`
	PendingReview        int            `json:"pending_review"`
	CompletionPercentage int            `json:"completion_percentage"`
	CompliancePercentage int            `json:"compliance_percentage"`
}

// ComplianceReport is the exported compliance picture of one trip.
type ComplianceReport struct {
	TripID        uuid.UUID
	DriverName    string
	VehiclePlate  string
	CargoCategory CargoCategory
	Origin        string
	Destination   string
	ScheduledAt   time.Time
	GeneratedAt   time.Time
	Rows          []ComplianceRow
}
