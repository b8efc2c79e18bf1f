package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ChecklistPhase string

const (
	PhasePreTrip     ChecklistPhase = "pre_trip"
	PhaseDuringTrip  ChecklistPhase = "during_trip"
	PhasePostTrip    ChecklistPhase = "post_trip"
	PhaseMaintenance ChecklistPhase = "maintenance"
	PhaseSafety      ChecklistPhase = "safety"
)

type AnswerKind string

const (
	AnswerYesNo       AnswerKind = "yes_no"
	AnswerText        AnswerKind = "text"
	AnswerNumber      AnswerKind = "number"
	AnswerSelect      AnswerKind = "select"
	AnswerMultiselect AnswerKind = "multiselect"
	AnswerPhoto       AnswerKind = "photo"
	AnswerSignature   AnswerKind = "signature"
)

type ReviewStatus string

const (
	ReviewPending            ReviewStatus = "pending"
	ReviewApproved           ReviewStatus = "approved"
	ReviewRejected           ReviewStatus = "rejected"
	ReviewNeedsClarification ReviewStatus = "needs_clarification"
)

// ChecklistDefinition is a reusable, versioned inspection template.
// Once responses reference a version it is immutable; edits go through
// duplication into a new version.
type ChecklistDefinition struct {
	ID              uuid.UUID                 `json:"id"`
	Name            string                    `json:"name"`
	Phase           ChecklistPhase            `json:"phase"`
	CargoCategory   CargoCategory             `json:"cargo_category"`
	VehicleCategory VehicleCategory           `json:"vehicle_category"`
	Mandatory       bool                      `json:"mandatory"`
	Active          bool                      `json:"active"`
	Version         int                       `json:"version"`
	Items           []ChecklistItemDefinition `json:"items"`
	CreatedBy       uuid.UUID                 `json:"created_by"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// ValidationRules carries the kind-specific constraints of an item.
// Only the fields matching the item's answer kind are consulted.
type ValidationRules struct {
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	MinLength      *int     `json:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	PatternMessage string   `json:"patternMessage,omitempty"`
}

// ConditionalRule compares a prior answer against a constant.
type ConditionalRule struct {
	ItemID   uuid.UUID `json:"itemId"`
	Operator string    `json:"operator"`
	Value    string    `json:"value"`
}

// ConditionalLogic is a flat one-level AND/OR combinator over prior
// answers. Nested trees are deliberately unsupported.
type ConditionalLogic struct {
	Condition string            `json:"condition"`
	Rules     []ConditionalRule `json:"rules"`
}

type ChecklistItemDefinition struct {
	ID          uuid.UUID  `json:"id"`
	ChecklistID uuid.UUID  `json:"checklist_id"`
	Question    string     `json:"question"`
	Kind        AnswerKind `json:"kind"`
	Required    bool       `json:"required"`
	// Critical items block trip progress by policy when they fail; the
	// validator itself does not enforce this.
	Critical    bool              `json:"critical"`
	OrderIndex  int               `json:"order_index"`
	Options     pq.StringArray    `json:"options" gorm:"type:text[]"`
	Rules       *ValidationRules  `json:"validation_rules,omitempty"`
	Conditional *ConditionalLogic `json:"conditional_logic,omitempty"`
}

// ChecklistResponse is one answer to one item within one trip. The value
// columns are mutually exclusive in practice and keyed by the item's
// declared answer kind; the checklist package converts them into a tagged
// ResponseValue before any core computation touches them.
type ChecklistResponse struct {
	ID           uuid.UUID      `json:"id"`
	TripID       uuid.UUID      `json:"trip_id"`
	ItemID       uuid.UUID      `json:"item_id"`
	ValueBool    *bool          `json:"value_bool,omitempty"`
	ValueNumber  *float64       `json:"value_number,omitempty"`
	ValueText    *string        `json:"value_text,omitempty"`
	ValueJSON    []byte         `json:"value_json,omitempty"`
	PhotoRefs    pq.StringArray `json:"photo_refs" gorm:"type:text[]"`
	Compliant    *bool          `json:"compliant,omitempty"`
	ReviewStatus ReviewStatus   `json:"review_status"`
	ReviewedBy   *uuid.UUID     `json:"reviewed_by,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Latitude     *float64       `json:"latitude,omitempty"`
	Longitude    *float64       `json:"longitude,omitempty"`
	CreatedBy    uuid.UUID      `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    *time.Time     `json:"-"`
}
