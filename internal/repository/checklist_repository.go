package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// ErrDuplicateResponse signals that the (trip, item) uniqueness invariant
// enforced by the partial unique index was violated.
var ErrDuplicateResponse = errors.New("response already exists for trip and item")

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

type definitionRow struct {
	ID              uuid.UUID
	Name            string
	Phase           model.ChecklistPhase
	CargoCategory   model.CargoCategory
	VehicleCategory model.VehicleCategory
	Mandatory       bool
	Active          bool
	Version         int
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
}

type itemRow struct {
	ID               uuid.UUID
	ChecklistID      uuid.UUID
	Question         string
	Kind             model.AnswerKind
	Required         bool
	Critical         bool
	OrderIndex       int
	Options          pq.StringArray `gorm:"type:text[]"`
	ValidationRules  []byte
	ConditionalLogic []byte
}

// ListActiveDefinitions returns the active checklist catalog with nested
// items ordered by order_index.
func (r *ChecklistRepository) ListActiveDefinitions(ctx context.Context) ([]model.ChecklistDefinition, error) {
	var defs []definitionRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, phase, cargo_category, vehicle_category, mandatory, active, version, created_by, created_at
		FROM checklist_definitions
		WHERE active = TRUE
		ORDER BY name ASC, version ASC
	`).Scan(&defs).Error; err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return []model.ChecklistDefinition{}, nil
	}

	ids := make([]uuid.UUID, 0, len(defs))
	for _, def := range defs {
		ids = append(ids, def.ID)
	}

	var items []itemRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, checklist_id, question, kind, required, critical, order_index, options, validation_rules, conditional_logic
		FROM checklist_items
		WHERE checklist_id = ANY(?)
		ORDER BY checklist_id, order_index ASC
	`, pq.Array(ids)).Scan(&items).Error; err != nil {
		return nil, err
	}

	itemsByChecklist := make(map[uuid.UUID][]model.ChecklistItemDefinition, len(defs))
	for _, row := range items {
		item, err := itemFromRow(row)
		if err != nil {
			return nil, err
		}
		itemsByChecklist[row.ChecklistID] = append(itemsByChecklist[row.ChecklistID], item)
	}

	result := make([]model.ChecklistDefinition, 0, len(defs))
	for _, def := range defs {
		result = append(result, model.ChecklistDefinition{
			ID:              def.ID,
			Name:            def.Name,
			Phase:           def.Phase,
			CargoCategory:   def.CargoCategory,
			VehicleCategory: def.VehicleCategory,
			Mandatory:       def.Mandatory,
			Active:          def.Active,
			Version:         def.Version,
			Items:           itemsByChecklist[def.ID],
			CreatedBy:       def.CreatedBy,
			CreatedAt:       def.CreatedAt,
		})
	}
	return result, nil
}

// CreateDefinition persists a new definition with its items in one
// transaction. Version defaults to 1 when unset.
func (r *ChecklistRepository) CreateDefinition(ctx context.Context, def model.ChecklistDefinition) (*model.ChecklistDefinition, error) {
	if def.Version == 0 {
		def.Version = 1
	}
	saved := def
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row definitionRow
		err := tx.Raw(`
			INSERT INTO checklist_definitions (name, phase, cargo_category, vehicle_category, mandatory, active, version, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id, name, phase, cargo_category, vehicle_category, mandatory, active, version, created_by, created_at
		`, def.Name, def.Phase, def.CargoCategory, def.VehicleCategory, def.Mandatory, def.Active, def.Version, def.CreatedBy).
			Scan(&row).Error
		if err != nil {
			return err
		}
		saved.ID = row.ID
		saved.CreatedAt = row.CreatedAt

		for i := range saved.Items {
			item := &saved.Items[i]
			item.ChecklistID = saved.ID
			rules, logic, err := marshalItemJSON(*item)
			if err != nil {
				return err
			}
			var itemID uuid.UUID
			err = tx.Raw(`
				INSERT INTO checklist_items (checklist_id, question, kind, required, critical, order_index, options, validation_rules, conditional_logic)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id
			`, item.ChecklistID, item.Question, item.Kind, item.Required, item.Critical, item.OrderIndex,
				pq.Array([]string(item.Options)), rules, logic).Scan(&itemID).Error
			if err != nil {
				return err
			}
			item.ID = itemID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// DuplicateAsNewVersion copies an existing definition into version max+1
// for its name. Definitions with recorded responses are immutable, so
// every edit goes through this path.
func (r *ChecklistRepository) DuplicateAsNewVersion(ctx context.Context, id, createdBy uuid.UUID) (*model.ChecklistDefinition, error) {
	defs, err := r.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	var source *model.ChecklistDefinition
	for i := range defs {
		if defs[i].ID == id {
			source = &defs[i]
			break
		}
	}
	if source == nil {
		return nil, gorm.ErrRecordNotFound
	}

	var maxVersion int
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(version), 0) FROM checklist_definitions WHERE name = ?
	`, source.Name).Scan(&maxVersion).Error; err != nil {
		return nil, err
	}

	next := *source
	next.Version = maxVersion + 1
	next.CreatedBy = createdBy
	next.Items = make([]model.ChecklistItemDefinition, len(source.Items))
	copy(next.Items, source.Items)
	for i := range next.Items {
		next.Items[i].ID = uuid.Nil
	}
	return r.CreateDefinition(ctx, next)
}

type responseRow struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	ItemID       uuid.UUID
	ValueBool    *bool
	ValueNumber  *float64
	ValueText    *string
	ValueJSON    []byte
	PhotoRefs    pq.StringArray `gorm:"type:text[]"`
	Compliant    *bool
	ReviewStatus model.ReviewStatus
	ReviewedBy   *uuid.UUID
	Timestamp    time.Time
	Latitude     *float64
	Longitude    *float64
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

const responseColumns = `
	id, trip_id, item_id, value_bool, value_number, value_text, value_json, photo_refs,
	compliant, review_status, reviewed_by, timestamp, latitude, longitude, created_by, created_at, deleted_at`

// ListResponsesForTrip returns the live (non-soft-deleted) responses of a
// trip.
func (r *ChecklistRepository) ListResponsesForTrip(ctx context.Context, tripID uuid.UUID) ([]model.ChecklistResponse, error) {
	var rows []responseRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+responseColumns+`
		FROM checklist_responses
		WHERE trip_id = ? AND deleted_at IS NULL
		ORDER BY timestamp ASC
	`, tripID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	responses := make([]model.ChecklistResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, responseFromRow(row))
	}
	return responses, nil
}

func (r *ChecklistRepository) GetResponse(ctx context.Context, id uuid.UUID) (*model.ChecklistResponse, error) {
	var row responseRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+responseColumns+`
		FROM checklist_responses
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1
	`, id).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	resp := responseFromRow(row)
	return &resp, nil
}

// CreateResponse inserts a new response. The partial unique index on
// (trip_id, item_id) enforces the at-most-one invariant; a violation is
// surfaced as ErrDuplicateResponse.
func (r *ChecklistRepository) CreateResponse(ctx context.Context, resp model.ChecklistResponse) (*model.ChecklistResponse, error) {
	var row responseRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO checklist_responses (
			trip_id, item_id, value_bool, value_number, value_text, value_json, photo_refs,
			compliant, review_status, timestamp, latitude, longitude, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+responseColumns+`
	`, resp.TripID, resp.ItemID, resp.ValueBool, resp.ValueNumber, resp.ValueText, resp.ValueJSON,
		pq.Array([]string(resp.PhotoRefs)), resp.Compliant, resp.ReviewStatus, resp.Timestamp,
		resp.Latitude, resp.Longitude, resp.CreatedBy).Scan(&row).Error
	if err != nil {
		if strings.Contains(err.Error(), "uq_checklist_responses_trip_item") ||
			strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicateResponse
		}
		return nil, err
	}
	saved := responseFromRow(row)
	return &saved, nil
}

func (r *ChecklistRepository) UpdateReviewStatus(
	ctx context.Context,
	responseID uuid.UUID,
	status model.ReviewStatus,
	reviewedBy uuid.UUID,
) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE checklist_responses
		SET review_status = ?, reviewed_by = ?
		WHERE id = ? AND deleted_at IS NULL
	`, status, reviewedBy, responseID).Error
}

// SoftDeleteResponse tombstones a response. Responses are never hard
// deleted.
func (r *ChecklistRepository) SoftDeleteResponse(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE checklist_responses
		SET deleted_at = NOW()
		WHERE id = ? AND deleted_at IS NULL
	`, id).Error
}

func itemFromRow(row itemRow) (model.ChecklistItemDefinition, error) {
	item := model.ChecklistItemDefinition{
		ID:          row.ID,
		ChecklistID: row.ChecklistID,
		Question:    row.Question,
		Kind:        row.Kind,
		Required:    row.Required,
		Critical:    row.Critical,
		OrderIndex:  row.OrderIndex,
		Options:     row.Options,
	}
	if len(row.ValidationRules) > 0 {
		var rules model.ValidationRules
		if err := json.Unmarshal(row.ValidationRules, &rules); err != nil {
			return item, err
		}
		item.Rules = &rules
	}
	if len(row.ConditionalLogic) > 0 {
		var logic model.ConditionalLogic
		if err := json.Unmarshal(row.ConditionalLogic, &logic); err != nil {
			return item, err
		}
		item.Conditional = &logic
	}
	return item, nil
}

func marshalItemJSON(item model.ChecklistItemDefinition) ([]byte, []byte, error) {
	var rules, logic []byte
	var err error
	if item.Rules != nil {
		if rules, err = json.Marshal(item.Rules); err != nil {
			return nil, nil, err
		}
	}
	if item.Conditional != nil {
		if logic, err = json.Marshal(item.Conditional); err != nil {
			return nil, nil, err
		}
	}
	return rules, logic, nil
}

func responseFromRow(row responseRow) model.ChecklistResponse {
	return model.ChecklistResponse{
		ID:           row.ID,
		TripID:       row.TripID,
		ItemID:       row.ItemID,
		ValueBool:    row.ValueBool,
		ValueNumber:  row.ValueNumber,
		ValueText:    row.ValueText,
		ValueJSON:    row.ValueJSON,
		PhotoRefs:    row.PhotoRefs,
		Compliant:    row.Compliant,
		ReviewStatus: row.ReviewStatus,
		ReviewedBy:   row.ReviewedBy,
		Timestamp:    row.Timestamp,
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
		DeletedAt:    row.DeletedAt,
	}
}
