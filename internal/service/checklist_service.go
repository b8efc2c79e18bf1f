package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/checklist"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/repository"
)

type ComplianceExcelGenerator interface {
	Generate(report model.ComplianceReport) ([]byte, error)
}

var allPhases = []model.ChecklistPhase{
	model.PhasePreTrip,
	model.PhaseDuringTrip,
	model.PhasePostTrip,
	model.PhaseMaintenance,
	model.PhaseSafety,
}

type ChecklistService struct {
	checklists ChecklistStore
	trips      TripStore
	fleet      FleetStore
	excel      ComplianceExcelGenerator
	now        func() time.Time
}

func NewChecklistService(
	checklists ChecklistStore,
	trips TripStore,
	fleet FleetStore,
	excel ComplianceExcelGenerator,
) *ChecklistService {
	return &ChecklistService{
		checklists: checklists,
		trips:      trips,
		fleet:      fleet,
		excel:      excel,
		now:        time.Now,
	}
}

// ApplicableForTrip resolves the checklist definitions that apply to the
// trip in the given phase. An empty result is a valid outcome, not an
// error.
func (s *ChecklistService) ApplicableForTrip(
	ctx context.Context,
	tripID uuid.UUID,
	phase model.ChecklistPhase,
	mandatoryOnly bool,
) ([]model.ChecklistDefinition, error) {
	trip, vehicle, err := s.tripContext(ctx, tripID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	if mandatoryOnly {
		return checklist.ResolveMandatory(phase, trip.CargoCategory, vehicle.Category, catalog), nil
	}
	return checklist.ResolveApplicable(phase, trip.CargoCategory, vehicle.Category, catalog), nil
}

type SubmitResponseInput struct {
	TripID    uuid.UUID
	ItemID    uuid.UUID
	RawValue  string
	PhotoRefs []string
	Latitude  *float64
	Longitude *float64
	Timestamp time.Time
	Principal model.Principal
}

// SubmitResponse validates a driver's answer and persists it. Hidden
// items (conditional logic unmet) are rejected, invalid answers come back
// as a *ValidationError, and a second submission for the same (trip, item)
// pair is a conflict.
func (s *ChecklistService) SubmitResponse(ctx context.Context, input SubmitResponseInput) (*model.ChecklistResponse, error) {
	trip, err := s.trips.GetTrip(ctx, input.TripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if input.Principal.IsDriver() && trip.DriverID != input.Principal.UserID {
		return nil, ErrPermissionDenied
	}

	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	item, found := findItem(catalog, input.ItemID)
	if !found {
		return nil, ErrNotFound
	}

	responses, err := s.checklists.ListResponsesForTrip(ctx, input.TripID)
	if err != nil {
		return nil, err
	}
	prior := priorValues(catalog, responses)
	if !checklist.ShouldShow(item, prior) {
		return nil, fmt.Errorf("%w: item is not applicable given prior answers", ErrInvalidInput)
	}

	result := checklist.Validate(item, input.RawValue, input.PhotoRefs)
	if !result.Valid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	resp := model.ChecklistResponse{
		TripID:       input.TripID,
		ItemID:       input.ItemID,
		PhotoRefs:    input.PhotoRefs,
		ReviewStatus: model.ReviewPending,
		Timestamp:    input.Timestamp,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		CreatedBy:    input.Principal.UserID,
	}
	if resp.Timestamp.IsZero() {
		resp.Timestamp = s.now()
	}
	if err := fillValue(&resp, item, input.RawValue); err != nil {
		return nil, err
	}

	saved, err := s.checklists.CreateResponse(ctx, resp)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateResponse) {
			return nil, fmt.Errorf("%w: response for this item", ErrConflict)
		}
		return nil, err
	}
	return saved, nil
}

// ReviewResponse transitions a response's review status. Only supervisors
// and admins review; the only legal transitions are pending to a decided
// state and needs_clarification back to pending.
func (s *ChecklistService) ReviewResponse(
	ctx context.Context,
	principal model.Principal,
	responseID uuid.UUID,
	status model.ReviewStatus,
) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}
	resp, err := s.checklists.GetResponse(ctx, responseID)
	if err != nil {
		return mapNotFound(err)
	}
	if !reviewTransitionAllowed(resp.ReviewStatus, status) {
		return fmt.Errorf("%w: cannot move review from %s to %s", ErrInvalidInput, resp.ReviewStatus, status)
	}
	return s.checklists.UpdateReviewStatus(ctx, responseID, status, principal.UserID)
}

// DeleteResponse tombstones a response; hard deletes never happen.
func (s *ChecklistService) DeleteResponse(ctx context.Context, principal model.Principal, responseID uuid.UUID) error {
	if !principal.CanReview() {
		return ErrPermissionDenied
	}
	if _, err := s.checklists.GetResponse(ctx, responseID); err != nil {
		return mapNotFound(err)
	}
	return s.checklists.SoftDeleteResponse(ctx, responseID)
}

// CreateDefinition registers a new checklist template.
func (s *ChecklistService) CreateDefinition(
	ctx context.Context,
	principal model.Principal,
	def model.ChecklistDefinition,
) (*model.ChecklistDefinition, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	def.CreatedBy = principal.UserID
	return s.checklists.CreateDefinition(ctx, def)
}

// NewDefinitionVersion duplicates a definition into the next version for
// its name; the referenced version stays untouched.
func (s *ChecklistService) NewDefinitionVersion(
	ctx context.Context,
	principal model.Principal,
	definitionID uuid.UUID,
) (*model.ChecklistDefinition, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	def, err := s.checklists.DuplicateAsNewVersion(ctx, definitionID, principal.UserID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return def, nil
}

// TripCompliance summarizes every applicable checklist of the trip across
// all phases.
func (s *ChecklistService) TripCompliance(ctx context.Context, tripID uuid.UUID) ([]model.ComplianceRow, error) {
	trip, vehicle, err := s.tripContext(ctx, tripID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.checklists.ListResponsesForTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return complianceRows(*trip, vehicle.Category, catalog, responses), nil
}

// ComplianceReport renders the trip compliance picture as a workbook.
func (s *ChecklistService) ComplianceReport(
	ctx context.Context,
	principal model.Principal,
	tripID uuid.UUID,
) (string, []byte, error) {
	if principal.IsDriver() {
		return "", nil, ErrPermissionDenied
	}
	trip, vehicle, err := s.tripContext(ctx, tripID)
	if err != nil {
		return "", nil, err
	}
	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return "", nil, err
	}
	responses, err := s.checklists.ListResponsesForTrip(ctx, tripID)
	if err != nil {
		return "", nil, err
	}

	driver, err := s.fleet.GetUser(ctx, trip.DriverID)
	if err != nil {
		return "", nil, mapNotFound(err)
	}

	report := model.ComplianceReport{
		TripID:        trip.ID,
		DriverName:    driver.FullName,
		VehiclePlate:  vehicle.Plate,
		CargoCategory: trip.CargoCategory,
		Origin:        trip.Origin,
		Destination:   trip.Destination,
		ScheduledAt:   trip.ScheduledStart,
		GeneratedAt:   s.now(),
		Rows:          complianceRows(*trip, vehicle.Category, catalog, responses),
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("compliance-%s-%s.xlsx",
		sanitizeFileName(vehicle.Plate), trip.ScheduledStart.Format("20060102"))
	return fileName, content, nil
}

func (s *ChecklistService) tripContext(ctx context.Context, tripID uuid.UUID) (*model.Trip, *model.Vehicle, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	vehicle, err := s.fleet.GetVehicle(ctx, trip.VehicleID)
	if err != nil {
		return nil, nil, mapNotFound(err)
	}
	return trip, vehicle, nil
}

// complianceRows resolves applicability phase by phase, aggregates, and
// flattens into name-ordered report rows.
func complianceRows(
	trip model.Trip,
	vehicleCategory model.VehicleCategory,
	catalog []model.ChecklistDefinition,
	responses []model.ChecklistResponse,
) []model.ComplianceRow {
	applicable := applicableAllPhases(trip, vehicleCategory, catalog)

	itemsByChecklist := make(map[uuid.UUID][]model.ChecklistItemDefinition, len(applicable))
	for _, def := range applicable {
		itemsByChecklist[def.ID] = def.Items
	}
	summaries := checklist.Summarize(trip.ID, responses, itemsByChecklist)

	rows := make([]model.ComplianceRow, 0, len(applicable))
	for _, def := range applicable {
		summary := summaries[def.ID]
		rows = append(rows, model.ComplianceRow{
			ChecklistID:          def.ID,
			Name:                 def.Name,
			Phase:                def.Phase,
			Version:              def.Version,
			Mandatory:            def.Mandatory,
			TotalItems:           summary.TotalItems,
			CompletedItems:       summary.CompletedItems,
			CompliantItems:       summary.CompliantItems,
			PendingReview:        summary.PendingReview,
			CompletionPercentage: summary.CompletionPercentage,
			CompliancePercentage: summary.CompliancePercentage,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

func applicableAllPhases(
	trip model.Trip,
	vehicleCategory model.VehicleCategory,
	catalog []model.ChecklistDefinition,
) []model.ChecklistDefinition {
	var applicable []model.ChecklistDefinition
	for _, phase := range allPhases {
		applicable = append(applicable,
			checklist.ResolveApplicable(phase, trip.CargoCategory, vehicleCategory, catalog)...)
	}
	sort.SliceStable(applicable, func(i, j int) bool { return applicable[i].Name < applicable[j].Name })
	return applicable
}

func findItem(catalog []model.ChecklistDefinition, itemID uuid.UUID) (model.ChecklistItemDefinition, bool) {
	for _, def := range catalog {
		for _, item := range def.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return model.ChecklistItemDefinition{}, false
}

// priorValues lifts a trip's responses into tagged values keyed by item,
// for the conditional visibility evaluator.
func priorValues(
	catalog []model.ChecklistDefinition,
	responses []model.ChecklistResponse,
) map[uuid.UUID]checklist.ResponseValue {
	kinds := make(map[uuid.UUID]model.AnswerKind)
	for _, def := range catalog {
		for _, item := range def.Items {
			kinds[item.ID] = item.Kind
		}
	}
	prior := make(map[uuid.UUID]checklist.ResponseValue, len(responses))
	for _, resp := range responses {
		kind, known := kinds[resp.ItemID]
		if !known {
			continue
		}
		prior[resp.ItemID] = checklist.ValueFromResponse(kind, resp)
	}
	return prior
}

func fillValue(resp *model.ChecklistResponse, item model.ChecklistItemDefinition, raw string) error {
	switch item.Kind {
	case model.AnswerYesNo:
		verdict, found := checklist.YesNoCompliant(raw)
		if !found {
			return fmt.Errorf("%w: not a yes/no answer", ErrInvalidInput)
		}
		resp.ValueBool = &verdict
		resp.Compliant = &verdict
	case model.AnswerNumber:
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: not a number", ErrInvalidInput)
		}
		resp.ValueNumber = &value
	case model.AnswerMultiselect:
		resp.ValueJSON = []byte(raw)
	case model.AnswerPhoto, model.AnswerSignature:
		// Photo references are already on the response.
	default:
		text := raw
		resp.ValueText = &text
	}
	return nil
}

func reviewTransitionAllowed(from, to model.ReviewStatus) bool {
	switch from {
	case model.ReviewPending:
		return to == model.ReviewApproved || to == model.ReviewRejected || to == model.ReviewNeedsClarification
	case model.ReviewNeedsClarification:
		return to == model.ReviewPending
	default:
		return false
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
