package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/checklist"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/timeline"
)

type TimelinePDFGenerator interface {
	Generate(trip model.Trip, driverName, vehiclePlate string, entries []timeline.Entry) ([]byte, error)
}

type TripService struct {
	trips      TripStore
	fleet      FleetStore
	checklists ChecklistStore
	pdf        TimelinePDFGenerator
	now        func() time.Time
}

func NewTripService(
	trips TripStore,
	fleet FleetStore,
	checklists ChecklistStore,
	pdf TimelinePDFGenerator,
) *TripService {
	return &TripService{
		trips:      trips,
		fleet:      fleet,
		checklists: checklists,
		pdf:        pdf,
		now:        time.Now,
	}
}

func (s *TripService) Get(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if principal.IsDriver() && trip.DriverID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return trip, nil
}

// List returns trips visible to the principal; drivers only see their own.
func (s *TripService) List(ctx context.Context, principal model.Principal, status *model.TripStatus) ([]model.Trip, error) {
	var driverID *uuid.UUID
	if principal.IsDriver() {
		id := principal.UserID
		driverID = &id
	}
	return s.trips.ListTrips(ctx, status, driverID)
}

type CreateTripInput struct {
	DriverID       uuid.UUID
	VehicleID      uuid.UUID
	CargoCategory  model.CargoCategory
	Origin         string
	Destination    string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

func (s *TripService) Create(ctx context.Context, principal model.Principal, input CreateTripInput) (*model.Trip, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if input.ScheduledStart.IsZero() || input.ScheduledEnd.IsZero() {
		return nil, fmt.Errorf("%w: scheduled window is required", ErrInvalidInput)
	}
	if !input.ScheduledStart.Before(input.ScheduledEnd) {
		return nil, fmt.Errorf("%w: scheduled_start must precede scheduled_end", ErrInvalidInput)
	}
	driver, err := s.fleet.GetUser(ctx, input.DriverID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if driver.Role != model.RoleDriver {
		return nil, fmt.Errorf("%w: assignee is not a driver", ErrInvalidInput)
	}
	if _, err := s.fleet.GetVehicle(ctx, input.VehicleID); err != nil {
		return nil, mapNotFound(err)
	}

	return s.trips.CreateTrip(ctx, model.Trip{
		DriverID:       input.DriverID,
		VehicleID:      input.VehicleID,
		CargoCategory:  input.CargoCategory,
		Origin:         input.Origin,
		Destination:    input.Destination,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
	})
}

// Start moves a trip into in_progress. The transition out of scheduled is
// blocked until every mandatory pre-trip checklist is fully answered.
func (s *TripService) Start(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.authorizedTrip(ctx, principal, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripScheduled && trip.Status != model.TripDelayed {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidInput, trip.Status)
	}

	incomplete, err := s.incompleteMandatory(ctx, *trip)
	if err != nil {
		return nil, err
	}
	if len(incomplete) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrChecklistIncomplete, strings.Join(incomplete, ", "))
	}

	started := s.now()
	if err := s.trips.UpdateTripStatus(ctx, tripID, model.TripInProgress, &started, nil); err != nil {
		return nil, err
	}
	trip.Status = model.TripInProgress
	trip.ActualStart = &started
	return trip, nil
}

func (s *TripService) Complete(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.authorizedTrip(ctx, principal, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripInProgress {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidInput, trip.Status)
	}
	ended := s.now()
	if err := s.trips.UpdateTripStatus(ctx, tripID, model.TripCompleted, nil, &ended); err != nil {
		return nil, err
	}
	trip.Status = model.TripCompleted
	trip.ActualEnd = &ended
	return trip, nil
}

func (s *TripService) Cancel(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if trip.Status == model.TripCompleted || trip.Status == model.TripCancelled {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidInput, trip.Status)
	}
	if err := s.trips.UpdateTripStatus(ctx, tripID, model.TripCancelled, nil, nil); err != nil {
		return nil, err
	}
	trip.Status = model.TripCancelled
	return trip, nil
}

func (s *TripService) Delay(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if trip.Status != model.TripScheduled {
		return nil, fmt.Errorf("%w: trip is %s", ErrInvalidInput, trip.Status)
	}
	if err := s.trips.UpdateTripStatus(ctx, tripID, model.TripDelayed, nil, nil); err != nil {
		return nil, err
	}
	trip.Status = model.TripDelayed
	return trip, nil
}

type AddEventInput struct {
	TripID      uuid.UUID
	Kind        string
	Description string
	Location    string
	Timestamp   time.Time
	Metadata    json.RawMessage
}

// AddEvent appends a manual occurrence to an active trip. Events are
// immutable once created.
func (s *TripService) AddEvent(ctx context.Context, principal model.Principal, input AddEventInput) (*model.TripEvent, error) {
	trip, err := s.authorizedTrip(ctx, principal, input.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripInProgress {
		return nil, fmt.Errorf("%w: trip is not in progress", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Kind) == "" {
		return nil, fmt.Errorf("%w: kind is required", ErrInvalidInput)
	}

	event := model.TripEvent{
		TripID:      input.TripID,
		Kind:        input.Kind,
		Description: input.Description,
		Location:    input.Location,
		Timestamp:   input.Timestamp,
		ReporterID:  principal.UserID,
		Metadata:    input.Metadata,
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	return s.trips.CreateEvent(ctx, event)
}

func (s *TripService) ListEvents(ctx context.Context, principal model.Principal, tripID uuid.UUID) ([]model.TripEvent, error) {
	if _, err := s.authorizedTrip(ctx, principal, tripID); err != nil {
		return nil, err
	}
	events, err := s.trips.ListEvents(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return events, nil
}

type RecordFuelLoadInput struct {
	TripID        uuid.UUID
	Liters        float64
	PricePerLiter float64
	TotalCost     float64
	OdometerKm    float64
	Station       string
	Timestamp     time.Time
}

// RecordFuelLoad stores a refuel against the trip's vehicle. The total is
// derived from liters and unit price when the caller leaves it at zero.
func (s *TripService) RecordFuelLoad(ctx context.Context, principal model.Principal, input RecordFuelLoadInput) (*model.FuelLoad, error) {
	trip, err := s.authorizedTrip(ctx, principal, input.TripID)
	if err != nil {
		return nil, err
	}
	if input.Liters <= 0 {
		return nil, fmt.Errorf("%w: liters must be positive", ErrInvalidInput)
	}

	load := model.FuelLoad{
		VehicleID:     trip.VehicleID,
		TripID:        &trip.ID,
		Liters:        input.Liters,
		PricePerLiter: input.PricePerLiter,
		TotalCost:     input.TotalCost,
		OdometerKm:    input.OdometerKm,
		Station:       input.Station,
		Timestamp:     input.Timestamp,
		RecordedBy:    principal.UserID,
	}
	if load.TotalCost == 0 {
		load.TotalCost = load.Liters * load.PricePerLiter
	}
	if load.Timestamp.IsZero() {
		load.Timestamp = s.now()
	}
	return s.trips.CreateFuelLoad(ctx, load)
}

func (s *TripService) ListFuelLoads(ctx context.Context, principal model.Principal, tripID uuid.UUID) ([]model.FuelLoad, error) {
	if _, err := s.authorizedTrip(ctx, principal, tripID); err != nil {
		return nil, err
	}
	loads, err := s.trips.ListFuelLoads(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return loads, nil
}

// Timeline assembles the consolidated trace of a trip. All three source
// collections come from the same store read path so they reflect one
// consistent view.
func (s *TripService) Timeline(ctx context.Context, principal model.Principal, tripID uuid.UUID) ([]timeline.Entry, error) {
	trip, err := s.Get(ctx, principal, tripID)
	if err != nil {
		return nil, err
	}
	events, err := s.trips.ListEvents(ctx, tripID)
	if err != nil {
		return nil, err
	}
	fuelLoads, err := s.trips.ListFuelLoads(ctx, tripID)
	if err != nil {
		return nil, err
	}
	contexts, err := s.completedChecklists(ctx, *trip)
	if err != nil {
		return nil, err
	}
	return timeline.Build(*trip, events, fuelLoads, contexts), nil
}

// TimelinePDF renders the timeline as a printable trip report.
func (s *TripService) TimelinePDF(ctx context.Context, principal model.Principal, tripID uuid.UUID) (string, []byte, error) {
	trip, err := s.Get(ctx, principal, tripID)
	if err != nil {
		return "", nil, err
	}
	entries, err := s.Timeline(ctx, principal, tripID)
	if err != nil {
		return "", nil, err
	}
	driver, err := s.fleet.GetUser(ctx, trip.DriverID)
	if err != nil {
		return "", nil, mapNotFound(err)
	}
	vehicle, err := s.fleet.GetVehicle(ctx, trip.VehicleID)
	if err != nil {
		return "", nil, mapNotFound(err)
	}

	content, err := s.pdf.Generate(*trip, driver.FullName, vehicle.Plate, entries)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("trip-%s-%s.pdf",
		sanitizeFileName(vehicle.Plate), trip.ScheduledStart.Format("20060102"))
	return fileName, content, nil
}

func (s *TripService) authorizedTrip(ctx context.Context, principal model.Principal, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if principal.IsMechanic() {
		return nil, ErrPermissionDenied
	}
	if principal.IsDriver() && trip.DriverID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return trip, nil
}

// incompleteMandatory names the mandatory pre-trip checklists that still
// have unanswered items.
func (s *TripService) incompleteMandatory(ctx context.Context, trip model.Trip) ([]string, error) {
	vehicle, err := s.fleet.GetVehicle(ctx, trip.VehicleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	mandatory := checklist.ResolveMandatory(model.PhasePreTrip, trip.CargoCategory, vehicle.Category, catalog)
	if len(mandatory) == 0 {
		return nil, nil
	}

	responses, err := s.checklists.ListResponsesForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	itemsByChecklist := make(map[uuid.UUID][]model.ChecklistItemDefinition, len(mandatory))
	for _, def := range mandatory {
		itemsByChecklist[def.ID] = def.Items
	}
	summaries := checklist.Summarize(trip.ID, responses, itemsByChecklist)

	var incomplete []string
	for _, def := range mandatory {
		if summaries[def.ID].CompletionPercentage < 100 {
			incomplete = append(incomplete, def.Name)
		}
	}
	return incomplete, nil
}

// completedChecklists derives the checklist completions visible to the
// timeline: applicable definitions whose items are all answered, stamped
// with the latest response time.
func (s *TripService) completedChecklists(ctx context.Context, trip model.Trip) ([]timeline.ChecklistContext, error) {
	vehicle, err := s.fleet.GetVehicle(ctx, trip.VehicleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	catalog, err := s.checklists.ListActiveDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.checklists.ListResponsesForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	applicable := applicableAllPhases(trip, vehicle.Category, catalog)
	itemsByChecklist := make(map[uuid.UUID][]model.ChecklistItemDefinition, len(applicable))
	for _, def := range applicable {
		itemsByChecklist[def.ID] = def.Items
	}
	summaries := checklist.Summarize(trip.ID, responses, itemsByChecklist)

	latestByChecklist := make(map[uuid.UUID]time.Time)
	itemOwner := make(map[uuid.UUID]uuid.UUID)
	for checklistID, items := range itemsByChecklist {
		for _, item := range items {
			itemOwner[item.ID] = checklistID
		}
	}
	for _, resp := range responses {
		checklistID, owned := itemOwner[resp.ItemID]
		if !owned {
			continue
		}
		if resp.Timestamp.After(latestByChecklist[checklistID]) {
			latestByChecklist[checklistID] = resp.Timestamp
		}
	}

	contexts := make([]timeline.ChecklistContext, 0, len(applicable))
	for _, def := range applicable {
		summary := summaries[def.ID]
		if summary.TotalItems == 0 || summary.CompletedItems < summary.TotalItems {
			continue
		}
		contexts = append(contexts, timeline.ChecklistContext{
			ChecklistID:          def.ID,
			Name:                 def.Name,
			CompletedAt:          latestByChecklist[def.ID],
			CompletedItems:       summary.CompletedItems,
			TotalItems:           summary.TotalItems,
			CompliancePercentage: summary.CompliancePercentage,
		})
	}
	sort.SliceStable(contexts, func(i, j int) bool { return contexts[i].Name < contexts[j].Name })
	return contexts, nil
}
