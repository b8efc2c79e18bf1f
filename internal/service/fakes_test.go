package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/repository"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/timeline"
)

// In-memory store fakes backing the service tests. Not safe for
// concurrent use; each test builds its own instance.

type memChecklistStore struct {
	definitions []model.ChecklistDefinition
	responses   map[uuid.UUID]*model.ChecklistResponse
}

func newMemChecklistStore() *memChecklistStore {
	return &memChecklistStore{responses: make(map[uuid.UUID]*model.ChecklistResponse)}
}

func (s *memChecklistStore) ListActiveDefinitions(_ context.Context) ([]model.ChecklistDefinition, error) {
	active := make([]model.ChecklistDefinition, 0, len(s.definitions))
	for _, def := range s.definitions {
		if def.Active {
			active = append(active, def)
		}
	}
	return active, nil
}

func (s *memChecklistStore) CreateDefinition(_ context.Context, def model.ChecklistDefinition) (*model.ChecklistDefinition, error) {
	def.ID = uuid.New()
	for i := range def.Items {
		def.Items[i].ID = uuid.New()
		def.Items[i].ChecklistID = def.ID
	}
	if def.Version == 0 {
		def.Version = 1
	}
	s.definitions = append(s.definitions, def)
	return &def, nil
}

func (s *memChecklistStore) DuplicateAsNewVersion(_ context.Context, id, createdBy uuid.UUID) (*model.ChecklistDefinition, error) {
	var source *model.ChecklistDefinition
	for i := range s.definitions {
		if s.definitions[i].ID == id {
			source = &s.definitions[i]
			break
		}
	}
	if source == nil {
		return nil, gorm.ErrRecordNotFound
	}
	maxVersion := 0
	for _, def := range s.definitions {
		if def.Name == source.Name && def.Version > maxVersion {
			maxVersion = def.Version
		}
	}
	next := *source
	next.ID = uuid.New()
	next.Version = maxVersion + 1
	next.CreatedBy = createdBy
	next.Items = make([]model.ChecklistItemDefinition, len(source.Items))
	copy(next.Items, source.Items)
	for i := range next.Items {
		next.Items[i].ID = uuid.New()
		next.Items[i].ChecklistID = next.ID
	}
	s.definitions = append(s.definitions, next)
	return &next, nil
}

func (s *memChecklistStore) ListResponsesForTrip(_ context.Context, tripID uuid.UUID) ([]model.ChecklistResponse, error) {
	var result []model.ChecklistResponse
	for _, resp := range s.responses {
		if resp.TripID == tripID && resp.DeletedAt == nil {
			result = append(result, *resp)
		}
	}
	return result, nil
}

func (s *memChecklistStore) GetResponse(_ context.Context, id uuid.UUID) (*model.ChecklistResponse, error) {
	resp, found := s.responses[id]
	if !found || resp.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *resp
	return &clone, nil
}

func (s *memChecklistStore) CreateResponse(_ context.Context, resp model.ChecklistResponse) (*model.ChecklistResponse, error) {
	for _, existing := range s.responses {
		if existing.TripID == resp.TripID && existing.ItemID == resp.ItemID && existing.DeletedAt == nil {
			return nil, repository.ErrDuplicateResponse
		}
	}
	resp.ID = uuid.New()
	resp.CreatedAt = time.Now()
	s.responses[resp.ID] = &resp
	clone := resp
	return &clone, nil
}

func (s *memChecklistStore) UpdateReviewStatus(_ context.Context, responseID uuid.UUID, status model.ReviewStatus, reviewedBy uuid.UUID) error {
	resp, found := s.responses[responseID]
	if !found {
		return gorm.ErrRecordNotFound
	}
	resp.ReviewStatus = status
	resp.ReviewedBy = &reviewedBy
	return nil
}

func (s *memChecklistStore) SoftDeleteResponse(_ context.Context, id uuid.UUID) error {
	resp, found := s.responses[id]
	if !found {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	resp.DeletedAt = &now
	return nil
}

type memTripStore struct {
	trips     map[uuid.UUID]*model.Trip
	events    []model.TripEvent
	fuelLoads []model.FuelLoad
}

func newMemTripStore() *memTripStore {
	return &memTripStore{trips: make(map[uuid.UUID]*model.Trip)}
}

func (s *memTripStore) GetTrip(_ context.Context, id uuid.UUID) (*model.Trip, error) {
	trip, found := s.trips[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *trip
	return &clone, nil
}

func (s *memTripStore) ListTrips(_ context.Context, status *model.TripStatus, driverID *uuid.UUID) ([]model.Trip, error) {
	var result []model.Trip
	for _, trip := range s.trips {
		if status != nil && trip.Status != *status {
			continue
		}
		if driverID != nil && trip.DriverID != *driverID {
			continue
		}
		result = append(result, *trip)
	}
	return result, nil
}

func (s *memTripStore) CreateTrip(_ context.Context, trip model.Trip) (*model.Trip, error) {
	trip.ID = uuid.New()
	if trip.Status == "" {
		trip.Status = model.TripScheduled
	}
	trip.CreatedAt = time.Now()
	s.trips[trip.ID] = &trip
	clone := trip
	return &clone, nil
}

func (s *memTripStore) UpdateTripStatus(_ context.Context, id uuid.UUID, status model.TripStatus, actualStart, actualEnd *time.Time) error {
	trip, found := s.trips[id]
	if !found {
		return gorm.ErrRecordNotFound
	}
	trip.Status = status
	if actualStart != nil {
		trip.ActualStart = actualStart
	}
	if actualEnd != nil {
		trip.ActualEnd = actualEnd
	}
	return nil
}

func (s *memTripStore) ListEvents(_ context.Context, tripID uuid.UUID) ([]model.TripEvent, error) {
	var result []model.TripEvent
	for _, event := range s.events {
		if event.TripID == tripID {
			result = append(result, event)
		}
	}
	return result, nil
}

func (s *memTripStore) CreateEvent(_ context.Context, event model.TripEvent) (*model.TripEvent, error) {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	s.events = append(s.events, event)
	return &event, nil
}

func (s *memTripStore) ListFuelLoads(_ context.Context, tripID uuid.UUID) ([]model.FuelLoad, error) {
	var result []model.FuelLoad
	for _, load := range s.fuelLoads {
		if load.TripID != nil && *load.TripID == tripID {
			result = append(result, load)
		}
	}
	return result, nil
}

func (s *memTripStore) CreateFuelLoad(_ context.Context, load model.FuelLoad) (*model.FuelLoad, error) {
	load.ID = uuid.New()
	load.CreatedAt = time.Now()
	s.fuelLoads = append(s.fuelLoads, load)
	return &load, nil
}

type memFleetStore struct {
	users       map[uuid.UUID]*model.User
	vehicles    map[uuid.UUID]*model.Vehicle
	documents   []model.VehicleDocument
	maintenance []model.MaintenanceRecord
}

func newMemFleetStore() *memFleetStore {
	return &memFleetStore{
		users:    make(map[uuid.UUID]*model.User),
		vehicles: make(map[uuid.UUID]*model.Vehicle),
	}
}

func (s *memFleetStore) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, found := s.users[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memFleetStore) GetVehicle(_ context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, found := s.vehicles[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *vehicle
	return &clone, nil
}

func (s *memFleetStore) ListVehicles(_ context.Context) ([]model.Vehicle, error) {
	var result []model.Vehicle
	for _, vehicle := range s.vehicles {
		result = append(result, *vehicle)
	}
	return result, nil
}

func (s *memFleetStore) CreateVehicle(_ context.Context, vehicle model.Vehicle) (*model.Vehicle, error) {
	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	s.vehicles[vehicle.ID] = &vehicle
	clone := vehicle
	return &clone, nil
}

func (s *memFleetStore) ListDocuments(_ context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error) {
	var result []model.VehicleDocument
	for _, doc := range s.documents {
		if doc.VehicleID == vehicleID {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (s *memFleetStore) ListExpiringDocuments(_ context.Context, until time.Time) ([]model.VehicleDocument, error) {
	var result []model.VehicleDocument
	for _, doc := range s.documents {
		if !doc.ExpiresAt.After(until) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (s *memFleetStore) CreateDocument(_ context.Context, doc model.VehicleDocument) (*model.VehicleDocument, error) {
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now()
	s.documents = append(s.documents, doc)
	return &doc, nil
}

func (s *memFleetStore) ListMaintenance(_ context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	var result []model.MaintenanceRecord
	for _, record := range s.maintenance {
		if record.VehicleID == vehicleID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *memFleetStore) CreateMaintenance(_ context.Context, record model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	s.maintenance = append(s.maintenance, record)
	return &record, nil
}

type fakeExcelGenerator struct{ calls int }

func (g *fakeExcelGenerator) Generate(_ model.ComplianceReport) ([]byte, error) {
	g.calls++
	return []byte("xlsx"), nil
}

type fakePDFGenerator struct{ calls int }

func (g *fakePDFGenerator) Generate(_ model.Trip, _, _ string, _ []timeline.Entry) ([]byte, error) {
	g.calls++
	return []byte("pdf"), nil
}
