package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// Store interfaces are defined on the consumer side so services carry no
// hidden process-wide state and tests can substitute in-memory fakes.

type ChecklistStore interface {
	ListActiveDefinitions(ctx context.Context) ([]model.ChecklistDefinition, error)
	CreateDefinition(ctx context.Context, def model.ChecklistDefinition) (*model.ChecklistDefinition, error)
	DuplicateAsNewVersion(ctx context.Context, id, createdBy uuid.UUID) (*model.ChecklistDefinition, error)
	ListResponsesForTrip(ctx context.Context, tripID uuid.UUID) ([]model.ChecklistResponse, error)
	GetResponse(ctx context.Context, id uuid.UUID) (*model.ChecklistResponse, error)
	CreateResponse(ctx context.Context, resp model.ChecklistResponse) (*model.ChecklistResponse, error)
	UpdateReviewStatus(ctx context.Context, responseID uuid.UUID, status model.ReviewStatus, reviewedBy uuid.UUID) error
	SoftDeleteResponse(ctx context.Context, id uuid.UUID) error
}

type TripStore interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	ListTrips(ctx context.Context, status *model.TripStatus, driverID *uuid.UUID) ([]model.Trip, error)
	CreateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error)
	UpdateTripStatus(ctx context.Context, id uuid.UUID, status model.TripStatus, actualStart, actualEnd *time.Time) error
	ListEvents(ctx context.Context, tripID uuid.UUID) ([]model.TripEvent, error)
	CreateEvent(ctx context.Context, event model.TripEvent) (*model.TripEvent, error)
	ListFuelLoads(ctx context.Context, tripID uuid.UUID) ([]model.FuelLoad, error)
	CreateFuelLoad(ctx context.Context, load model.FuelLoad) (*model.FuelLoad, error)
}

type FleetStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle model.Vehicle) (*model.Vehicle, error)
	ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error)
	ListExpiringDocuments(ctx context.Context, until time.Time) ([]model.VehicleDocument, error)
	CreateDocument(ctx context.Context, doc model.VehicleDocument) (*model.VehicleDocument, error)
	ListMaintenance(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error)
	CreateMaintenance(ctx context.Context, record model.MaintenanceRecord) (*model.MaintenanceRecord, error)
}
