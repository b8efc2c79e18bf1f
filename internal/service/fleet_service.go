package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

type FleetService struct {
	fleet             FleetStore
	defaultExpiryDays int
	now               func() time.Time
}

func NewFleetService(fleet FleetStore, defaultExpiryDays int) *FleetService {
	return &FleetService{fleet: fleet, defaultExpiryDays: defaultExpiryDays, now: time.Now}
}

func (s *FleetService) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	vehicle, err := s.fleet.GetVehicle(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return vehicle, nil
}

func (s *FleetService) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.fleet.ListVehicles(ctx)
}

func (s *FleetService) CreateVehicle(ctx context.Context, principal model.Principal, vehicle model.Vehicle) (*model.Vehicle, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(vehicle.Plate) == "" {
		return nil, fmt.Errorf("%w: plate is required", ErrInvalidInput)
	}
	switch vehicle.Category {
	case model.VehicleTruck, model.VehiclePickup, model.VehicleVan, model.VehicleRefrigerated, model.VehicleTank:
	default:
		return nil, fmt.Errorf("%w: invalid vehicle category %q", ErrInvalidInput, vehicle.Category)
	}
	vehicle.Active = true
	return s.fleet.CreateVehicle(ctx, vehicle)
}

func (s *FleetService) ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error) {
	if _, err := s.fleet.GetVehicle(ctx, vehicleID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.fleet.ListDocuments(ctx, vehicleID)
}

// ExpiringDocuments returns documents expiring within the horizon,
// including already-expired ones still on file. A non-positive horizon
// falls back to the configured default.
func (s *FleetService) ExpiringDocuments(ctx context.Context, withinDays int) ([]model.VehicleDocument, error) {
	if withinDays <= 0 {
		withinDays = s.defaultExpiryDays
	}
	if withinDays <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	until := s.now().AddDate(0, 0, withinDays)
	return s.fleet.ListExpiringDocuments(ctx, until)
}

func (s *FleetService) AddDocument(ctx context.Context, principal model.Principal, doc model.VehicleDocument) (*model.VehicleDocument, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if _, err := s.fleet.GetVehicle(ctx, doc.VehicleID); err != nil {
		return nil, mapNotFound(err)
	}
	if strings.TrimSpace(doc.Kind) == "" {
		return nil, fmt.Errorf("%w: kind is required", ErrInvalidInput)
	}
	if doc.ExpiresAt.Before(doc.IssuedAt) {
		return nil, fmt.Errorf("%w: expires_at precedes issued_at", ErrInvalidInput)
	}
	return s.fleet.CreateDocument(ctx, doc)
}

func (s *FleetService) ListMaintenance(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	if _, err := s.fleet.GetVehicle(ctx, vehicleID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.fleet.ListMaintenance(ctx, vehicleID)
}

// AddMaintenance records service work. Mechanics record their own work;
// supervisors and admins may record on anyone's behalf.
func (s *FleetService) AddMaintenance(ctx context.Context, principal model.Principal, record model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	if !principal.IsMechanic() && !principal.CanReview() {
		return nil, ErrPermissionDenied
	}
	if _, err := s.fleet.GetVehicle(ctx, record.VehicleID); err != nil {
		return nil, mapNotFound(err)
	}
	if strings.TrimSpace(record.ServiceType) == "" {
		return nil, fmt.Errorf("%w: service_type is required", ErrInvalidInput)
	}
	if principal.IsMechanic() {
		record.MechanicID = principal.UserID
	}
	if record.MechanicID == uuid.Nil {
		return nil, fmt.Errorf("%w: mechanic_id is required", ErrInvalidInput)
	}
	if record.PerformedAt.IsZero() {
		record.PerformedAt = s.now()
	}
	return s.fleet.CreateMaintenance(ctx, record)
}
