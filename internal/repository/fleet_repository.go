package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// FleetRepository covers the vehicle registry: vehicles, their documents
// and their maintenance history, plus user lookups.
type FleetRepository struct {
	db *gorm.DB
}

func NewFleetRepository(db *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db}
}

func (r *FleetRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, full_name, email, phone, role, active, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&user).Error; err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

const vehicleColumns = `id, plate, category, make, model, year, odometer_km, active, created_at`

func (r *FleetRepository) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&vehicle).Error; err != nil {
		return nil, err
	}
	if vehicle.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &vehicle, nil
}

func (r *FleetRepository) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := r.db.WithContext(ctx).Raw(`
		SELECT ` + vehicleColumns + `
		FROM vehicles
		ORDER BY plate ASC
	`).Scan(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *FleetRepository) CreateVehicle(ctx context.Context, vehicle model.Vehicle) (*model.Vehicle, error) {
	var saved model.Vehicle
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicles (plate, category, make, model, year, odometer_km, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+vehicleColumns+`
	`, vehicle.Plate, vehicle.Category, vehicle.Make, vehicle.Model, vehicle.Year,
		vehicle.OdometerKm, vehicle.Active).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

const documentColumns = `id, vehicle_id, kind, number, issued_at, expires_at, file_ref, created_at`

func (r *FleetRepository) ListDocuments(ctx context.Context, vehicleID uuid.UUID) ([]model.VehicleDocument, error) {
	var docs []model.VehicleDocument
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM vehicle_documents
		WHERE vehicle_id = ?
		ORDER BY expires_at ASC
	`, vehicleID).Scan(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// ListExpiringDocuments returns documents whose expiry falls inside the
// horizon, already-expired ones included.
func (r *FleetRepository) ListExpiringDocuments(ctx context.Context, until time.Time) ([]model.VehicleDocument, error) {
	var docs []model.VehicleDocument
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+documentColumns+`
		FROM vehicle_documents
		WHERE expires_at <= ?
		ORDER BY expires_at ASC
	`, until).Scan(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *FleetRepository) CreateDocument(ctx context.Context, doc model.VehicleDocument) (*model.VehicleDocument, error) {
	var saved model.VehicleDocument
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO vehicle_documents (vehicle_id, kind, number, issued_at, expires_at, file_ref)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+documentColumns+`
	`, doc.VehicleID, doc.Kind, doc.Number, doc.IssuedAt, doc.ExpiresAt, doc.FileRef).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

const maintenanceColumns = `
	id, vehicle_id, mechanic_id, service_type, description, cost, odometer_km, performed_at, created_at`

func (r *FleetRepository) ListMaintenance(ctx context.Context, vehicleID uuid.UUID) ([]model.MaintenanceRecord, error) {
	var records []model.MaintenanceRecord
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+maintenanceColumns+`
		FROM maintenance_records
		WHERE vehicle_id = ?
		ORDER BY performed_at DESC
	`, vehicleID).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *FleetRepository) CreateMaintenance(ctx context.Context, record model.MaintenanceRecord) (*model.MaintenanceRecord, error) {
	var saved model.MaintenanceRecord
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO maintenance_records (vehicle_id, mechanic_id, service_type, description, cost, odometer_km, performed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+maintenanceColumns+`
	`, record.VehicleID, record.MechanicID, record.ServiceType, record.Description,
		record.Cost, record.OdometerKm, record.PerformedAt).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
