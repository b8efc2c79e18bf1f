package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `
	id, driver_id, vehicle_id, cargo_category, origin, destination,
	scheduled_start, scheduled_end, actual_start, actual_end, status, created_at`

func (r *TripRepository) GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&trip).Error; err != nil {
		return nil, err
	}
	if trip.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &trip, nil
}

// ListTrips returns trips filtered by optional status and driver.
func (r *TripRepository) ListTrips(
	ctx context.Context,
	status *model.TripStatus,
	driverID *uuid.UUID,
) ([]model.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE 1=1`
	args := []interface{}{}
	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}
	if driverID != nil {
		query += " AND driver_id = ?"
		args = append(args, *driverID)
	}
	query += " ORDER BY scheduled_start DESC"

	var trips []model.Trip
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) CreateTrip(ctx context.Context, trip model.Trip) (*model.Trip, error) {
	var saved model.Trip
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO trips (driver_id, vehicle_id, cargo_category, origin, destination, scheduled_start, scheduled_end, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'scheduled')
		RETURNING `+tripColumns+`
	`, trip.DriverID, trip.VehicleID, trip.CargoCategory, trip.Origin, trip.Destination,
		trip.ScheduledStart, trip.ScheduledEnd).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateTripStatus transitions the trip and stamps the actual start/end
// when the transition provides them.
func (r *TripRepository) UpdateTripStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.TripStatus,
	actualStart, actualEnd *time.Time,
) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE trips
		SET
			status = ?,
			actual_start = COALESCE(?, actual_start),
			actual_end = COALESCE(?, actual_end)
		WHERE id = ?
	`, status, actualStart, actualEnd, id).Error
}

const eventColumns = `
	id, trip_id, kind, description, location, timestamp, reporter_id, metadata, created_at`

// ListEvents returns the append-only event log of a trip in chronological
// order.
func (r *TripRepository) ListEvents(ctx context.Context, tripID uuid.UUID) ([]model.TripEvent, error) {
	var events []model.TripEvent
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+eventColumns+`
		FROM trip_events
		WHERE trip_id = ?
		ORDER BY timestamp ASC
	`, tripID).Scan(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *TripRepository) CreateEvent(ctx context.Context, event model.TripEvent) (*model.TripEvent, error) {
	var saved model.TripEvent
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO trip_events (trip_id, kind, description, location, timestamp, reporter_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns+`
	`, event.TripID, event.Kind, event.Description, event.Location, event.Timestamp,
		event.ReporterID, []byte(event.Metadata)).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

const fuelColumns = `
	id, vehicle_id, trip_id, liters, price_per_liter, total_cost, odometer_km, station,
	timestamp, recorded_by, created_at`

func (r *TripRepository) ListFuelLoads(ctx context.Context, tripID uuid.UUID) ([]model.FuelLoad, error) {
	var loads []model.FuelLoad
	if err := r.db.WithContext(ctx).Raw(`
		SELECT `+fuelColumns+`
		FROM fuel_loads
		WHERE trip_id = ?
		ORDER BY timestamp ASC
	`, tripID).Scan(&loads).Error; err != nil {
		return nil, err
	}
	return loads, nil
}

func (r *TripRepository) CreateFuelLoad(ctx context.Context, load model.FuelLoad) (*model.FuelLoad, error) {
	var saved model.FuelLoad
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO fuel_loads (vehicle_id, trip_id, liters, price_per_liter, total_cost, odometer_km, station, timestamp, recorded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+fuelColumns+`
	`, load.VehicleID, load.TripID, load.Liters, load.PricePerLiter, load.TotalCost,
		load.OdometerKm, load.Station, load.Timestamp, load.RecordedBy).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
