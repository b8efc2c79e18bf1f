package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('admin', 'supervisor', 'driver', 'mechanic');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vehicle_category') THEN
			CREATE TYPE vehicle_category AS ENUM ('truck', 'pickup', 'van', 'refrigerated', 'tank');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'trip_status') THEN
			CREATE TYPE trip_status AS ENUM ('scheduled', 'in_progress', 'completed', 'cancelled', 'delayed');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'cargo_category') THEN
			CREATE TYPE cargo_category AS ENUM ('feed', 'mussels', 'finished_product', 'general');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'checklist_phase') THEN
			CREATE TYPE checklist_phase AS ENUM ('pre_trip', 'during_trip', 'post_trip', 'maintenance', 'safety');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'answer_kind') THEN
			CREATE TYPE answer_kind AS ENUM ('yes_no', 'text', 'number', 'select', 'multiselect', 'photo', 'signature');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'review_status') THEN
			CREATE TYPE review_status AS ENUM ('pending', 'approved', 'rejected', 'needs_clarification');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		role user_role NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		plate VARCHAR(16) NOT NULL,
		category vehicle_category NOT NULL,
		make VARCHAR(64),
		model VARCHAR(64),
		year INT,
		odometer_km NUMERIC(12,1) NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate ON vehicles (plate);`,
	`CREATE TABLE IF NOT EXISTS vehicle_documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		kind VARCHAR(64) NOT NULL,
		number VARCHAR(64),
		issued_at DATE NOT NULL,
		expires_at DATE NOT NULL,
		file_ref TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_vehicle_documents_expires_at ON vehicle_documents (expires_at);`,
	`CREATE TABLE IF NOT EXISTS maintenance_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		mechanic_id UUID NOT NULL REFERENCES users(id),
		service_type VARCHAR(64) NOT NULL,
		description TEXT,
		cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		odometer_km NUMERIC(12,1),
		performed_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_vehicle_id ON maintenance_records (vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		driver_id UUID NOT NULL REFERENCES users(id),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		cargo_category cargo_category NOT NULL,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		scheduled_start TIMESTAMPTZ NOT NULL,
		scheduled_end TIMESTAMPTZ NOT NULL,
		actual_start TIMESTAMPTZ,
		actual_end TIMESTAMPTZ,
		status trip_status NOT NULL DEFAULT 'scheduled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_driver_id ON trips (driver_id);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_vehicle_id ON trips (vehicle_id);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips (status);`,
	`CREATE TABLE IF NOT EXISTS trip_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_id UUID NOT NULL REFERENCES trips(id),
		kind VARCHAR(64) NOT NULL,
		description TEXT,
		location VARCHAR(255),
		timestamp TIMESTAMPTZ NOT NULL,
		reporter_id UUID NOT NULL REFERENCES users(id),
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trip_events_trip_id ON trip_events (trip_id);`,
	`CREATE TABLE IF NOT EXISTS fuel_loads (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		trip_id UUID REFERENCES trips(id),
		liters NUMERIC(10,2) NOT NULL,
		price_per_liter NUMERIC(10,2) NOT NULL,
		total_cost NUMERIC(18,2) NOT NULL,
		odometer_km NUMERIC(12,1),
		station VARCHAR(255),
		timestamp TIMESTAMPTZ NOT NULL,
		recorded_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fuel_loads_trip_id ON fuel_loads (trip_id) WHERE trip_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_fuel_loads_vehicle_id ON fuel_loads (vehicle_id);`,
	`CREATE TABLE IF NOT EXISTS checklist_definitions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		phase checklist_phase NOT NULL,
		cargo_category cargo_category NOT NULL DEFAULT 'general',
		vehicle_category VARCHAR(16) NOT NULL DEFAULT 'all',
		mandatory BOOLEAN NOT NULL DEFAULT FALSE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		version INT NOT NULL DEFAULT 1,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_checklist_name_version ON checklist_definitions (name, version);`,
	`CREATE TABLE IF NOT EXISTS checklist_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		checklist_id UUID NOT NULL REFERENCES checklist_definitions(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		kind answer_kind NOT NULL,
		required BOOLEAN NOT NULL DEFAULT FALSE,
		critical BOOLEAN NOT NULL DEFAULT FALSE,
		order_index INT NOT NULL,
		options TEXT[],
		validation_rules JSONB,
		conditional_logic JSONB
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_checklist_items_order ON checklist_items (checklist_id, order_index);`,
	`CREATE TABLE IF NOT EXISTS checklist_responses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_id UUID NOT NULL REFERENCES trips(id),
		item_id UUID NOT NULL REFERENCES checklist_items(id),
		value_bool BOOLEAN,
		value_number NUMERIC(18,4),
		value_text TEXT,
		value_json JSONB,
		photo_refs TEXT[],
		compliant BOOLEAN,
		review_status review_status NOT NULL DEFAULT 'pending',
		reviewed_by UUID REFERENCES users(id),
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_checklist_responses_trip_item
		ON checklist_responses (trip_id, item_id) WHERE deleted_at IS NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_checklist_responses_trip_id ON checklist_responses (trip_id);`,
	`CREATE INDEX IF NOT EXISTS idx_checklist_responses_review ON checklist_responses (review_status) WHERE deleted_at IS NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
