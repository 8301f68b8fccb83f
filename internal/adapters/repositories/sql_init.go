package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the tables used by the repositories.
// The statements are valid on both Postgres and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS locations (
		location_idx INTEGER PRIMARY KEY,
		label TEXT NOT NULL,
		lat DOUBLE PRECISION,
		lon DOUBLE PRECISION,
		demand INTEGER NOT NULL,
		window_start DOUBLE PRECISION NOT NULL,
		window_end DOUBLE PRECISION NOT NULL,
		offload_hours DOUBLE PRECISION NOT NULL
	);
	`

	createVehicleTypesQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_types (
		type_idx INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		distance_cost DOUBLE PRECISION NOT NULL,
		time_cost DOUBLE PRECISION NOT NULL,
		capacity INTEGER NOT NULL,
		available INTEGER NOT NULL,
		used INTEGER NOT NULL
	);
	`

	createArchiveRoutesQuery := `
	CREATE TABLE IF NOT EXISTS archive_routes (
		type_idx INTEGER NOT NULL,
		route_no INTEGER NOT NULL,
		route_code TEXT NOT NULL,
		PRIMARY KEY (type_idx, route_no)
	);
	`

	createArchiveStopsQuery := `
	CREATE TABLE IF NOT EXISTS archive_stops (
		type_idx INTEGER NOT NULL,
		route_no INTEGER NOT NULL,
		position INTEGER NOT NULL,
		location_idx INTEGER NOT NULL,
		delivered INTEGER NOT NULL,
		PRIMARY KEY (type_idx, route_no, position)
	);
	`

	createMatrixLabelsQuery := `
	CREATE TABLE IF NOT EXISTS matrix_labels (
		location_idx INTEGER PRIMARY KEY,
		label TEXT NOT NULL
	);
	`

	createTravelMatrixQuery := `
	CREATE TABLE IF NOT EXISTS travel_matrix (
		origin_idx INTEGER NOT NULL,
		destination_idx INTEGER NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		duration_hours DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin_idx, destination_idx)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_archive_stops_location
	ON archive_stops(location_idx);
	`

	statements := []string{
		createLocationsQuery,
		createVehicleTypesQuery,
		createArchiveRoutesQuery,
		createArchiveStopsQuery,
		createMatrixLabelsQuery,
		createTravelMatrixQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
