package repositories

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Service window written for every location, in hours of the day.
const (
	WindowStartHours = 0.0
	WindowEndHours   = 24.0
)

// SQL-backed implementation of the InputDataRepository port.
type SQLInputDataRepository struct{ DB *sql.DB }

func NewSQLInputDataRepository(db *sql.DB) *SQLInputDataRepository {
	return &SQLInputDataRepository{DB: db}
}

// Replace the stored locations and vehicle types: locations with their
// reconstructed demand, vehicle types with their usage counts. Anonymised
// locations are stored under their anonymous name and without coordinates.
func (s *SQLInputDataRepository) SaveInputData(
	ctx context.Context,
	locations []*domain.PhysicalLocation,
	types []*domain.VehicleType,
	anonymise bool,
) (err error) {
	defer obs.Time(ctx, "input.repo.SaveInputData")(&err)

	if s.DB == nil {
		return errors.New("sql input repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save input data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveInputData(ctx, tx, locations, types, anonymise); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save input data: commit tx: %w", err)
	}

	return nil
}

// saveInputData replaces the stored locations and vehicle types inside tx.
func saveInputData(
	ctx context.Context,
	tx *sql.Tx,
	locations []*domain.PhysicalLocation,
	types []*domain.VehicleType,
	anonymise bool,
) error {
	for _, q := range []string{`DELETE FROM locations;`, `DELETE FROM vehicle_types;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("save input data: clear tables: %w", err)
		}
	}

	locStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (location_idx, label, lat, lon, demand, window_start, window_end, offload_hours)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (location_idx) DO UPDATE
	SET label = EXCLUDED.label,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		demand = EXCLUDED.demand,
		window_start = EXCLUDED.window_start,
		window_end = EXCLUDED.window_end,
		offload_hours = EXCLUDED.offload_hours;
	`)
	if err != nil {
		return fmt.Errorf("save input data: prepare location upsert: %w", err)
	}
	defer locStmt.Close()

	for _, loc := range locations {
		label := loc.Name
		lat := sql.NullFloat64{Float64: loc.Coordinates.Lat, Valid: true}
		lon := sql.NullFloat64{Float64: loc.Coordinates.Lon, Valid: true}
		if anonymise {
			label = loc.AnonymousName()
			lat, lon = sql.NullFloat64{}, sql.NullFloat64{}
		}

		if _, err := locStmt.ExecContext(ctx,
			loc.Index, label, lat, lon, loc.Demand,
			WindowStartHours, WindowEndHours, loc.OffloadHours,
		); err != nil {
			return fmt.Errorf("save input data: upsert location %d: %w", loc.Index, err)
		}
	}

	typeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_types (type_idx, name, distance_cost, time_cost, capacity, available, used)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (type_idx) DO UPDATE
	SET name = EXCLUDED.name,
		distance_cost = EXCLUDED.distance_cost,
		time_cost = EXCLUDED.time_cost,
		capacity = EXCLUDED.capacity,
		available = EXCLUDED.available,
		used = EXCLUDED.used;
	`)
	if err != nil {
		return fmt.Errorf("save input data: prepare vehicle type upsert: %w", err)
	}
	defer typeStmt.Close()

	for _, vt := range types {
		if _, err := typeStmt.ExecContext(ctx,
			vt.Index, vt.Name, vt.DistanceCost, vt.TimeCost, vt.Capacity, vt.Available, vt.Used,
		); err != nil {
			return fmt.Errorf("save input data: upsert vehicle type %d: %w", vt.Index, err)
		}
	}

	return nil
}

// StoredLocation is a row of the locations table.
type StoredLocation struct {
	Index        int
	Label        string
	Lat, Lon     sql.NullFloat64
	Demand       int
	OffloadHours float64
}

// Return stored locations ordered by index.
func (s *SQLInputDataRepository) ListLocations(ctx context.Context) ([]StoredLocation, error) {
	if s.DB == nil {
		return nil, errors.New("sql input repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT location_idx, label, lat, lon, demand, offload_hours
	FROM locations
	ORDER BY location_idx;
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	out := make([]StoredLocation, 0, 64)
	for rows.Next() {
		var l StoredLocation
		if err := rows.Scan(&l.Index, &l.Label, &l.Lat, &l.Lon, &l.Demand, &l.OffloadHours); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return out, nil
}

// Return the stored usage count per vehicle type index.
func (s *SQLInputDataRepository) VehicleTypeUsage(ctx context.Context) (map[int]int, error) {
	if s.DB == nil {
		return nil, errors.New("sql input repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT type_idx, used FROM vehicle_types;`)
	if err != nil {
		return nil, fmt.Errorf("vehicle type usage: query vehicle_types table: %w", err)
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var idx, used int
		if err := rows.Scan(&idx, &used); err != nil {
			return nil, fmt.Errorf("vehicle type usage: scan row: %w", err)
		}
		out[idx] = used
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicle type usage: row iteration: %w", err)
	}

	return out, nil
}
