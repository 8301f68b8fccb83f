package repositories

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"archive-route-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the MatrixRepository port.
type SQLMatrixRepository struct{ DB *sql.DB }

func NewSQLMatrixRepository(db *sql.DB) *SQLMatrixRepository {
	return &SQLMatrixRepository{DB: db}
}

// Store labels and both grids. The diagonal is written as the round trip
// through the depot. Any previously stored matrix is replaced.
func (s *SQLMatrixRepository) SaveMatrix(ctx context.Context, labels []string, m *domain.TravelMatrix) (err error) {
	defer obs.Time(ctx, "matrix.repo.SaveMatrix")(&err)

	if s.DB == nil {
		return errors.New("sql matrix repository: DB is nil")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("save matrix: %w", err)
	}
	if len(labels) != m.Size() {
		return fmt.Errorf("save matrix: %d labels for %d locations", len(labels), m.Size())
	}

	out := m.WithDepotRoundTrip()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save matrix: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM travel_matrix;`, `DELETE FROM matrix_labels;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("save matrix: clear tables: %w", err)
		}
	}

	labelStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO matrix_labels (location_idx, label)
	VALUES ($1, $2);
	`)
	if err != nil {
		return fmt.Errorf("save matrix: prepare label insert: %w", err)
	}
	defer labelStmt.Close()

	for i, label := range labels {
		if _, err := labelStmt.ExecContext(ctx, i, label); err != nil {
			return fmt.Errorf("save matrix: insert label %d: %w", i, err)
		}
	}

	cellStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO travel_matrix (origin_idx, destination_idx, distance_km, duration_hours)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin_idx, destination_idx) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_hours = EXCLUDED.duration_hours;
	`)
	if err != nil {
		return fmt.Errorf("save matrix: prepare cell insert: %w", err)
	}
	defer cellStmt.Close()

	for i := range out.Distances {
		for j := range out.Distances[i] {
			if _, err := cellStmt.ExecContext(ctx, i, j, out.Distances[i][j], out.Times[i][j]); err != nil {
				return fmt.Errorf("save matrix: insert cell %d,%d: %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save matrix: commit tx: %w", err)
	}

	return nil
}

// Return the stored matrix. An empty store yields an empty matrix.
func (s *SQLMatrixRepository) LoadMatrix(ctx context.Context) (_ *ports.LabelledMatrix, err error) {
	defer obs.Time(ctx, "matrix.repo.LoadMatrix")(&err)

	if s.DB == nil {
		return nil, errors.New("sql matrix repository: DB is nil")
	}

	labels, err := s.loadLabels(ctx)
	if err != nil {
		return nil, err
	}

	n := len(labels)
	m := domain.NewTravelMatrix(n)

	rows, err := s.DB.QueryContext(ctx, `
	SELECT origin_idx, destination_idx, distance_km, duration_hours
	FROM travel_matrix;
	`)
	if err != nil {
		return nil, fmt.Errorf("load matrix: query travel_matrix table: %w", err)
	}
	defer rows.Close()

	cells := 0
	for rows.Next() {
		var i, j int
		var dist, dur float64
		if err := rows.Scan(&i, &j, &dist, &dur); err != nil {
			return nil, fmt.Errorf("load matrix: scan row: %w", err)
		}
		if i < 0 || i >= n || j < 0 || j >= n {
			return nil, fmt.Errorf("load matrix: cell %d,%d outside %d labels", i, j, n)
		}
		m.Distances[i][j] = dist
		m.Times[i][j] = dur
		cells++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load matrix: row iteration: %w", err)
	}

	if cells != n*n {
		return nil, fmt.Errorf("load matrix: %d cells stored, want %d", cells, n*n)
	}

	return &ports.LabelledMatrix{Labels: labels, Matrix: m}, nil
}

func (s *SQLMatrixRepository) loadLabels(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT location_idx, label
	FROM matrix_labels
	ORDER BY location_idx;
	`)
	if err != nil {
		return nil, fmt.Errorf("load matrix: query matrix_labels table: %w", err)
	}
	defer rows.Close()

	labels := make([]string, 0, 64)
	for rows.Next() {
		var idx int
		var label string
		if err := rows.Scan(&idx, &label); err != nil {
			return nil, fmt.Errorf("load matrix: scan label: %w", err)
		}
		if idx != len(labels) {
			return nil, fmt.Errorf("load matrix: label index %d out of sequence", idx)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load matrix: label iteration: %w", err)
	}

	return labels, nil
}
