package repositories

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the ArchiveRouteRepository port.
type SQLRouteRepository struct{ DB *sql.DB }

func NewSQLRouteRepository(db *sql.DB) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db}
}

// Replace the stored route set with routes. Every route is stored, also one
// without stops; stops are kept in route order, including stops that delivered nothing.
func (s *SQLRouteRepository) SaveRoutes(ctx context.Context, routes domain.RouteSet) (err error) {
	defer obs.Time(ctx, "routes.repo.SaveRoutes")(&err)

	if s.DB == nil {
		return errors.New("sql route repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save routes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRoutes(ctx, tx, routes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save routes: commit tx: %w", err)
	}

	return nil
}

// saveRoutes replaces the stored route set inside tx.
func saveRoutes(ctx context.Context, tx *sql.Tx, routes domain.RouteSet) error {
	for _, q := range []string{`DELETE FROM archive_stops;`, `DELETE FROM archive_routes;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("save routes: clear tables: %w", err)
		}
	}

	routeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO archive_routes (type_idx, route_no, route_code)
	VALUES ($1, $2, $3);
	`)
	if err != nil {
		return fmt.Errorf("save routes: prepare route insert: %w", err)
	}
	defer routeStmt.Close()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO archive_stops (type_idx, route_no, position, location_idx, delivered)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("save routes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for typeIdx, rs := range routes {
		for routeNo, r := range rs {
			if _, err := routeStmt.ExecContext(ctx, typeIdx, routeNo, r.Code); err != nil {
				return fmt.Errorf("save routes: insert type=%d route=%d: %w", typeIdx, routeNo, err)
			}
			for pos, stop := range r.Record() {
				if _, err := stmt.ExecContext(ctx, typeIdx, routeNo, pos, stop.LocationIndex, stop.Delivered); err != nil {
					return fmt.Errorf("save routes: insert type=%d route=%d stop=%d: %w", typeIdx, routeNo, pos, err)
				}
			}
		}
	}

	return nil
}

// Return the stored routes keyed by vehicle type index. Stops that delivered
// nothing are dropped; the order of the remaining stops is kept.
func (s *SQLRouteRepository) LoadRoutes(ctx context.Context) (_ map[int][]domain.RouteRecord, err error) {
	defer obs.Time(ctx, "routes.repo.LoadRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql route repository: DB is nil")
	}

	query := `
	SELECT
		r.type_idx,
		r.route_no,
		s.location_idx,
		s.delivered
	FROM archive_routes r
	LEFT JOIN archive_stops s
		ON s.type_idx = r.type_idx AND s.route_no = r.route_no
	ORDER BY r.type_idx, r.route_no, s.position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load routes: query archive_routes table: %w", err)
	}
	defer rows.Close()

	out := map[int][]domain.RouteRecord{}
	lastType, lastRoute := -1, -1
	for rows.Next() {
		var typeIdx, routeNo int
		var locIdx, delivered sql.NullInt64
		if err := rows.Scan(&typeIdx, &routeNo, &locIdx, &delivered); err != nil {
			return nil, fmt.Errorf("load routes: scan row: %w", err)
		}

		if typeIdx != lastType || routeNo != lastRoute {
			out[typeIdx] = append(out[typeIdx], domain.RouteRecord{})
			lastType, lastRoute = typeIdx, routeNo
		}

		// A route without stops comes back as one row of NULLs.
		if !locIdx.Valid || delivered.Int64 == 0 {
			continue
		}
		recs := out[typeIdx]
		recs[len(recs)-1] = append(recs[len(recs)-1], domain.StopRecord{
			LocationIndex: int(locIdx.Int64),
			Delivered:     int(delivered.Int64),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load routes: row iteration: %w", err)
	}

	return out, nil
}
