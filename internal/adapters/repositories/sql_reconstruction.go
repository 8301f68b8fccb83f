package repositories

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveReconstruction stores the routes and the input data of one
// reconstruction run in a single transaction: either both replace the
// stored state or nothing changes.
func SaveReconstruction(
	ctx context.Context,
	db *sql.DB,
	routes domain.RouteSet,
	locations []*domain.PhysicalLocation,
	types []*domain.VehicleType,
	anonymise bool,
) (err error) {
	defer obs.Time(ctx, "reconstruction.repo.Save")(&err)

	if db == nil {
		return errors.New("save reconstruction: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save reconstruction: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRoutes(ctx, tx, routes); err != nil {
		return fmt.Errorf("save reconstruction: %w", err)
	}
	if err := saveInputData(ctx, tx, locations, types, anonymise); err != nil {
		return fmt.Errorf("save reconstruction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save reconstruction: commit tx: %w", err)
	}

	return nil
}
