package ports

import (
	"archive-route-service/internal/domain"
	"context"
)

// Port: persistence of reconstructed archive routes.
type ArchiveRouteRepository interface {
	// Replace the stored route set.
	SaveRoutes(ctx context.Context, routes domain.RouteSet) error
	// Return stored routes keyed by vehicle type index, without empty stops.
	LoadRoutes(ctx context.Context) (map[int][]domain.RouteRecord, error)
}
