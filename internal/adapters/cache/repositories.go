package cache

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/ports"
	"context"
	"time"
)

const (
	matrixKey = "matrix"
	routesKey = "routes"
)

// MatrixReadThrough caches LoadMatrix results of the wrapped repository.
// SaveMatrix writes through and drops the cached value.
type MatrixReadThrough struct {
	repo  ports.MatrixRepository
	cache *readThrough[*ports.LabelledMatrix]
}

func NewMatrixReadThrough(repo ports.MatrixRepository, ttl time.Duration) *MatrixReadThrough {
	return &MatrixReadThrough{
		repo:  repo,
		cache: newReadThrough("matrix", ttl, repo.LoadMatrix),
	}
}

func (m *MatrixReadThrough) SaveMatrix(ctx context.Context, labels []string, tm *domain.TravelMatrix) error {
	defer m.cache.invalidate(matrixKey)
	return m.repo.SaveMatrix(ctx, labels, tm)
}

func (m *MatrixReadThrough) LoadMatrix(ctx context.Context) (*ports.LabelledMatrix, error) {
	return m.cache.get(ctx, matrixKey)
}

// RoutesReadThrough caches LoadRoutes results of the wrapped repository.
// SaveRoutes writes through and drops the cached value.
type RoutesReadThrough struct {
	repo  ports.ArchiveRouteRepository
	cache *readThrough[map[int][]domain.RouteRecord]
}

func NewRoutesReadThrough(repo ports.ArchiveRouteRepository, ttl time.Duration) *RoutesReadThrough {
	return &RoutesReadThrough{
		repo:  repo,
		cache: newReadThrough("routes", ttl, repo.LoadRoutes),
	}
}

func (r *RoutesReadThrough) SaveRoutes(ctx context.Context, routes domain.RouteSet) error {
	defer r.cache.invalidate(routesKey)
	return r.repo.SaveRoutes(ctx, routes)
}

func (r *RoutesReadThrough) LoadRoutes(ctx context.Context) (map[int][]domain.RouteRecord, error) {
	return r.cache.get(ctx, routesKey)
}
