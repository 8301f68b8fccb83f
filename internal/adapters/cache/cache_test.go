package cache

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/ports"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingMatrixRepo struct {
	loads int
	saved *ports.LabelledMatrix
	err   error
}

func (c *countingMatrixRepo) SaveMatrix(_ context.Context, labels []string, m *domain.TravelMatrix) error {
	c.saved = &ports.LabelledMatrix{Labels: labels, Matrix: m}
	return nil
}

func (c *countingMatrixRepo) LoadMatrix(context.Context) (*ports.LabelledMatrix, error) {
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	return c.saved, nil
}

type countingRoutesRepo struct {
	loads  int
	routes map[int][]domain.RouteRecord
}

func (c *countingRoutesRepo) SaveRoutes(_ context.Context, routes domain.RouteSet) error {
	c.routes = routes.Records()
	return nil
}

func (c *countingRoutesRepo) LoadRoutes(context.Context) (map[int][]domain.RouteRecord, error) {
	c.loads++
	return c.routes, nil
}

func TestMatrixReadThroughServesFromCache(t *testing.T) {
	ctx := context.Background()
	repo := &countingMatrixRepo{}
	c := NewMatrixReadThrough(repo, time.Minute)

	require.NoError(t, c.SaveMatrix(ctx, []string{"Depot"}, domain.NewTravelMatrix(1)))

	for i := 0; i < 3; i++ {
		got, err := c.LoadMatrix(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Depot"}, got.Labels)
	}
	require.Equal(t, 1, repo.loads)

	require.NoError(t, c.SaveMatrix(ctx, []string{"Depot", "A"}, domain.NewTravelMatrix(2)))
	got, err := c.LoadMatrix(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Depot", "A"}, got.Labels)
	require.Equal(t, 2, repo.loads)
}

func TestMatrixReadThroughDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	repo := &countingMatrixRepo{err: errors.New("db down")}
	c := NewMatrixReadThrough(repo, time.Minute)

	_, err := c.LoadMatrix(ctx)
	require.Error(t, err)

	repo.err = nil
	repo.saved = &ports.LabelledMatrix{Labels: []string{"Depot"}, Matrix: domain.NewTravelMatrix(1)}
	got, err := c.LoadMatrix(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Depot"}, got.Labels)
	require.Equal(t, 2, repo.loads)
}

func TestRoutesReadThroughInvalidatesOnSave(t *testing.T) {
	ctx := context.Background()
	repo := &countingRoutesRepo{}
	c := NewRoutesReadThrough(repo, 0)

	got, err := c.LoadRoutes(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = c.LoadRoutes(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.loads)

	loc := &domain.PhysicalLocation{Index: 4}
	vt := &domain.VehicleType{Index: 1, Capacity: 10}
	routes := domain.RouteSet{1: {{Vehicle: &domain.Vehicle{Type: vt}, Stops: []domain.Stop{{Location: loc, Delivered: 2}}}}}
	require.NoError(t, c.SaveRoutes(ctx, routes))

	got, err = c.LoadRoutes(ctx)
	require.NoError(t, err)
	require.Equal(t, map[int][]domain.RouteRecord{1: {{{LocationIndex: 4, Delivered: 2}}}}, got)
	require.Equal(t, 2, repo.loads)
}
