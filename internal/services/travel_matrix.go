package services

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"archive-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	// Origin-destination pairs the mapping service accepts in one request.
	DefaultMaxPairs   = 2500
	DefaultTravelMode = "driving"
)

var (
	// ErrBatchTooLarge means a single origin row already exceeds the pairing limit.
	ErrBatchTooLarge = errors.New("too many locations for the pairing limit")
	ErrNoLocations   = errors.New("no locations to build a matrix for")
)

// MatrixStatusError reports a non-success response from the mapping service.
type MatrixStatusError struct {
	Batch int
	Code  int
	Body  string
}

func (e *MatrixStatusError) Error() string {
	return fmt.Sprintf("matrix batch %d: status %d: %s", e.Batch, e.Code, e.Body)
}

// MatrixOrderError reports a response whose results are not in
// origin-major, destination-minor order.
type MatrixOrderError struct {
	Batch    int
	Position int
	Want     int
	Got      int
}

func (e *MatrixOrderError) Error() string {
	if e.Got < 0 {
		return fmt.Sprintf("matrix batch %d: expected %d results, got %d", e.Batch, e.Want, e.Position)
	}
	return fmt.Sprintf("matrix batch %d: result %d has destination index %d, want %d",
		e.Batch, e.Position, e.Got, e.Want)
}

// A consecutive range of origin indices [Start, End) requested together.
type Batch struct {
	Start int
	End   int
}

func (b Batch) Rows() int { return b.End - b.Start }

// PartitionBatches splits n origins into batches of maxPairs/n rows each, so
// that every batch paired with all n destinations stays within maxPairs.
func PartitionBatches(n, maxPairs int) ([]Batch, error) {
	if n <= 0 {
		return nil, ErrNoLocations
	}

	rowsPerBatch := maxPairs / n
	if rowsPerBatch <= 0 {
		return nil, fmt.Errorf("partition %d locations under %d pairs: %w", n, maxPairs, ErrBatchTooLarge)
	}

	batches := make([]Batch, 0, (n+rowsPerBatch-1)/rowsPerBatch)
	for start := 0; start < n; start += rowsPerBatch {
		end := start + rowsPerBatch
		if end > n {
			end = n
		}
		batches = append(batches, Batch{Start: start, End: end})
	}

	return batches, nil
}

// TravelMatrixBuilder assembles full distance/time matrices from a
// distance-matrix service that limits the pairs per request.
type TravelMatrixBuilder struct {
	service     ports.MatrixService
	maxPairs    int
	travelMode  string
	concurrency int
	metrics     *obs.Metrics
}

type MatrixOption func(*TravelMatrixBuilder)

func WithMaxPairs(n int) MatrixOption { return func(b *TravelMatrixBuilder) { b.maxPairs = n } }

func WithTravelMode(mode string) MatrixOption {
	return func(b *TravelMatrixBuilder) {
		if mode != "" {
			b.travelMode = mode
		}
	}
}

// WithConcurrency lets up to n batches be in flight. Each batch is still
// validated on its own and the error of the lowest failing batch wins.
func WithConcurrency(n int) MatrixOption {
	return func(b *TravelMatrixBuilder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func WithMetrics(m *obs.Metrics) MatrixOption { return func(b *TravelMatrixBuilder) { b.metrics = m } }

func NewTravelMatrixBuilder(service ports.MatrixService, opts ...MatrixOption) (*TravelMatrixBuilder, error) {
	if service == nil {
		return nil, errors.New("travel matrix builder: service is nil")
	}

	b := &TravelMatrixBuilder{
		service:     service,
		maxPairs:    DefaultMaxPairs,
		travelMode:  DefaultTravelMode,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Build requests every batch and concatenates the rows into n x n matrices
// indexed like locations. Any failed batch aborts the whole build.
func (b *TravelMatrixBuilder) Build(
	ctx context.Context,
	locations []*domain.PhysicalLocation,
) (_ *domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)

	n := len(locations)
	batches, err := PartitionBatches(n, b.maxPairs)
	if err != nil {
		return nil, fmt.Errorf("build travel matrix: %w", err)
	}

	points := make([]ports.MatrixPoint, n)
	for i, loc := range locations {
		points[i] = ports.MatrixPoint{Latitude: loc.Coordinates.Lat, Longitude: loc.Coordinates.Lon}
	}

	m := domain.NewTravelMatrix(n)

	if b.concurrency <= 1 {
		for bi, batch := range batches {
			if err := b.fetchBatch(ctx, bi, batch, points, m); err != nil {
				return nil, fmt.Errorf("build travel matrix: %w", err)
			}
		}
		return m, nil
	}

	// Batches write disjoint rows of m, so they can run side by side.
	errs := make([]error, len(batches))
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for bi, batch := range batches {
		g.Go(func() error {
			errs[bi] = b.fetchBatch(ctx, bi, batch, points, m)
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range errs {
		if e != nil {
			return nil, fmt.Errorf("build travel matrix: %w", e)
		}
	}

	return m, nil
}

// fetchBatch requests one batch and fills rows [batch.Start, batch.End) of m.
func (b *TravelMatrixBuilder) fetchBatch(
	ctx context.Context,
	index int,
	batch Batch,
	points []ports.MatrixPoint,
	m *domain.TravelMatrix,
) error {
	ctx, span := obs.Tracer().Start(ctx, "matrix.Batch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("matrix.batch", index),
		attribute.Int("matrix.origin_start", batch.Start),
		attribute.Int("matrix.origin_end", batch.End),
	)

	start := time.Now()
	resp, err := b.service.FetchMatrix(ctx, ports.MatrixRequest{
		Origins:      points[batch.Start:batch.End],
		Destinations: points,
		TravelMode:   b.travelMode,
	})
	if err != nil {
		return fmt.Errorf("matrix batch %d: %w", index, err)
	}
	b.metrics.ObserveMatrixBatch(resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return &MatrixStatusError{Batch: index, Code: resp.StatusCode, Body: resp.Body}
	}

	n := len(points)
	results := resp.Results()
	want := batch.Rows() * n

	for k, res := range results {
		if k >= want {
			return &MatrixOrderError{Batch: index, Position: len(results), Want: want, Got: -1}
		}
		expected := k % n
		if res.DestinationIndex != expected {
			return &MatrixOrderError{Batch: index, Position: k, Want: expected, Got: res.DestinationIndex}
		}

		row := batch.Start + k/n
		m.Distances[row][expected] = res.TravelDistance
		m.Times[row][expected] = res.TravelDuration / 60
	}
	if len(results) != want {
		return &MatrixOrderError{Batch: index, Position: len(results), Want: want, Got: -1}
	}

	return nil
}
