package distance

import (
	"archive-route-service/internal/ports"
	"context"
	"fmt"
	"net/http"
	"sync"
)

// StaticMatrixService answers matrix requests from a fixed full matrix.
// Points are matched by exact coordinates. Every request is recorded.
type StaticMatrixService struct {
	mu        sync.Mutex
	index     map[ports.MatrixPoint]int
	distances [][]float64
	minutes   [][]float64
	requests  []ports.MatrixRequest
}

// NewStaticMatrixService takes distances in km and durations in minutes,
// indexed like points.
func NewStaticMatrixService(points []ports.MatrixPoint, distances, minutes [][]float64) *StaticMatrixService {
	index := make(map[ports.MatrixPoint]int, len(points))
	for i, p := range points {
		index[p] = i
	}
	return &StaticMatrixService{index: index, distances: distances, minutes: minutes}
}

func (s *StaticMatrixService) FetchMatrix(ctx context.Context, req ports.MatrixRequest) (*ports.MatrixResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	results := make([]ports.MatrixResult, 0, len(req.Origins)*len(req.Destinations))
	for oi, o := range req.Origins {
		from, ok := s.index[o]
		if !ok {
			return nil, fmt.Errorf("static matrix: unknown origin %+v", o)
		}
		for di, d := range req.Destinations {
			to, ok := s.index[d]
			if !ok {
				return nil, fmt.Errorf("static matrix: unknown destination %+v", d)
			}
			results = append(results, ports.MatrixResult{
				OriginIndex:      oi,
				DestinationIndex: di,
				TravelDistance:   s.distances[from][to],
				TravelDuration:   s.minutes[from][to],
			})
		}
	}

	return &ports.MatrixResponse{
		StatusCode: http.StatusOK,
		ResourceSets: []ports.MatrixResourceSet{
			{Resources: []ports.MatrixResource{{Results: results}}},
		},
	}, nil
}

// Requests returns a copy of the requests received so far.
func (s *StaticMatrixService) Requests() []ports.MatrixRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.MatrixRequest(nil), s.requests...)
}
