package domain

import (
	"errors"
	"fmt"
)

// Pairwise travel costs between locations, indexed like the location list.
// Distances are in kilometres and times in hours.
type TravelMatrix struct {
	Distances [][]float64
	Times     [][]float64
}

// NewTravelMatrix allocates an n x n matrix of zeros.
func NewTravelMatrix(n int) *TravelMatrix {
	m := &TravelMatrix{
		Distances: make([][]float64, n),
		Times:     make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		m.Distances[i] = make([]float64, n)
		m.Times[i] = make([]float64, n)
	}
	return m
}

// Size of the matrix (number of locations).
func (m *TravelMatrix) Size() int { return len(m.Distances) }

// Validate checks that both grids are square and of the same size.
func (m *TravelMatrix) Validate() error {
	if m == nil {
		return errors.New("travel matrix is nil")
	}
	n := len(m.Distances)
	if len(m.Times) != n {
		return fmt.Errorf("travel matrix: %d distance rows but %d time rows", n, len(m.Times))
	}
	for i := 0; i < n; i++ {
		if len(m.Distances[i]) != n || len(m.Times[i]) != n {
			return fmt.Errorf("travel matrix: row %d is not %d wide", i, n)
		}
	}
	return nil
}

// WithDepotRoundTrip returns a copy whose diagonal holds the cost of travelling
// from each location to the depot and back. A vehicle has to pass through the
// depot between two service events at the same location.
func (m *TravelMatrix) WithDepotRoundTrip() *TravelMatrix {
	return &TravelMatrix{
		Distances: DepotRoundTrip(m.Distances),
		Times:     DepotRoundTrip(m.Times),
	}
}

// DepotRoundTrip copies a square grid and replaces entry (i, i) with g[i][0] + g[0][i].
func DepotRoundTrip(g [][]float64) [][]float64 {
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	for i := range out {
		if len(out[i]) > i && len(g[0]) > i {
			out[i][i] = g[i][0] + g[0][i]
		}
	}
	return out
}
