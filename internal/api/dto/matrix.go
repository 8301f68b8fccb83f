package dto

// Persisted travel matrix. Distances are in kilometres, times in hours.
type MatrixResponse struct {
	Labels    []string    `json:"labels"`
	Distances [][]float64 `json:"distances_km"`
	Times     [][]float64 `json:"times_hours"`
}
