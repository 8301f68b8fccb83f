package ports

import "context"

// A point on the map as sent to the mapping service.
type MatrixPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// One distance-matrix call: every origin paired with every destination.
type MatrixRequest struct {
	Origins      []MatrixPoint `json:"origins"`
	Destinations []MatrixPoint `json:"destinations"`
	TravelMode   string        `json:"travelMode"`
}

// One origin-destination result. TravelDuration is in minutes.
type MatrixResult struct {
	OriginIndex      int     `json:"originIndex"`
	DestinationIndex int     `json:"destinationIndex"`
	TravelDistance   float64 `json:"travelDistance"`
	TravelDuration   float64 `json:"travelDuration"`
}

type MatrixResource struct {
	Results []MatrixResult `json:"results"`
}

type MatrixResourceSet struct {
	Resources []MatrixResource `json:"resources"`
}

// Mapping-service response. Body holds the raw payload for diagnosis when
// StatusCode is not a success.
type MatrixResponse struct {
	StatusCode   int                 `json:"statusCode"`
	ResourceSets []MatrixResourceSet `json:"resourceSets"`
	Body         string              `json:"-"`
}

// Results flattens every result of every resource in response order.
func (r *MatrixResponse) Results() []MatrixResult {
	var out []MatrixResult
	for _, set := range r.ResourceSets {
		for _, res := range set.Resources {
			out = append(out, res.Results...)
		}
	}
	return out
}

// Contract for an external distance-matrix service.
type MatrixService interface {
	// Return travel distances and durations for every origin/destination pair.
	// A non-success StatusCode is reported in the response, not as an error;
	// errors are reserved for transport and decoding failures.
	FetchMatrix(ctx context.Context, req MatrixRequest) (*MatrixResponse, error)
}
