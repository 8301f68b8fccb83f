package distance

import (
	"archive-route-service/internal/ports"
	"context"
	"errors"
	"math"
	"net/http"
)

const earthRadiusKM = 6371.0088

// HaversineMatrixService estimates travel costs offline from great-circle
// distances, scaled by a road factor and driven at a constant speed.
type HaversineMatrixService struct {
	SpeedKMH   float64
	RoadFactor float64
}

func NewHaversineMatrixService(speedKMH, roadFactor float64) (*HaversineMatrixService, error) {
	if speedKMH <= 0 {
		return nil, errors.New("haversine matrix: speed must be positive")
	}
	if roadFactor <= 0 {
		roadFactor = 1
	}
	return &HaversineMatrixService{SpeedKMH: speedKMH, RoadFactor: roadFactor}, nil
}

func (h *HaversineMatrixService) FetchMatrix(ctx context.Context, req ports.MatrixRequest) (*ports.MatrixResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]ports.MatrixResult, 0, len(req.Origins)*len(req.Destinations))
	for oi, o := range req.Origins {
		for di, d := range req.Destinations {
			km := Haversine(o.Latitude, o.Longitude, d.Latitude, d.Longitude) * h.RoadFactor
			results = append(results, ports.MatrixResult{
				OriginIndex:      oi,
				DestinationIndex: di,
				TravelDistance:   km,
				TravelDuration:   km / h.SpeedKMH * 60,
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

// Haversine returns the great-circle distance in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}
