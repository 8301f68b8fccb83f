package export

import (
	"archive-route-service/internal/domain"
	"encoding/json"
	"fmt"
	"io"
)

// Wire shape: {"<vehicleTypeIndex>": [[[locationIndex, delivered], ...], ...]}
type routesFile map[int][][][2]int

// WriteRoutes encodes a route set as nested JSON lists keyed by vehicle type index.
func WriteRoutes(w io.Writer, routes domain.RouteSet) error {
	out := make(routesFile, len(routes))
	for typeIdx, recs := range routes.Records() {
		lists := make([][][2]int, 0, len(recs))
		for _, rec := range recs {
			stops := make([][2]int, 0, len(rec))
			for _, s := range rec {
				stops = append(stops, [2]int{s.LocationIndex, s.Delivered})
			}
			lists = append(lists, stops)
		}
		out[typeIdx] = lists
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write routes: encode json: %w", err)
	}
	return nil
}

// ReadRoutes decodes a route file. Stops that delivered nothing are dropped.
func ReadRoutes(r io.Reader) (map[int][]domain.RouteRecord, error) {
	var in routesFile
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("read routes: parse json: %w", err)
	}

	out := make(map[int][]domain.RouteRecord, len(in))
	for typeIdx, lists := range in {
		recs := make([]domain.RouteRecord, 0, len(lists))
		for _, stops := range lists {
			rec := make(domain.RouteRecord, 0, len(stops))
			for _, s := range stops {
				rec = append(rec, domain.StopRecord{LocationIndex: s[0], Delivered: s[1]})
			}
			recs = append(recs, rec.WithoutEmptyStops())
		}
		out[typeIdx] = recs
	}

	return out, nil
}
