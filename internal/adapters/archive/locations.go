package archive

import (
	"archive-route-service/internal/domain"
	"fmt"
	"io"
	"strconv"
)

var locationColumns = []string{"name", "latitude", "longitude", "offload", "stores"}

// ReadLocations loads the store-location list. The depot is prepended as
// index 0 and every listed location takes the next index.
func ReadLocations(r io.Reader) ([]*domain.PhysicalLocation, error) {
	rows, cols, err := readTable(r, locationColumns)
	if err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}

	locations := []*domain.PhysicalLocation{domain.NewDepot()}
	for i, rec := range rows {
		if blank(rec) {
			continue
		}
		line := i + 2

		name := cell(rec, cols, "name")
		if name == "" {
			return nil, fmt.Errorf("read locations: row %d: name is empty", line)
		}

		lat, err := strconv.ParseFloat(cell(rec, cols, "latitude"), 64)
		if err != nil {
			return nil, fmt.Errorf("read locations: row %d: latitude: %w", line, err)
		}
		lon, err := strconv.ParseFloat(cell(rec, cols, "longitude"), 64)
		if err != nil {
			return nil, fmt.Errorf("read locations: row %d: longitude: %w", line, err)
		}

		// Offload may already be a number of hours or the raw schedule text.
		raw := cell(rec, cols, "offload")
		offload, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			offload, err = domain.ParseOffloadHours(raw)
			if err != nil {
				return nil, fmt.Errorf("read locations: row %d: %w", line, err)
			}
		}

		locations = append(locations, &domain.PhysicalLocation{
			Index:        len(locations),
			Name:         name,
			Coordinates:  domain.Coordinates{Lat: lat, Lon: lon},
			OffloadHours: offload,
			StoreCodes:   domain.ParseStoreCodes(cell(rec, cols, "stores")),
		})
	}

	return locations, nil
}
