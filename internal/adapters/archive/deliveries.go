package archive

import (
	"archive-route-service/internal/domain"
	"fmt"
	"io"
)

// Column names of the delivery archive export.
const (
	ColLocationCode = "location_code"
	ColRouteCode    = "route_code"
	ColHorseCode    = "horse_code"
	ColTrailerCode  = "trailer_code"
	ColCarried      = "carried"
	ColDry          = "dry"
	ColPerishable   = "perishable"
	ColPickByLine   = "pick_by_line"
)

var deliveryColumns = []string{
	ColLocationCode, ColRouteCode, ColHorseCode, ColTrailerCode,
	ColCarried, ColDry, ColPerishable, ColPickByLine,
}

// ReadDeliveryLines loads archive lines in file order. Reading stops at the
// first row without a location code, like the archive sheet it is exported from.
func ReadDeliveryLines(r io.Reader) ([]domain.DeliveryLine, error) {
	rows, cols, err := readTable(r, deliveryColumns)
	if err != nil {
		return nil, fmt.Errorf("read delivery archive: %w", err)
	}

	lines := make([]domain.DeliveryLine, 0, len(rows))
	for _, rec := range rows {
		loc := cell(rec, cols, ColLocationCode)
		if loc == "" {
			break
		}
		lines = append(lines, domain.DeliveryLine{
			LocationCode: loc,
			RouteCode:    cell(rec, cols, ColRouteCode),
			HorseCode:    cell(rec, cols, ColHorseCode),
			TrailerCode:  cell(rec, cols, ColTrailerCode),
			CarriedLoad:  cell(rec, cols, ColCarried),
			Dry:          cell(rec, cols, ColDry),
			Perishable:   cell(rec, cols, ColPerishable),
			PickByLine:   cell(rec, cols, ColPickByLine),
		})
	}

	return lines, nil
}
