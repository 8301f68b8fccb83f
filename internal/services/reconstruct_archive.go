package services

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Reconstruction is the outcome of one pass over a delivery archive.
type Reconstruction struct {
	Routes       domain.RouteSet
	RouteCount   int
	DroppedLines int
	TrimmedUnits int
	// Codes of routes still above capacity because only single-pallet stops remained.
	OverCapacity []string
}

// ReconstructArchive rebuilds routes from archive lines.
//
// Lines of one route are contiguous and listed last stop first. A change of
// route code closes the open route, normalizes its overflow and files it under
// its vehicle type index. Location demand and vehicle type usage are
// accumulated on the registries' entities, which act as the mutable context of
// the pass.
func ReconstructArchive(
	ctx context.Context,
	lines []domain.DeliveryLine,
	locations *LocationRegistry,
	vehicles *VehicleRegistry,
) (_ *Reconstruction, err error) {
	defer obs.Time(ctx, "archive.Reconstruct")(&err)

	ctx, span := obs.Tracer().Start(ctx, "archive.Reconstruct")
	defer span.End()

	if locations == nil || vehicles == nil {
		return nil, errors.New("reconstruct archive: registries must be non-nil")
	}

	out := &Reconstruction{Routes: domain.RouteSet{}}
	var current *domain.Route

	finalize := func(r *domain.Route) {
		trimmed, fits := r.NormalizeOverflow()
		out.TrimmedUnits += trimmed
		if !fits {
			out.OverCapacity = append(out.OverCapacity, r.Code)
			log.Printf("reconstruct archive: route=%s still over capacity total=%d capacity=%d",
				r.Code, r.TotalDelivered(), r.Capacity())
		}
		typeIdx := r.Vehicle.Type.Index
		out.Routes[typeIdx] = append(out.Routes[typeIdx], r)
		out.RouteCount++
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code := strings.TrimSpace(line.RouteCode)
		if current == nil || code != current.Code {
			if current != nil {
				finalize(current)
			}

			vehicle, err := vehicles.Resolve(line.HorseCode, line.TrailerCode, ParseQuantity(line.CarriedLoad))
			if err != nil {
				return nil, fmt.Errorf("reconstruct archive: line %d route %q: %w", i+1, code, err)
			}
			vehicle.Type.Used++
			current = domain.NewRoute(code, vehicle)
		}

		loc, ok := locations.Resolve(line.LocationCode)
		if !ok {
			out.DroppedLines++
			continue
		}

		demand := ParseQuantity(line.Dry) + ParseQuantity(line.Perishable) + ParseQuantity(line.PickByLine)
		loc.Demand += demand
		current.PrependDelivery(loc, demand)
	}

	if current != nil {
		finalize(current)
	}

	span.SetAttributes(
		attribute.Int("archive.lines", len(lines)),
		attribute.Int("archive.routes", out.RouteCount),
		attribute.Int("archive.dropped_lines", out.DroppedLines),
	)

	return out, nil
}

// Largest quantity accepted from a single archive cell.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

// ParseQuantity reads a numeric archive cell as a whole quantity.
// Blank, non-numeric ("C/S"), negative and out-of-range cells count as zero;
// fractions are truncated.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThan(maxQuantity) {
		log.Printf("parse quantity: value=%q out of range, counted as 0", s)
		return 0
	}
	return int(d.IntPart())
}
