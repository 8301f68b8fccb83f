package services

import (
	"archive-route-service/internal/domain"
	"errors"
	"log"
	"strings"
)

// LocationRegistry owns the canonical location list and resolves archive
// store codes to locations through an explicit code index.
type LocationRegistry struct {
	locations []*domain.PhysicalLocation
	byCode    map[string]*domain.PhysicalLocation
}

// NewLocationRegistry indexes the store codes of every location.
// The first location is the depot. When a store code appears on more than one
// location the earliest location keeps it.
func NewLocationRegistry(locations []*domain.PhysicalLocation) (*LocationRegistry, error) {
	if len(locations) == 0 {
		return nil, errors.New("location registry: at least the depot is required")
	}

	byCode := make(map[string]*domain.PhysicalLocation)
	for _, loc := range locations {
		for _, code := range loc.StoreCodes {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			if owner, ok := byCode[code]; ok {
				if owner != loc {
					log.Printf("location registry: store code %q on %q already owned by %q", code, loc.Name, owner.Name)
				}
				continue
			}
			byCode[code] = loc
		}
	}

	return &LocationRegistry{locations: locations, byCode: byCode}, nil
}

// Resolve returns the location serving storeCode, or false when none does.
func (r *LocationRegistry) Resolve(storeCode string) (*domain.PhysicalLocation, bool) {
	loc, ok := r.byCode[strings.TrimSpace(storeCode)]
	return loc, ok
}

func (r *LocationRegistry) Locations() []*domain.PhysicalLocation { return r.locations }

func (r *LocationRegistry) Depot() *domain.PhysicalLocation { return r.locations[0] }

func (r *LocationRegistry) Len() int { return len(r.locations) }

// ResetDemand zeroes every demand accumulator before a new reconstruction pass.
func (r *LocationRegistry) ResetDemand() {
	for _, loc := range r.locations {
		loc.Demand = 0
	}
}
