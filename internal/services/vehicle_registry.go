package services

import (
	"archive-route-service/internal/domain"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	// ErrNoVehicleTypes means vehicle resolution has no type to fall back on.
	ErrNoVehicleTypes = errors.New("no vehicle types registered")
	// ErrInvalidCapacity rejects a vehicle type with a non-positive capacity.
	ErrInvalidCapacity = errors.New("vehicle type capacity must be positive")
)

// A fleet list entry: a vehicle name and its pallet capacity.
type FleetEntry struct {
	Name     string
	Capacity int
}

// VehicleRegistry owns the vehicle types and the named fleet.
type VehicleRegistry struct {
	types  []*domain.VehicleType
	byName map[string]*domain.Vehicle
}

// NewVehicleRegistry maps every fleet entry to the type with exactly its capacity.
// Entries whose capacity matches no type are skipped.
func NewVehicleRegistry(types []*domain.VehicleType, fleet []FleetEntry) (*VehicleRegistry, error) {
	byCapacity := make(map[int]*domain.VehicleType, len(types))
	for _, vt := range types {
		if vt.Capacity <= 0 {
			return nil, fmt.Errorf("vehicle registry: type %q: %w", vt.Name, ErrInvalidCapacity)
		}
		if _, ok := byCapacity[vt.Capacity]; !ok {
			byCapacity[vt.Capacity] = vt
		}
	}

	byName := make(map[string]*domain.Vehicle, len(fleet))
	for _, f := range fleet {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		vt, ok := byCapacity[f.Capacity]
		if !ok {
			log.Printf("vehicle registry: skip vehicle=%q capacity=%d: no matching type", name, f.Capacity)
			continue
		}
		if _, dup := byName[name]; dup {
			continue
		}
		byName[name] = &domain.Vehicle{Name: name, Type: vt, Registered: true}
	}

	return &VehicleRegistry{types: types, byName: byName}, nil
}

func (r *VehicleRegistry) Types() []*domain.VehicleType { return r.types }

// Lookup returns a registered vehicle by exact name.
func (r *VehicleRegistry) Lookup(name string) (*domain.Vehicle, bool) {
	v, ok := r.byName[strings.TrimSpace(name)]
	return v, ok
}

// Resolve identifies the vehicle that drove an archive route.
//
// The horse (primary) code is tried first, then the trailer (secondary) code.
// Failing both, an unregistered vehicle named after the primary code is
// returned, typed by the capacity closest to the carried load.
func (r *VehicleRegistry) Resolve(primaryCode, secondaryCode string, carried int) (*domain.Vehicle, error) {
	if v, ok := r.Lookup(primaryCode); ok {
		return v, nil
	}
	if v, ok := r.Lookup(secondaryCode); ok {
		return v, nil
	}

	vt, err := r.ClosestType(carried)
	if err != nil {
		return nil, fmt.Errorf("resolve vehicle %q: %w", primaryCode, err)
	}

	return &domain.Vehicle{Name: strings.TrimSpace(primaryCode), Type: vt}, nil
}

// ClosestType returns the type minimizing |capacity - carried|; ties go to the
// first registered type.
func (r *VehicleRegistry) ClosestType(carried int) (*domain.VehicleType, error) {
	var best *domain.VehicleType
	bestDiff := 0
	for _, vt := range r.types {
		diff := vt.Capacity - carried
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = vt
			bestDiff = diff
		}
	}

	if best == nil {
		return nil, ErrNoVehicleTypes
	}
	return best, nil
}

// ResetUsage zeroes the per-type usage counters before a new reconstruction pass.
func (r *VehicleRegistry) ResetUsage() {
	for _, vt := range r.types {
		vt.Used = 0
	}
}
