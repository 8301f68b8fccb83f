package archive

import (
	"archive-route-service/internal/domain"
	"archive-route-service/internal/services"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type fleetFile struct {
	VehicleTypes []vehicleTypeSeed `yaml:"vehicle_types"`
	Vehicles     []vehicleSeed     `yaml:"vehicles"`
}

type vehicleTypeSeed struct {
	Name         string  `yaml:"name"`
	DistanceCost float64 `yaml:"distance_cost"`
	TimeCost     float64 `yaml:"time_cost"`
	Capacity     int     `yaml:"capacity"`
	Available    int     `yaml:"available"`
}

type vehicleSeed struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// ReadFleet loads vehicle types (indexed in file order) and the named fleet.
func ReadFleet(r io.Reader) ([]*domain.VehicleType, []services.FleetEntry, error) {
	var f fleetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read fleet: parse yaml: %w", err)
	}

	if len(f.VehicleTypes) == 0 {
		return nil, nil, errors.New("read fleet: at least one vehicle type is required")
	}

	types := make([]*domain.VehicleType, 0, len(f.VehicleTypes))
	for i, t := range f.VehicleTypes {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("read fleet: vehicle type #%d: name is empty", i+1)
		}
		if t.Capacity <= 0 {
			return nil, nil, fmt.Errorf("read fleet: vehicle type %q: %w", name, services.ErrInvalidCapacity)
		}
		types = append(types, &domain.VehicleType{
			Index:        i,
			Name:         name,
			DistanceCost: t.DistanceCost,
			TimeCost:     t.TimeCost,
			Capacity:     t.Capacity,
			Available:    t.Available,
		})
	}

	fleet := make([]services.FleetEntry, 0, len(f.Vehicles))
	for _, v := range f.Vehicles {
		fleet = append(fleet, services.FleetEntry{Name: strings.TrimSpace(v.Name), Capacity: v.Capacity})
	}

	return types, fleet, nil
}
