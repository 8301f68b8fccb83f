package services

import (
	"archive-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func vehicleTypes(capacities ...int) []*domain.VehicleType {
	types := make([]*domain.VehicleType, 0, len(capacities))
	for i, c := range capacities {
		types = append(types, &domain.VehicleType{Index: i, Name: "type", Capacity: c, Available: 2})
	}
	return types
}

func TestResolveVehicleFallsBackToClosestCapacity(t *testing.T) {
	types := vehicleTypes(10, 20, 30)
	reg, err := NewVehicleRegistry(types, nil)
	require.NoError(t, err)

	v, err := reg.Resolve("HORSE1", "TRAIL1", 18)
	require.NoError(t, err)
	require.Equal(t, "HORSE1", v.Name)
	require.False(t, v.Registered)
	require.Same(t, types[1], v.Type)

	_, ok := reg.Lookup("HORSE1")
	require.False(t, ok, "synthesized vehicles are not registered")
}

func TestResolveVehicleTieGoesToFirstType(t *testing.T) {
	types := vehicleTypes(10, 20)
	reg, err := NewVehicleRegistry(types, nil)
	require.NoError(t, err)

	v, err := reg.Resolve("X", "", 15)
	require.NoError(t, err)
	require.Same(t, types[0], v.Type)
}

func TestResolveVehiclePrefersPrimaryThenSecondary(t *testing.T) {
	types := vehicleTypes(22, 30)
	reg, err := NewVehicleRegistry(types, []FleetEntry{
		{Name: "SP1", Capacity: 30},
		{Name: "TR9", Capacity: 22},
		{Name: "ODD", Capacity: 17},
	})
	require.NoError(t, err)

	v, err := reg.Resolve("SP1", "TR9", 0)
	require.NoError(t, err)
	require.Equal(t, "SP1", v.Name)
	require.True(t, v.Registered)
	require.Same(t, types[1], v.Type)

	v, err = reg.Resolve("UNKNOWN", "TR9", 30)
	require.NoError(t, err)
	require.Equal(t, "TR9", v.Name)
	require.Same(t, types[0], v.Type)

	_, ok := reg.Lookup("ODD")
	require.False(t, ok, "fleet entries without a matching capacity are skipped")
}

func TestResolveVehicleWithoutTypesFails(t *testing.T) {
	reg, err := NewVehicleRegistry(nil, nil)
	require.NoError(t, err)

	_, err = reg.Resolve("A", "B", 10)
	require.ErrorIs(t, err, ErrNoVehicleTypes)
}

func TestNewVehicleRegistryRejectsZeroCapacity(t *testing.T) {
	_, err := NewVehicleRegistry(vehicleTypes(10, 0), nil)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestVehicleRegistryResetUsage(t *testing.T) {
	types := vehicleTypes(10, 20)
	types[0].Used, types[1].Used = 3, 1
	reg, err := NewVehicleRegistry(types, nil)
	require.NoError(t, err)

	reg.ResetUsage()
	for _, vt := range reg.Types() {
		require.Zero(t, vt.Used)
	}
}
