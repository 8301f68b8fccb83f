package services

import (
	"archive-route-service/internal/domain"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type fixture struct {
	locations *LocationRegistry
	vehicles  *VehicleRegistry
	locs      []*domain.PhysicalLocation
	types     []*domain.VehicleType
}

func newFixture(t require.TestingT, capacities ...int) fixture {
	locs := []*domain.PhysicalLocation{
		domain.NewDepot(),
		{Index: 1, Name: "Aurora", StoreCodes: []string{"100", "101"}},
		{Index: 2, Name: "Bay", StoreCodes: []string{"200"}},
		{Index: 3, Name: "Cove", StoreCodes: []string{"300"}},
	}
	locReg, err := NewLocationRegistry(locs)
	require.NoError(t, err)

	types := vehicleTypes(capacities...)
	vehReg, err := NewVehicleRegistry(types, []FleetEntry{{Name: "SP1", Capacity: capacities[0]}})
	require.NoError(t, err)

	return fixture{locations: locReg, vehicles: vehReg, locs: locs, types: types}
}

func line(route, store, dry, perish, pbl string) domain.DeliveryLine {
	return domain.DeliveryLine{
		LocationCode: store,
		RouteCode:    route,
		HorseCode:    "SP1",
		Dry:          dry,
		Perishable:   perish,
		PickByLine:   pbl,
	}
}

func TestReconstructArchiveOrdersAndMergesStops(t *testing.T) {
	f := newFixture(t, 30)

	// Route R1 listed last stop first: Cove, Bay twice, then Aurora under two of its store codes.
	lines := []domain.DeliveryLine{
		line("R1", "300", "2", "", ""),
		line("R1", "200", "3", "1", ""),
		line("R1", "200", "1", "", "2"),
		line("R1", "101", "4", "C/S", ""),
		line("R1", "100", "", "", "1"),
	}

	res, err := ReconstructArchive(context.Background(), lines, f.locations, f.vehicles)
	require.NoError(t, err)
	require.Equal(t, 1, res.RouteCount)
	require.Len(t, res.Routes[0], 1)

	r := res.Routes[0][0]
	require.Equal(t, "R1", r.Code)
	require.Len(t, r.Stops, 3)
	require.Same(t, f.locs[1], r.Stops[0].Location)
	require.Equal(t, 5, r.Stops[0].Delivered)
	require.Same(t, f.locs[2], r.Stops[1].Location)
	require.Equal(t, 7, r.Stops[1].Delivered)
	require.Same(t, f.locs[3], r.Stops[2].Location)
	require.Equal(t, 2, r.Stops[2].Delivered)

	require.Equal(t, 5, f.locs[1].Demand)
	require.Equal(t, 7, f.locs[2].Demand)
	require.Equal(t, 2, f.locs[3].Demand)
	require.Equal(t, 1, f.types[0].Used)
}

func TestReconstructArchiveSplitsRoutesAndCountsUsage(t *testing.T) {
	f := newFixture(t, 30, 10)

	unknown := line("R2", "200", "4", "", "")
	unknown.HorseCode = "HX"
	unknown.CarriedLoad = "9.0"

	lines := []domain.DeliveryLine{
		line("R1", "200", "3", "", ""),
		line("R1", "999", "8", "", ""),
		line("R1", "100", "2", "", ""),
		unknown,
		line("R3", "300", "1", "", ""),
	}

	res, err := ReconstructArchive(context.Background(), lines, f.locations, f.vehicles)
	require.NoError(t, err)

	require.Equal(t, 3, res.RouteCount)
	require.Equal(t, 1, res.DroppedLines)
	require.Len(t, res.Routes[0], 2)
	require.Len(t, res.Routes[1], 1)
	require.Equal(t, "R1", res.Routes[0][0].Code)
	require.Equal(t, "R3", res.Routes[0][1].Code)

	r2 := res.Routes[1][0]
	require.Equal(t, "HX", r2.Vehicle.Name)
	require.False(t, r2.Vehicle.Registered)

	require.Equal(t, 2, f.types[0].Used)
	require.Equal(t, 1, f.types[1].Used)
	require.Equal(t, 0, f.locs[0].Demand, "dropped line adds no demand")
}

func TestReconstructArchiveNormalizesOverflow(t *testing.T) {
	f := newFixture(t, 30)

	lines := []domain.DeliveryLine{
		line("R1", "300", "11", "", ""),
		line("R1", "200", "11", "", ""),
		line("R1", "100", "11", "", ""),
	}

	res, err := ReconstructArchive(context.Background(), lines, f.locations, f.vehicles)
	require.NoError(t, err)
	require.Equal(t, 3, res.TrimmedUnits)
	require.Empty(t, res.OverCapacity)

	r := res.Routes[0][0]
	require.Equal(t, 30, r.TotalDelivered())
	for _, s := range r.Stops {
		require.Equal(t, 10, s.Delivered)
		require.Equal(t, 10, s.Location.Demand)
	}
}

func TestReconstructArchiveWithoutVehicleTypesFails(t *testing.T) {
	locs, err := NewLocationRegistry([]*domain.PhysicalLocation{domain.NewDepot()})
	require.NoError(t, err)
	vehicles, err := NewVehicleRegistry(nil, nil)
	require.NoError(t, err)

	_, err = ReconstructArchive(context.Background(), []domain.DeliveryLine{line("R1", "1", "1", "", "")}, locs, vehicles)
	require.ErrorIs(t, err, ErrNoVehicleTypes)
}

func TestReconstructArchiveEmptyInput(t *testing.T) {
	f := newFixture(t, 30)

	res, err := ReconstructArchive(context.Background(), nil, f.locations, f.vehicles)
	require.NoError(t, err)
	require.Zero(t, res.RouteCount)
	require.Empty(t, res.Routes)
}

func TestReconstructArchiveIgnoresNegativeQuantities(t *testing.T) {
	f := newFixture(t, 30)

	lines := []domain.DeliveryLine{
		line("R1", "200", "-4", "", ""),
		line("R1", "100", "3", "", ""),
	}

	res, err := ReconstructArchive(context.Background(), lines, f.locations, f.vehicles)
	require.NoError(t, err)

	r := res.Routes[0][0]
	for _, s := range r.Stops {
		require.GreaterOrEqual(t, s.Delivered, 0)
	}
	require.Equal(t, 0, f.locs[2].Demand)
	require.Equal(t, 3, f.locs[1].Demand)
}

func TestReconstructArchiveInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(rt, 8, 12)
		stores := []string{"100", "101", "200", "300", "404"}

		n := rapid.IntRange(1, 40).Draw(rt, "lines")
		lines := make([]domain.DeliveryLine, 0, n)
		read := map[*domain.PhysicalLocation]int{}
		route := 0
		for i := 0; i < n; i++ {
			if rapid.IntRange(0, 3).Draw(rt, "newRoute") == 0 {
				route++
			}
			store := rapid.SampledFrom(stores).Draw(rt, "store")
			qty := rapid.IntRange(1, 9).Draw(rt, "qty")
			l := line("R"+strconv.Itoa(route), store, strconv.Itoa(qty), "", "")
			l.HorseCode = "H" + strconv.Itoa(route)
			l.CarriedLoad = strconv.Itoa(rapid.IntRange(0, 20).Draw(rt, "carried"))
			lines = append(lines, l)
			if loc, ok := f.locations.Resolve(store); ok {
				read[loc] += qty
			}
		}

		res, err := ReconstructArchive(context.Background(), lines, f.locations, f.vehicles)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}

		delivered := map[*domain.PhysicalLocation]int{}
		for _, routes := range res.Routes {
			for _, r := range routes {
				if r.TotalDelivered() > r.Capacity() && !contains(res.OverCapacity, r.Code) {
					rt.Fatalf("route %s total %d over capacity %d", r.Code, r.TotalDelivered(), r.Capacity())
				}
				for i, s := range r.Stops {
					if s.Delivered < 1 {
						rt.Fatalf("route %s stop %d delivered %d", r.Code, i, s.Delivered)
					}
					if i > 0 && r.Stops[i-1].Location == s.Location {
						rt.Fatalf("route %s has unmerged consecutive stops at %d", r.Code, i)
					}
					delivered[s.Location] += s.Delivered
				}
			}
		}

		trimmed := 0
		for loc, total := range read {
			if loc.Demand != delivered[loc] {
				rt.Fatalf("%s demand %d, delivered %d", loc.Name, loc.Demand, delivered[loc])
			}
			trimmed += total - loc.Demand
		}
		if trimmed != res.TrimmedUnits {
			rt.Fatalf("trimmed %d, reported %d", trimmed, res.TrimmedUnits)
		}
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"":           0,
		" 7 ":        7,
		"C/S":        0,
		"12.0":       12,
		"3.9":        3,
		"-2":         0,
		"-0.5":       0,
		"1e30":       0,
		"2147483647": 2147483647,
		"abc12":      0,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseQuantity(in), "ParseQuantity(%q)", in)
	}
}
