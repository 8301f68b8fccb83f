package domain

import "testing"

func TestWithDepotRoundTrip(t *testing.T) {
	m := &TravelMatrix{
		Distances: [][]float64{
			{0, 10, 20},
			{11, 0, 5},
			{21, 6, 0},
		},
		Times: [][]float64{
			{0, 1, 2},
			{1.5, 0, 0.5},
			{2.5, 0.25, 0},
		},
	}

	got := m.WithDepotRoundTrip()

	if got.Distances[1][1] != 21 || got.Distances[2][2] != 41 || got.Distances[0][0] != 0 {
		t.Fatalf("unexpected distance diagonal: %v", got.Distances)
	}
	if got.Times[1][1] != 2.5 || got.Times[2][2] != 4.5 {
		t.Fatalf("unexpected time diagonal: %v", got.Times)
	}
	if got.Distances[1][2] != 5 || got.Times[2][1] != 0.25 {
		t.Fatal("off-diagonal values changed")
	}
	if m.Distances[1][1] != 0 {
		t.Fatal("source matrix was modified")
	}
}

func TestTravelMatrixValidate(t *testing.T) {
	if err := NewTravelMatrix(3).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := NewTravelMatrix(2)
	bad.Times[1] = []float64{1}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for ragged matrix")
	}
}
