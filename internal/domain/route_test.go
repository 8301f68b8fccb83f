package domain

import (
	"testing"

	"pgregory.net/rapid"
)

func routeWithStops(capacity int, quantities ...int) *Route {
	vt := &VehicleType{Index: 0, Name: "11 metre", Capacity: capacity}
	r := NewRoute("R1", &Vehicle{Name: "SP1", Type: vt, Registered: true})
	for i, q := range quantities {
		loc := &PhysicalLocation{Index: i + 1, Name: "L", Demand: q}
		r.Stops = append(r.Stops, Stop{Location: loc, Delivered: q})
	}
	return r
}

func TestNormalizeOverflowOneFullPass(t *testing.T) {
	r := routeWithStops(30, 11, 11, 11)

	trimmed, fits := r.NormalizeOverflow()
	if !fits {
		t.Fatal("route should fit after normalization")
	}
	if trimmed != 3 {
		t.Fatalf("trimmed = %d, want 3", trimmed)
	}
	for i, s := range r.Stops {
		if s.Delivered != 10 {
			t.Errorf("stop %d delivered = %d, want 10", i, s.Delivered)
		}
		if s.Location.Demand != 10 {
			t.Errorf("stop %d location demand = %d, want 10", i, s.Location.Demand)
		}
	}
}

func TestNormalizeOverflowSkipsSingleUnitStops(t *testing.T) {
	// 1 + 5 + 1 = 7 over capacity 4: only the middle stop can give units up.
	r := routeWithStops(4, 1, 5, 1)

	trimmed, fits := r.NormalizeOverflow()
	if !fits || trimmed != 3 {
		t.Fatalf("trimmed=%d fits=%v, want 3 true", trimmed, fits)
	}
	want := []int{1, 2, 1}
	for i, s := range r.Stops {
		if s.Delivered != want[i] {
			t.Errorf("stop %d delivered = %d, want %d", i, s.Delivered, want[i])
		}
	}
}

func TestNormalizeOverflowAdvancesEveryVisit(t *testing.T) {
	// The cursor moves on after each decrement, so units come off 6, 6, 3, 6 ...
	r := routeWithStops(10, 6, 6, 3)

	if _, fits := r.NormalizeOverflow(); !fits {
		t.Fatal("route should fit")
	}
	want := []int{4, 4, 2}
	for i, s := range r.Stops {
		if s.Delivered != want[i] {
			t.Errorf("stop %d delivered = %d, want %d", i, s.Delivered, want[i])
		}
	}
}

func TestNormalizeOverflowUnreachable(t *testing.T) {
	r := routeWithStops(2, 1, 1, 1)

	trimmed, fits := r.NormalizeOverflow()
	if fits || trimmed != 0 {
		t.Fatalf("trimmed=%d fits=%v, want 0 false", trimmed, fits)
	}
	if r.TotalDelivered() != 3 {
		t.Fatalf("total = %d, want 3", r.TotalDelivered())
	}
}

func TestNormalizeOverflowProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 40).Draw(rt, "capacity")
		quantities := rapid.SliceOfN(rapid.IntRange(0, 25), 1, 12).Draw(rt, "quantities")

		r := routeWithStops(capacity, quantities...)
		before := r.TotalDelivered()
		trimmed, fits := r.NormalizeOverflow()

		if r.TotalDelivered() != before-trimmed {
			rt.Fatalf("total %d != %d - %d", r.TotalDelivered(), before, trimmed)
		}
		if fits && r.TotalDelivered() > capacity {
			rt.Fatalf("fits but total %d > capacity %d", r.TotalDelivered(), capacity)
		}
		for i, s := range r.Stops {
			if s.Delivered < 0 {
				rt.Fatalf("stop %d negative: %d", i, s.Delivered)
			}
			if quantities[i] >= 1 && s.Delivered < 1 {
				rt.Fatalf("stop %d reduced from %d to %d", i, quantities[i], s.Delivered)
			}
			if s.Location.Demand != s.Delivered {
				rt.Fatalf("stop %d demand %d out of step with delivered %d", i, s.Location.Demand, s.Delivered)
			}
		}
		if !fits {
			for _, s := range r.Stops {
				if s.Delivered > 1 {
					rt.Fatalf("gave up with a reducible stop left: %d", s.Delivered)
				}
			}
		}
	})
}

func TestPrependDeliveryMergesFrontStop(t *testing.T) {
	a := &PhysicalLocation{Index: 1, Name: "A"}
	b := &PhysicalLocation{Index: 2, Name: "B"}
	r := NewRoute("R1", nil)

	// Archive order is last stop first: B, B, A.
	r.PrependDelivery(b, 3)
	r.PrependDelivery(b, 2)
	r.PrependDelivery(a, 4)

	if len(r.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(r.Stops))
	}
	if r.Stops[0].Location != a || r.Stops[0].Delivered != 4 {
		t.Errorf("first stop = %+v, want A/4", r.Stops[0])
	}
	if r.Stops[1].Location != b || r.Stops[1].Delivered != 5 {
		t.Errorf("second stop = %+v, want B/5", r.Stops[1])
	}
}

func TestRouteRecordWithoutEmptyStops(t *testing.T) {
	rec := RouteRecord{{3, 2}, {4, 0}, {5, 1}, {6, 0}}

	got := rec.WithoutEmptyStops()
	want := RouteRecord{{3, 2}, {5, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
