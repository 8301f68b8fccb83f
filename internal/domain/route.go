package domain

// Represents a single stop of an archived route: a location and the pallets delivered there.
type Stop struct {
	Location  *PhysicalLocation
	Delivered int
}

// Represents one trip of one vehicle as recorded in the delivery archive.
// Stops are in forward chronological order once reconstruction is finished.
type Route struct {
	Code    string
	Vehicle *Vehicle
	Stops   []Stop
}

func NewRoute(code string, vehicle *Vehicle) *Route {
	return &Route{Code: code, Vehicle: vehicle}
}

// Capacity of the route's vehicle type, or 0 when the route has no vehicle.
func (r *Route) Capacity() int {
	if r.Vehicle == nil || r.Vehicle.Type == nil {
		return 0
	}
	return r.Vehicle.Type.Capacity
}

// Sum of delivered quantities over all stops.
func (r *Route) TotalDelivered() int {
	total := 0
	for _, s := range r.Stops {
		total += s.Delivered
	}
	return total
}

// PrependDelivery records a delivery read from an archive that lists stops last-first.
//
// When the front stop already refers to the same location the quantity is merged
// into it, otherwise a new stop is inserted at the front.
func (r *Route) PrependDelivery(loc *PhysicalLocation, quantity int) {
	if len(r.Stops) > 0 && r.Stops[0].Location == loc {
		r.Stops[0].Delivered += quantity
		return
	}

	r.Stops = append(r.Stops, Stop{})
	copy(r.Stops[1:], r.Stops)
	r.Stops[0] = Stop{Location: loc, Delivered: quantity}
}

// NormalizeOverflow trims delivered quantities until the route fits its vehicle capacity.
//
// Stops are visited cyclically; a stop gives up one unit only while it holds more
// than one, and the cursor advances on every visit. Each unit removed is also
// removed from the stop location's demand. It returns the number of units removed
// and whether the route now fits; a route made only of single-unit stops can stay
// over capacity.
func (r *Route) NormalizeOverflow() (trimmed int, fits bool) {
	capacity := r.Capacity()
	total := r.TotalDelivered()
	n := len(r.Stops)
	if total <= capacity {
		return 0, true
	}
	if n == 0 {
		return 0, false
	}

	idle := 0
	for i := 0; total > capacity; i = (i + 1) % n {
		stop := &r.Stops[i]
		if stop.Delivered <= 1 {
			idle++
			if idle >= n {
				return trimmed, false
			}
			continue
		}

		idle = 0
		stop.Delivered--
		if stop.Location != nil {
			stop.Location.Demand--
		}
		total--
		trimmed++
	}

	return trimmed, true
}

// Record converts the route into its persisted form.
func (r *Route) Record() RouteRecord {
	rec := make(RouteRecord, 0, len(r.Stops))
	for _, s := range r.Stops {
		idx := 0
		if s.Location != nil {
			idx = s.Location.Index
		}
		rec = append(rec, StopRecord{LocationIndex: idx, Delivered: s.Delivered})
	}
	return rec
}

// Persisted form of a stop: [locationIndex, delivered].
type StopRecord struct {
	LocationIndex int
	Delivered     int
}

// Persisted form of a route.
type RouteRecord []StopRecord

// WithoutEmptyStops returns the record without stops that delivered nothing,
// keeping the order of the rest.
func (r RouteRecord) WithoutEmptyStops() RouteRecord {
	out := make(RouteRecord, 0, len(r))
	for _, s := range r {
		if s.Delivered == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RouteSet groups routes by vehicle type index.
type RouteSet map[int][]*Route

// Records converts a route set into persisted records keyed by vehicle type index.
func (s RouteSet) Records() map[int][]RouteRecord {
	out := make(map[int][]RouteRecord, len(s))
	for typeIdx, routes := range s {
		recs := make([]RouteRecord, 0, len(routes))
		for _, r := range routes {
			recs = append(recs, r.Record())
		}
		out[typeIdx] = recs
	}
	return out
}

// Count of routes across all vehicle types.
func (s RouteSet) Count() int {
	n := 0
	for _, routes := range s {
		n += len(routes)
	}
	return n
}
