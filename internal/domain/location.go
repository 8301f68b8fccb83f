package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Depot defaults. The depot is always location index 0.
const (
	DepotName         = "Depot"
	DepotLatitude     = -34.005993
	DepotLongitude    = 18.537626
	DepotOffloadHours = 0.09167
)

// Represents a real site serviced by the distribution centre.
// Several store codes (e.g. a supermarket and a pharmacy at the same address)
// can share one PhysicalLocation; they are treated as the same customer.
//
// Demand is a mutable accumulator filled in during archive reconstruction.
type PhysicalLocation struct {
	Index        int
	Name         string
	Coordinates  Coordinates
	OffloadHours float64
	StoreCodes   []string
	Demand       int
}

// NewDepot returns the depot location at index 0.
func NewDepot() *PhysicalLocation {
	return &PhysicalLocation{
		Index:        0,
		Name:         DepotName,
		Coordinates:  Coordinates{Lat: DepotLatitude, Lon: DepotLongitude},
		OffloadHours: DepotOffloadHours,
	}
}

// AnonymousName hides the location name behind its index and initial, e.g. "12-A".
func (l *PhysicalLocation) AnonymousName() string {
	r, _ := utf8.DecodeRuneInString(l.Name)
	if r == utf8.RuneError {
		return strconv.Itoa(l.Index)
	}
	return fmt.Sprintf("%d-%c", l.Index, r)
}

func (l *PhysicalLocation) String() string {
	return fmt.Sprintf("location %d %q (stores %v)", l.Index, l.Name, l.StoreCodes)
}

// ParseOffloadHours extracts the average offload time from a schedule string.
//
// Expected format: "00:00  (16:58)   min/container". The value in brackets is
// minutes:seconds and is returned in hours.
func ParseOffloadHours(s string) (float64, error) {
	open := strings.Index(s, "(")
	closing := strings.Index(s, ")")
	if open < 0 || closing <= open {
		return 0, fmt.Errorf("parse offload %q: missing bracketed duration", s)
	}

	parts := strings.Split(strings.TrimSpace(s[open+1:closing]), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse offload %q: expected mm:ss", s)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("parse offload %q: minutes: %w", s, err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("parse offload %q: seconds: %w", s, err)
	}

	return float64(minutes*60+seconds) / 3600, nil
}

// ParseStoreCodes extracts store codes from a "stores at location" string.
//
// Expected format: "(3) 35668-Aurora SPAR, 35805-Aurora TOPS, 35924-Aurora PHARMACY".
func ParseStoreCodes(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") {
		if i := strings.Index(s, ")"); i >= 0 {
			s = s[i+1:]
		}
	}

	codes := make([]string, 0, 4)
	for _, store := range strings.Split(s, ",") {
		code, _, _ := strings.Cut(strings.TrimSpace(store), "-")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}

	return codes
}
