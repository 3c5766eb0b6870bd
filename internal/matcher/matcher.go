// Package matcher filters the live stop collection for rider searches
// and driver assignment views. Filtering is a synchronous full re-scan of
// the in-memory collection on every call; result order is feed order.
package matcher

import (
	"errors"
	"strings"

	"commuter_bus/internal/models"
)

// The service operates between exactly two cities.
const (
	CityIslamabad  = "islamabad"
	CityRawalpindi = "rawalpindi"
)

// TimeSlots are the three canonical departure slots. Slot matching is
// exact, no normalization.
var TimeSlots = []string{"6:30 AM", "9:30 AM", "3:30 PM"}

// Validation errors carry the exact message shown to the user.
var (
	ErrNoTimeSlot       = errors.New("Please select a time slot.")
	ErrUnsupportedCity  = errors.New("We operate only in Islamabad and Rawalpindi. Please choose valid locations.")
	ErrMissingLocations = errors.New("Please provide both start and destination locations")
)

// RiderQuery is a rider's desired trip.
type RiderQuery struct {
	StartLocation string `json:"start_location"`
	Destination   string `json:"destination"`
	TimeSlot      string `json:"time_slot"`
}

// DriverQuery selects the stops assigned to one vehicle.
type DriverQuery struct {
	VehicleNumber string `json:"vehicle_number"`
}

func supportedCity(name string) bool {
	lower := strings.ToLower(name)
	return lower == CityIslamabad || lower == CityRawalpindi
}

// ValidSlot reports whether s is one of the canonical time slots.
func ValidSlot(s string) bool {
	for _, slot := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Validate rejects a rider query before the collection is read. Checks
// run in the order the user sees them: slot first, then city support,
// then presence.
func (q RiderQuery) Validate() error {
	if q.TimeSlot == "" {
		return ErrNoTimeSlot
	}
	if !supportedCity(q.StartLocation) || !supportedCity(q.Destination) {
		return ErrUnsupportedCity
	}
	if q.StartLocation == "" || q.Destination == "" {
		return ErrMissingLocations
	}
	return nil
}

// Sanitize drops entries the downstream consumers cannot render: stops
// with no coordinate or no vehicle assignment. Order is preserved.
func Sanitize(stops []models.Stop) []models.Stop {
	clean := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		if !s.HasCoordinate() || s.VehicleNumber == "" {
			continue
		}
		clean = append(clean, s)
	}
	return clean
}

// MatchRider returns the stops matching a rider query: start and
// destination by case-insensitive containment, time slot by exact
// equality. The caller is expected to have validated the query.
func MatchRider(stops []models.Stop, q RiderQuery) []models.Stop {
	start := strings.ToLower(q.StartLocation)
	dest := strings.ToLower(q.Destination)

	matched := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		if !strings.Contains(strings.ToLower(s.StartLocation), start) {
			continue
		}
		if !strings.Contains(strings.ToLower(s.Destination), dest) {
			continue
		}
		if s.TimeSlot != q.TimeSlot {
			continue
		}
		matched = append(matched, s)
	}
	return matched
}

// MatchDriver returns the stops assigned to the driver's vehicle. The
// comparison is exact and case-sensitive: "ABC-123" and "abc-123" are
// different vehicles.
func MatchDriver(stops []models.Stop, q DriverQuery) []models.Stop {
	matched := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		if s.VehicleNumber == q.VehicleNumber {
			matched = append(matched, s)
		}
	}
	return matched
}
