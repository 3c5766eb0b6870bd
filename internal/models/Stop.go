package models

import "gorm.io/gorm"

// Stop is one scheduled bus stop on the shared route sheet. The set of
// stops is edited externally (ops surface or broker), read continuously
// by rider and driver screens, and filtered in memory per query.
// Seq preserves feed order; results are never re-sorted by the matcher.
type Stop struct {
	gorm.Model

	Title         string  `json:"title"`
	Category      string  `json:"category"`
	StartLocation string  `json:"start_location"`
	Destination   string  `json:"destination"`
	TimeSlot      string  `json:"time_slot"` // "6:30 AM", "9:30 AM" or "3:30 PM"
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	VehicleNumber string  `json:"vehicle_number" gorm:"index"`
	Description   string  `json:"description"`
	BusID         string  `json:"bus_id"`
	Seq           int     `json:"seq"`
}

// HasCoordinate reports whether the stop carries a usable map position.
// Upstream editors have shipped stops with the coordinate left blank;
// those must not reach the map or the feed.
func (s Stop) HasCoordinate() bool {
	return s.Lat != 0 || s.Lng != 0
}
