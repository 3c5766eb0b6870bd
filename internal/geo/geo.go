package geo

import (
	"context"
	"time"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"commuter_bus/internal/models"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultCoordinate centers the map between the two served cities when a
// device position cannot be obtained.
var DefaultCoordinate = Coordinate{Latitude: 33.5651, Longitude: 73.0169}

// PositionSource produces the device's current position.
type PositionSource interface {
	Current(ctx context.Context) (Coordinate, error)
}

// Locate fetches a position with a deadline. A slow or failing source
// falls back to DefaultCoordinate; the caller always gets a usable
// coordinate and never an error.
func Locate(ctx context.Context, src PositionSource, timeout time.Duration) Coordinate {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		coord Coordinate
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		coord, err := src.Current(ctx)
		ch <- result{coord: coord, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return DefaultCoordinate
		}
		return res.coord
	case <-ctx.Done():
		return DefaultCoordinate
	}
}

// StopCollection renders stops as a GeoJSON FeatureCollection of point
// markers for the map view. Callers pass a sanitized set; a coordinate
// is assumed present.
func StopCollection(stops []models.Stop) ([]byte, error) {
	fc := &geojson.FeatureCollection{}
	for _, s := range stops {
		point := geom.NewPointFlat(geom.XY, []float64{s.Lng, s.Lat})
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point,
			Properties: map[string]interface{}{
				"title":          s.Title,
				"description":    s.Description,
				"bus_id":         s.BusID,
				"time_slot":      s.TimeSlot,
				"vehicle_number": s.VehicleNumber,
			},
		})
	}
	return fc.MarshalJSON()
}
