package geo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"commuter_bus/internal/models"
)

type stubSource struct {
	coord Coordinate
	err   error
	delay time.Duration
}

func (s stubSource) Current(ctx context.Context) (Coordinate, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Coordinate{}, ctx.Err()
		}
	}
	return s.coord, s.err
}

func TestLocateReturnsSourcePosition(t *testing.T) {
	want := Coordinate{Latitude: 33.7, Longitude: 73.1}
	got := Locate(context.Background(), stubSource{coord: want}, time.Second)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLocateFallsBackOnError(t *testing.T) {
	got := Locate(context.Background(), stubSource{err: errors.New("no fix")}, time.Second)
	if got != DefaultCoordinate {
		t.Fatalf("error must fall back to default, got %+v", got)
	}
}

func TestLocateFallsBackOnTimeout(t *testing.T) {
	src := stubSource{coord: Coordinate{Latitude: 1, Longitude: 1}, delay: 500 * time.Millisecond}
	got := Locate(context.Background(), src, 10*time.Millisecond)
	if got != DefaultCoordinate {
		t.Fatalf("timeout must fall back to default, got %+v", got)
	}
}

func TestStopCollectionEncodesMarkers(t *testing.T) {
	stops := []models.Stop{
		{Title: "Secretariat", Lat: 33.73, Lng: 73.09, VehicleNumber: "ABC-123", TimeSlot: "6:30 AM"},
		{Title: "Saddar", Lat: 33.59, Lng: 73.05, VehicleNumber: "XYZ-987", TimeSlot: "9:30 AM"},
	}

	body, err := StopCollection(stops)
	if err != nil {
		t.Fatalf("StopCollection: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &fc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("unexpected collection shape: %+v", fc)
	}
	first := fc.Features[0]
	if first.Geometry.Type != "Point" {
		t.Fatalf("expected point geometry, got %q", first.Geometry.Type)
	}
	// GeoJSON positions are lng, lat
	if first.Geometry.Coordinates[0] != 73.09 || first.Geometry.Coordinates[1] != 33.73 {
		t.Fatalf("coordinates flipped or wrong: %v", first.Geometry.Coordinates)
	}
	if first.Properties["title"] != "Secretariat" {
		t.Fatalf("marker properties missing: %v", first.Properties)
	}
}
