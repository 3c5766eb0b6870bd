package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"commuter_bus/internal/config"
	"commuter_bus/internal/feed"
	"commuter_bus/internal/geo"
	"commuter_bus/internal/matcher"
	"commuter_bus/internal/models"
)

// ListStops returns the full sanitized stop sheet in feed order, the data
// behind the rider home map.
func ListStops(c *gin.Context) {
	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stops": matcher.Sanitize(stops)})
}

// SearchRoutes runs a rider query. The precondition check rejects an
// invalid query before the collection is read; an empty sheet is an empty
// result, not an error.
func SearchRoutes(c *gin.Context) {
	var query matcher.RiderQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := query.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	matched := matcher.MatchRider(matcher.Sanitize(stops), query)
	c.JSON(http.StatusOK, gin.H{"routes": matched})
}

// StopsMap renders the sanitized stop sheet as GeoJSON point markers.
func StopsMap(c *gin.Context) {
	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	body, err := geo.StopCollection(matcher.Sanitize(stops))
	if err != nil {
		logrus.WithError(err).Error("StopsMap: geojson encoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode map data"})
		return
	}

	c.Data(http.StatusOK, "application/geo+json", body)
}

// reportedPosition treats the client's claimed coordinates as a position
// source. A zero coordinate means the device could not produce a fix.
type reportedPosition struct {
	coord geo.Coordinate
}

func (r reportedPosition) Current(ctx context.Context) (geo.Coordinate, error) {
	if r.coord.Latitude == 0 && r.coord.Longitude == 0 {
		return geo.Coordinate{}, errors.New("no position fix")
	}
	return r.coord, nil
}

// Locate resolves the map center for a device. A missing or failed fix
// falls back to the default region; the client never sees an error here.
func Locate(c *gin.Context) {
	var input geo.Coordinate
	_ = c.ShouldBindJSON(&input)

	coord := geo.Locate(c.Request.Context(), reportedPosition{coord: input}, 2*time.Second)
	c.JSON(http.StatusOK, gin.H{"region": coord})
}

// driverVehicle resolves the calling driver's vehicle number from the
// session email.
func driverVehicle(c *gin.Context) (string, bool) {
	email := c.GetString("email")
	var driver models.Driver
	if err := config.DB.Where("email = ?", email).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		}
		return "", false
	}
	return driver.VehicleNumber, true
}

// DriverStops returns the stops assigned to the calling driver's vehicle,
// matched by exact vehicle number.
func DriverStops(c *gin.Context) {
	vehicle, ok := driverVehicle(c)
	if !ok {
		return
	}

	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	assigned := matcher.MatchDriver(matcher.Sanitize(stops), matcher.DriverQuery{VehicleNumber: vehicle})
	c.JSON(http.StatusOK, gin.H{"vehicle_number": vehicle, "routes": assigned})
}

// CompletedStops backs the driver's completed-stops detail view: the same
// assigned set plus the map region to open on.
func CompletedStops(c *gin.Context) {
	vehicle, ok := driverVehicle(c)
	if !ok {
		return
	}

	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	assigned := matcher.MatchDriver(matcher.Sanitize(stops), matcher.DriverQuery{VehicleNumber: vehicle})
	c.JSON(http.StatusOK, gin.H{
		"vehicle_number": vehicle,
		"routes":         assigned,
		"region":         geo.DefaultCoordinate,
	})
}

type stopsInput struct {
	Stops []models.Stop `json:"stops"`
}

// ReplaceStops swaps the whole stop sheet and pushes the fresh snapshot
// to every feed subscriber. This is the ops edit surface; the app itself
// never writes stops.
func ReplaceStops(c *gin.Context) {
	var input stopsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := feed.StopUpdate{Action: "replace", Stops: input.Stops}
	if err := feed.Apply(config.DB, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace stops: " + err.Error()})
		return
	}

	broadcastStops(c)
}

// AppendStops adds stops to the sheet and pushes the fresh snapshot.
func AppendStops(c *gin.Context) {
	var input stopsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := feed.StopUpdate{Action: "append", Stops: input.Stops}
	if err := feed.Apply(config.DB, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not append stops: " + err.Error()})
		return
	}

	broadcastStops(c)
}

func broadcastStops(c *gin.Context) {
	stops, err := feed.LoadStops(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stops written but reload failed: " + err.Error()})
		return
	}
	hub.Broadcast(stops)
	c.JSON(http.StatusOK, gin.H{"count": len(stops)})
}
