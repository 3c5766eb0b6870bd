package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"commuter_bus/internal/config"
	"commuter_bus/internal/feed"
	"commuter_bus/internal/matcher"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// HandleRoutesWebSocket subscribes a screen to the live route feed. The
// subscription filter comes from query params: vehicle_number for a
// driver view, start_location/destination/time_slot for a rider search,
// neither for the unfiltered sheet. The subscription belongs to this
// connection alone and dies with it.
func HandleRoutesWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("feed: websocket upgrade failed")
		return
	}

	var sub feed.Subscription
	if vehicle := c.Query("vehicle_number"); vehicle != "" {
		sub.Driver = &matcher.DriverQuery{VehicleNumber: vehicle}
	} else if c.Query("time_slot") != "" {
		q := matcher.RiderQuery{
			StartLocation: c.Query("start_location"),
			Destination:   c.Query("destination"),
			TimeSlot:      c.Query("time_slot"),
		}
		if err := q.Validate(); err != nil {
			conn.WriteJSON(gin.H{"error": err.Error()})
			conn.Close()
			return
		}
		sub.Rider = &q
	}

	subscriber := hub.Register(conn, sub)

	// First frame is the current sheet so the screen is never blank
	// while waiting for the next edit. It goes through the subscriber's
	// queue like every other frame; the connection has a single writer.
	if stops, err := feed.LoadStops(config.DB); err == nil {
		hub.Deliver(subscriber, stops)
	}

	go func() {
		defer hub.Unregister(subscriber)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
