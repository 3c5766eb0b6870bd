package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"commuter_bus/internal/matcher"
	"commuter_bus/internal/models"
)

func snapshot() []models.Stop {
	return []models.Stop{
		{Title: "Secretariat", StartLocation: "Islamabad", Destination: "Rawalpindi", TimeSlot: "6:30 AM", Lat: 33.73, Lng: 73.09, VehicleNumber: "ABC-123"},
		{Title: "Saddar", StartLocation: "Rawalpindi", Destination: "Islamabad", TimeSlot: "9:30 AM", Lat: 33.59, Lng: 73.05, VehicleNumber: "XYZ-987"},
		{Title: "broken", StartLocation: "Islamabad", Destination: "Rawalpindi", TimeSlot: "6:30 AM", VehicleNumber: "ABC-123"}, // no coordinate
	}
}

func TestUnfilteredSubscriptionSeesSanitizedSheet(t *testing.T) {
	view := Subscription{}.Filter(snapshot())
	if len(view) != 2 {
		t.Fatalf("expected 2 clean stops, got %d", len(view))
	}
	for _, s := range view {
		if s.Title == "broken" {
			t.Fatal("malformed entry leaked through the feed")
		}
	}
}

func TestDriverSubscriptionFilter(t *testing.T) {
	sub := Subscription{Driver: &matcher.DriverQuery{VehicleNumber: "ABC-123"}}
	view := sub.Filter(snapshot())
	if len(view) != 1 || view[0].Title != "Secretariat" {
		t.Fatalf("expected only the assigned clean stop, got %v", view)
	}
}

func TestRiderSubscriptionFilter(t *testing.T) {
	sub := Subscription{Rider: &matcher.RiderQuery{StartLocation: "rawalpindi", Destination: "islamabad", TimeSlot: "9:30 AM"}}
	view := sub.Filter(snapshot())
	if len(view) != 1 || view[0].Title != "Saddar" {
		t.Fatalf("expected the Saddar stop, got %v", view)
	}
}

// dialSubscriber connects a websocket client to the hub through a real
// HTTP upgrade and hands back both ends plus the subscriber handle.
func dialSubscriber(t *testing.T, hub *Hub) (*websocket.Conn, *Subscriber, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan *Subscriber, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		registered <- hub.Register(conn, Subscription{})
	}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return client, <-registered, func() {
		client.Close()
		srv.Close()
	}
}

func readFrame(t *testing.T, client *websocket.Conn) []models.Stop {
	t.Helper()
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Stops []models.Stop `json:"stops"`
	}
	if err := client.ReadJSON(&frame); err != nil {
		t.Fatalf("expected a stop frame, got %v", err)
	}
	return frame.Stops
}

// A burst of broadcasts against a live connection must not take the hub
// down: all frames for a connection flow through its single writer, and
// a subscriber that cannot keep up is dropped, never written to from two
// goroutines at once.
func TestBroadcastBurstDoesNotKillHub(t *testing.T) {
	hub := NewHub()

	client, _, cleanup := dialSubscriber(t, hub)
	defer cleanup()

	for i := 0; i < 50; i++ {
		hub.Broadcast(snapshot())
	}

	// Drain whatever the burst produced; a clean close just means the
	// subscriber fell behind and was dropped.
	client.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			break
		}
	}

	// The hub must still serve a fresh subscriber after the burst.
	late, sub, lateCleanup := dialSubscriber(t, hub)
	defer lateCleanup()
	hub.Deliver(sub, snapshot())
	if stops := readFrame(t, late); len(stops) != 2 {
		t.Fatalf("expected the sanitized sheet, got %d stops", len(stops))
	}

	hub.Unregister(sub)
	hub.Unregister(sub) // second call must be a no-op
}

// Deliver after the subscriber is gone must be harmless.
func TestDeliverAfterUnregisterIsNoOp(t *testing.T) {
	hub := NewHub()
	client, sub, cleanup := dialSubscriber(t, hub)
	defer cleanup()

	hub.Unregister(sub)
	hub.Deliver(sub, snapshot())

	client.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Fatal("expected the connection to be closed")
	}
}
