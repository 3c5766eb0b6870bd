package feed

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"commuter_bus/internal/matcher"
	"commuter_bus/internal/models"
)

// Subscription is the filter a connected screen watches the stop sheet
// through. At most one of Rider/Driver is set; with neither, the
// subscriber receives the full sanitized sheet.
type Subscription struct {
	Rider  *matcher.RiderQuery
	Driver *matcher.DriverQuery
}

// Filter produces the subscriber's view of a snapshot. Sanitizing runs
// first so malformed entries never reach a client.
func (s Subscription) Filter(stops []models.Stop) []models.Stop {
	clean := matcher.Sanitize(stops)
	switch {
	case s.Driver != nil:
		return matcher.MatchDriver(clean, *s.Driver)
	case s.Rider != nil:
		return matcher.MatchRider(clean, *s.Rider)
	}
	return clean
}

// Subscriber is one registered connection. All frames for the connection
// flow through the send queue and are written by a single goroutine;
// the websocket write side tolerates only one writer at a time.
type Subscriber struct {
	conn   *websocket.Conn
	filter Subscription
	send   chan []models.Stop
}

// writePump is the subscriber's only writer. It drains the send queue
// until the queue is closed or a write fails.
func (s *Subscriber) writePump(h *Hub) {
	defer h.Unregister(s)
	for view := range s.send {
		if err := s.conn.WriteJSON(map[string]interface{}{"stops": view}); err != nil {
			logrus.WithError(err).Warn("feed: write failed, dropping subscriber")
			return
		}
	}
}

// Hub pushes stop-sheet snapshots to subscribed connections. Each
// subscriber's view is re-filtered from scratch on every broadcast;
// whichever snapshot is delivered last is what the screen shows.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]bool
	broadcast   chan []models.Stop
}

// NewHub creates the hub and starts its fan-out goroutine.
func NewHub() *Hub {
	hub := &Hub{
		subscribers: make(map[*Subscriber]bool),
		broadcast:   make(chan []models.Stop, 100),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for snapshot := range h.broadcast {
		h.mu.Lock()
		for s := range h.subscribers {
			select {
			case s.send <- s.filter.Filter(snapshot):
			default:
				// A subscriber that cannot drain its queue is dropped
				// rather than allowed to stall the broadcast.
				logrus.Warn("feed: slow subscriber dropped")
				h.removeLocked(s)
			}
		}
		h.mu.Unlock()
	}
}

// Register adds a connection with its subscription filter and starts its
// writer. The returned Subscriber is the handle for Deliver/Unregister.
func (h *Hub) Register(conn *websocket.Conn, filter Subscription) *Subscriber {
	s := &Subscriber{
		conn:   conn,
		filter: filter,
		send:   make(chan []models.Stop, 8),
	}
	h.mu.Lock()
	h.subscribers[s] = true
	count := len(h.subscribers)
	h.mu.Unlock()
	go s.writePump(h)
	logrus.WithField("subscribers", count).Debug("feed: subscriber registered")
	return s
}

// Deliver queues one snapshot for a single subscriber outside the
// broadcast path, filtered like any other frame. Used for the initial
// sheet so a fresh screen is never blank.
func (h *Hub) Deliver(s *Subscriber, stops []models.Stop) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.subscribers[s] {
		return
	}
	select {
	case s.send <- s.filter.Filter(stops):
	default:
	}
}

// Unregister removes a subscriber, closes its queue and its connection.
// Safe to call twice.
func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s)
}

// removeLocked must be called with h.mu held. Closing the send queue
// under the lock guarantees run never sends on a closed channel.
func (h *Hub) removeLocked(s *Subscriber) {
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.send)
		s.conn.Close()
	}
}

// Broadcast queues a snapshot for fan-out. Dropping on a full queue is
// acceptable: a newer snapshot supersedes anything still waiting.
func (h *Hub) Broadcast(stops []models.Stop) {
	select {
	case h.broadcast <- stops:
	default:
		logrus.Warn("feed: broadcast queue full, snapshot dropped")
	}
}
