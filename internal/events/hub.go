package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// AllLocations is the subscription key for the global feed.
const AllLocations uint = 0

const writeWait = 5 * time.Second

// Hub tracks live map subscribers and pushes events to them. Clients
// subscribe to a single location or to AllLocations.
type Hub struct {
	clients   map[uint]map[*websocket.Conn]bool
	broadcast chan Event
	mu        sync.Mutex
	done      chan struct{}
}

// NewHub creates a hub and starts its broadcast loop.
func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[uint]map[*websocket.Conn]bool),
		broadcast: make(chan Event, 100),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for e := range h.broadcast {
		for _, key := range []uint{e.LocationID, AllLocations} {
			for _, conn := range h.snapshot(key) {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"location_id": key,
						"conn_ptr":    fmt.Sprintf("%p", conn),
					}).Info("dropping websocket client after failed write")
					h.Unregister(key, conn)
					conn.Close()
				}
			}
			if e.LocationID == AllLocations {
				break
			}
		}
	}
}

func (h *Hub) snapshot(key uint) []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]*websocket.Conn, 0, len(h.clients[key]))
	for c := range h.clients[key] {
		conns = append(conns, c)
	}
	return conns
}

func (h *Hub) Register(locationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[locationID]; !ok {
		h.clients[locationID] = make(map[*websocket.Conn]bool)
	}
	h.clients[locationID][conn] = true
	logrus.WithField("location_id", locationID).Debug("websocket client registered")
}

func (h *Hub) Unregister(locationID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[locationID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, locationID)
		}
	}
}

// Subscribers returns the number of connections watching locationID.
func (h *Hub) Subscribers(locationID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[locationID])
}

// Publish queues e for delivery, dropping it when the queue is full.
func (h *Hub) Publish(e Event) {
	select {
	case h.broadcast <- e:
	default:
		logrus.WithField("type", e.Type).Warn("websocket broadcast queue full, dropping event")
	}
}

// Close stops the broadcast loop after queued events are delivered.
func (h *Hub) Close() {
	close(h.broadcast)
	<-h.done
}
