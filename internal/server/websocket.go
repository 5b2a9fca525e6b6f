package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev tool.
	},
}

// MonitorEvent describes one tick a session handled.
type MonitorEvent struct {
	Session string              `json:"session"`
	Name    string              `json:"name"`
	Mode    string              `json:"mode"`
	Frame   timeline.FrameIndex `json:"frame"`
	Events  []codec.Event       `json:"events"`
	Exit    bool                `json:"exit,omitempty"`
	Time    time.Time           `json:"time"`
}

// Hub manages monitor clients and broadcasts frame events to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     logrus.FieldLogger
}

// NewHub creates a new WebSocket hub.
func NewHub(l logrus.FieldLogger) *Hub {
	if l == nil {
		l = logging.Discard()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		log:     l,
	}
}

// HandleWebSocket upgrades the HTTP connection and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("monitor upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Read loop: keep connection alive, handle disconnects.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends a frame event to all connected monitor clients. Writes
// are serialized because a connection supports one writer at a time.
func (h *Hub) Broadcast(event *MonitorEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("monitor marshal failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).Debug("monitor write failed")
			conn.Close()
			// Don't delete during iteration; the read goroutine will clean up.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every monitor client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
}
