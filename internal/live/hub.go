// Package live pushes schedule updates to connected grid clients over
// websockets, replacing client-side polling.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vetlink-cl/agenda-platform/internal/agenda"
	"github.com/vetlink-cl/agenda-platform/internal/observability/metrics"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

const writeTimeout = 7 * time.Second

// Event is one message pushed to clients.
type Event struct {
	Type          string `json:"type"`
	VeterinarioID string `json:"veterinario_id,omitempty"`
	Fecha         string `json:"fecha,omitempty"`
	Seq           uint64 `json:"seq,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeText(raw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

func (c *client) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Hub tracks connected clients and fans events out to all of them. Clients
// that fail a write are dropped.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	metrics  *metrics.AgendaMetrics
	logger   *logging.Logger
}

// NewHub creates an empty hub.
func NewHub(m *metrics.AgendaMetrics, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		metrics: m,
		logger:  logger.WithComponent("live"),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}
	h.add(c)
	defer func() {
		h.remove(c)
		_ = c.close()
	}()

	// Drain the read side; the hub only pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.LiveClientConnected()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if present {
		h.metrics.LiveClientDisconnected()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ScheduleChanged notifies clients that a veterinarian's day changed.
// Implements the booking flow's broadcaster.
func (h *Hub) ScheduleChanged(vetID, fecha string) {
	h.broadcast(Event{Type: "schedule_changed", VeterinarioID: vetID, Fecha: fecha})
}

// RenderCompleted relays a finished day load. Wired as a loader listener so
// deep-link clients know when the grid they wait for is ready.
func (h *Hub) RenderCompleted(result agenda.DayResult) {
	h.broadcast(Event{
		Type:  "render_completed",
		Fecha: result.Date.Format("2006-01-02"),
		Seq:   result.Seq,
	})
}

func (h *Hub) broadcast(evt Event) {
	raw, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeText(raw); err != nil {
			h.remove(c)
			_ = c.close()
		}
	}
}
