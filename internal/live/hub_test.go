package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetlink-cl/agenda-platform/internal/agenda"
	"github.com/vetlink-cl/agenda-platform/pkg/logging"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScheduleChangedBroadcast(t *testing.T) {
	hub := NewHub(nil, logging.Default())
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.ScheduleChanged("vet-1", "2026-09-01")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "schedule_changed", evt.Type)
	assert.Equal(t, "vet-1", evt.VeterinarioID)
	assert.Equal(t, "2026-09-01", evt.Fecha)
}

func TestRenderCompletedBroadcast(t *testing.T) {
	hub := NewHub(nil, logging.Default())
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.RenderCompleted(agenda.DayResult{
		Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Seq:  7,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt Event
	require.NoError(t, json.Unmarshal(raw, &evt))
	assert.Equal(t, "render_completed", evt.Type)
	assert.Equal(t, uint64(7), evt.Seq)
}

func TestDisconnectedClientRemoved(t *testing.T) {
	hub := NewHub(nil, logging.Default())
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	hub.ScheduleChanged("vet-1", "2026-09-01")
	hub.ScheduleChanged("vet-1", "2026-09-01")

	waitForClients(t, hub, 0)
}
