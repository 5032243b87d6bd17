package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwlim/signalpipe/internal/history"
	"github.com/jwlim/signalpipe/pkg/logger"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	// The subscription is registered server-side just after the upgrade.
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 10*time.Millisecond)

	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(logger.Nop())
	defer hub.Close()

	conn := dialHub(t, hub)

	hub.Broadcast(history.Record{ID: 1, Status: "success", Report: json.RawMessage(`{"value":0.5}`)})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var rec history.Record
	require.NoError(t, conn.ReadJSON(&rec))
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "success", rec.Status)
}

func TestHubBroadcastConcurrent(t *testing.T) {
	hub := NewHub(logger.Nop())
	defer hub.Close()

	conn := dialHub(t, hub)

	const senders = 4
	const perSender = 5

	// Broadcasts arrive from whichever goroutine recorded the run; writes
	// to a single subscriber must still be serialized.
	var wg sync.WaitGroup
	for g := 0; g < senders; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				hub.Broadcast(history.Record{Status: "success", Report: json.RawMessage(`{}`)})
			}
		}()
	}

	for i := 0; i < senders*perSender; i++ {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var rec history.Record
		require.NoError(t, conn.ReadJSON(&rec))
		assert.Equal(t, "success", rec.Status)
	}
	wg.Wait()
}
