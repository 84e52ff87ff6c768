package sync

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsRefreshEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", WSHandler(hub, slog.New(slog.NewTextHandler(io.Discard, nil))))

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(welcome), "welcome")

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, time.Second, 10*time.Millisecond)

	at := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	hub.PublishRefresh(RefreshEvent{Type: EventRefreshCompleted, RunID: "r1", Trigger: "manual", Count: 8, At: at})

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev RefreshEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	require.Equal(t, RefreshEvent{Type: EventRefreshCompleted, RunID: "r1", Trigger: "manual", Count: 8, At: at}, ev)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Stats().WSClients == 0 }, time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.BroadcastJSON(map[string]string{"type": "noop"})
	require.Zero(t, hub.Stats().WSClients)
}
