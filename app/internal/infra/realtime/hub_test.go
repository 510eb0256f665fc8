package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	domnotification "example.com/localspark/app/internal/domain/notification"
)

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func waitForConnections(t *testing.T, hub *Hub, owner string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Connections(owner) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAndEcho(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("owner"))
	}))

	conn := dial(t, srv, "/?owner=u1")
	require.Equal(t, "connected", readMessage(t, conn).Type)
	waitForConnections(t, hub, "u1", 1)

	hub.Publish("u2", &domnotification.Notification{ID: "skip", Title: "not yours"})
	hub.Publish("u1", &domnotification.Notification{ID: "n1", Type: domnotification.TypeOrder, Title: "Order placed"})

	msg := readMessage(t, conn)
	require.Equal(t, "notification", msg.Type)
	data, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "n1", data["id"])
	require.Equal(t, "Order placed", data["title"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "Echo: hello", string(raw))

	require.NoError(t, conn.Close())
	waitForConnections(t, hub, "u1", 0)

	hub.Close()
	srv.Close()
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "guest:abc")
	}))

	conn := dial(t, srv, "/")
	require.Equal(t, "connected", readMessage(t, conn).Type)
	waitForConnections(t, hub, "guest:abc", 1)

	hub.Close()
	require.Zero(t, hub.Connections("guest:abc"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.NoError(t, conn.Close())

	srv.Close()
}
