package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	domnotification "example.com/localspark/app/internal/domain/notification"
	"example.com/localspark/app/internal/infra/realtime"
	notificationuc "example.com/localspark/app/internal/usecase/notification"
)

func TestWebsocket_ReceivesOwnNotifications(t *testing.T) {
	env := newTestEnv(t)
	hub := realtime.NewHub(nil)
	defer hub.Close()
	env.api.realtime = hub

	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	token := env.register(t, "kate")
	claims, err := env.tokens.ParseToken(token)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var msg realtime.Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "connected", msg.Type)
	require.Eventually(t, func() bool { return hub.Connections(claims.UserID) == 1 }, 2*time.Second, 10*time.Millisecond)

	notifier := notificationuc.NewService(env.store.Notifications(), hub)
	require.NoError(t, notifier.Notify(context.Background(), claims.UserID, domnotification.TypeEvent, "Reminder", "Starts soon"))

	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "notification", msg.Type)
	require.Equal(t, "Reminder", msg.Data.(map[string]any)["title"])
}

func TestWebsocket_RejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	env.api.realtime = realtime.NewHub(nil)

	rec := env.do(t, http.MethodGet, "/api/v1/ws?token=nope", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
