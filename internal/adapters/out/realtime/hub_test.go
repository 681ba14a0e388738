package realtime_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startHub serves the hub on an httptest server. The actor is taken from the
// "user" and "role" query parameters.
func startHub(t *testing.T) (*realtime.Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub(discardLogger())
	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := kernel.UUIDFromString(r.URL.Query().Get("user"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		actor, err := kernel.NewActor(id, kernel.Role(r.URL.Query().Get("role")))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = hub.ServeWS(w, r, actor)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID kernel.UUID, role kernel.Role) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + userID.String() + "&role=" + string(role)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) realtime.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame realtime.Frame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestHub_PublishReachesPrivateTopicOnly(t *testing.T) {
	hub, srv := startHub(t)
	alice := kernel.NewUUID()
	bob := kernel.NewUUID()

	aliceConn := dial(t, srv, alice, kernel.RoleCustomer)
	bobConn := dial(t, srv, bob, kernel.RoleCustomer)
	require.Eventually(t, func() bool {
		return hub.Subscribers(notification.BroadcastTopic) == 2
	}, 2*time.Second, 10*time.Millisecond)

	err := hub.Publish(t.Context(), notification.UserTopic(alice), "order:notification", map[string]string{"message": "hi"})
	require.NoError(t, err)
	err = hub.Publish(t.Context(), notification.BroadcastTopic, "order:update", map[string]string{"status": "paid"})
	require.NoError(t, err)

	first := readFrame(t, aliceConn)
	assert.Equal(t, "order:notification", first.Event)
	assert.JSONEq(t, `{"message":"hi"}`, string(first.Data))
	assert.Equal(t, "order:update", readFrame(t, aliceConn).Event)

	assert.Equal(t, "order:update", readFrame(t, bobConn).Event, "bob only receives the broadcast")
}

func TestHub_AdminTopics(t *testing.T) {
	hub, srv := startHub(t)
	admin := dial(t, srv, kernel.NewUUID(), kernel.RoleAdmin)
	dial(t, srv, kernel.NewUUID(), kernel.RoleDriver)

	require.Eventually(t, func() bool {
		return hub.Subscribers(notification.BroadcastTopic) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.Subscribers(notification.AdminTopic))
	assert.Equal(t, 1, hub.Subscribers(notification.TrackingTopic))

	require.NoError(t, hub.Publish(t.Context(), notification.TrackingTopic, "delivery:location", map[string]float64{"lat": 43.2}))
	assert.Equal(t, "delivery:location", readFrame(t, admin).Event)
}

func TestHub_UnregistersClosedConnections(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, kernel.NewUUID(), kernel.RoleCustomer)
	require.Eventually(t, func() bool {
		return hub.Subscribers(notification.BroadcastTopic) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.Subscribers(notification.BroadcastTopic) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishRejectsUnencodablePayload(t *testing.T) {
	hub := realtime.NewHub(discardLogger())
	err := hub.Publish(t.Context(), notification.BroadcastTopic, "order:update", make(chan int))
	assert.Error(t, err)
}

func TestTopicsFor(t *testing.T) {
	id := kernel.NewUUID()
	customer, err := kernel.NewActor(id, kernel.RoleCustomer)
	require.NoError(t, err)
	admin, err := kernel.NewActor(id, kernel.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, []string{"broadcast", "user:" + id.String()}, realtime.TopicsFor(customer))
	assert.Equal(t, []string{"broadcast", "user:" + id.String(), "admin", "tracking"}, realtime.TopicsFor(admin))
}
