package realtime_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisBridge_RelaysFramesBetweenInstances(t *testing.T) {
	client := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// Two instances share one Redis: the frame published on the first reaches a
	// client connected to the second.
	publisher := realtime.NewRedisBridge(client, realtime.NewHub(discardLogger()), discardLogger())

	hub, srv := startHub(t)
	subscriber := realtime.NewRedisBridge(client, hub, discardLogger())
	go func() { _ = subscriber.Run(ctx) }()

	userID := kernel.NewUUID()
	conn := dial(t, srv, userID, kernel.RoleCustomer)
	require.Eventually(t, func() bool {
		return hub.Subscribers(notification.UserTopic(userID)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumPat(ctx).Result()
		return err == nil && n == 1
	}, 5*time.Second, 20*time.Millisecond)

	err := publisher.Publish(ctx, notification.UserTopic(userID), "delivery:eta", map[string]string{"eta": "12m"})
	require.NoError(t, err)

	frame := readFrame(t, conn)
	assert.Equal(t, "delivery:eta", frame.Event)
	assert.JSONEq(t, `{"eta":"12m"}`, string(frame.Data))
}
