package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(envOf(map[string]string{"DB_HOST": "db", "KAFKA_BROKERS": "k1:9092, k2:9092,"}))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "disable", cfg.DBSslMode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "5.00", cfg.BaseDeliveryFee.String())
	assert.Equal(t, ChannelToggles{Email: true, SMS: true, Push: true, Telegram: true}, cfg.Channels)
	assert.Equal(t, "* * * * *", cfg.Schedules.ScheduledOrderStart)
	assert.Equal(t, "0 * * * *", cfg.Schedules.AbandonedOrders)
	assert.Equal(t, "0 0 * * *", cfg.Schedules.PointsExpiry)
}

func TestLoadConfig_MergesChannelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
channels:
  email: true
  sms: false
  push: true
  telegram: false
delivery:
  base_fee: "3.50"
jobs:
  abandoned_orders: "*/30 * * * *"
connections:
  redis_addr: redis-from-file:6379
  kafka_brokers: [file-kafka:9092]
  rabbitmq_url: amqp://file
`), 0o600))

	cfg, err := LoadConfig(envOf(map[string]string{
		"CHANNELS_CONFIG": path,
		"REDIS_ADDR":      "redis-from-env:6379",
	}))

	require.NoError(t, err)
	assert.Equal(t, ChannelToggles{Email: true, Push: true}, cfg.Channels)
	assert.Equal(t, "3.50", cfg.BaseDeliveryFee.String())
	assert.Equal(t, "*/30 * * * *", cfg.Schedules.AbandonedOrders)
	assert.Equal(t, "* * * * *", cfg.Schedules.ScheduledOrderStart)
	assert.Equal(t, "redis-from-env:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"file-kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "amqp://file", cfg.RabbitMQURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	badFee := filepath.Join(dir, "fee.yaml")
	require.NoError(t, os.WriteFile(badFee, []byte("delivery:\n  base_fee: \"-1\"\n"), 0o600))
	badYAML := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("channels: [\n"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"negative fee", badFee},
		{"malformed yaml", badYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(envOf(map[string]string{"CHANNELS_CONFIG": tt.path}))
			assert.Error(t, err)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "secret", DBName: "marketplace", DBSslMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=marketplace sslmode=disable", cfg.DSN())
}
