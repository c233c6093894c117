package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 8080
database:
  type: memory
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "mock", cfg.Payment.Type)
	assert.Equal(t, "mock", cfg.Tax.Type)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, "*/30 * * * * *", cfg.Scheduler.ReapExpiredLocks)
	assert.Equal(t, "0 */15 * * * *", cfg.Scheduler.ReconcileTaxes)
	assert.Equal(t, 10*time.Second, cfg.Payment.Timeout())

	engine := cfg.Booking.Engine()
	assert.Equal(t, 24*time.Hour, engine.MinLead)
	assert.Equal(t, 90*24*time.Hour, engine.MaxAhead)
	assert.Equal(t, 10*time.Minute, engine.GoodsLockTimeout)
	assert.Equal(t, 3*time.Minute, engine.StylistLockTimeout)
	assert.Equal(t, time.Hour, engine.RepeatShippingWindow)
	assert.Equal(t, "usd", engine.Currency)
}

func TestParse_Full(t *testing.T) {
	data := `
server:
  host: 0.0.0.0
  port: 8080
grpc:
  port: 9090
database:
  host: db
  user: wardrobe
  database: wardrobe
payment:
  type: http
  base_url: https://pay.example.com
  api_key: pk_test
  breaker:
    consecutive_failures: 3
tax:
  type: http
  base_url: https://tax.example.com
  api_key: tk_test
events:
  driver: kafka
  brokers: [k1:9092, k2:9092]
booking:
  currency: EUR
  stylist_lock_timeout_minutes: 5
  showrooms:
    - id: 1
      name: Downtown
      address:
        line1: 5 Market St
        postal_code: "94105"
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetGRPCAddress())
	assert.Equal(t, uint32(3), cfg.Payment.Breaker.ConsecutiveFailures)
	assert.Equal(t, "https://tax.example.com", cfg.Tax.BaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)

	engine := cfg.Booking.Engine()
	assert.Equal(t, "eur", engine.Currency)
	assert.Equal(t, 5*time.Minute, engine.StylistLockTimeout)
	showroom, ok := engine.Showroom(1)
	require.True(t, ok)
	assert.Equal(t, "94105", showroom.Address.PostalCode)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse([]byte(minimalYAML + "events:\n  driver: kafka\n"))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Events.Brokers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"bad port", "server:\n  port: 0\n", "invalid server port"},
		{"postgres without host", "server:\n  port: 80\n", "database host is required"},
		{"unknown db", "server:\n  port: 80\ndatabase:\n  type: mysql\n", "unknown database type"},
		{"http payment without url", minimalYAML + "payment:\n  type: http\n", "payment base_url is required"},
		{"amqp without url", minimalYAML + "events:\n  driver: amqp\n", "amqp url is required"},
		{"unknown driver", minimalYAML + "events:\n  driver: nats\n", "unknown events driver"},
		{"firebase without project", minimalYAML + "firebase:\n  enabled: true\n", "firebase project_id"},
		{"duplicate showroom", minimalYAML + "booking:\n  showrooms:\n    - {id: 1, address: {line1: a}}\n    - {id: 1, address: {line1: b}}\n", "duplicate showroom"},
		{"showroom without address", minimalYAML + "booking:\n  showrooms:\n    - {id: 2}\n", "has no address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
