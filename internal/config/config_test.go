package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "salon"
dbname = "salon"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, LockBackendLocal, cfg.Lock.Backend)
	assert.Len(t, cfg.Slots.Grid, 16)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 5*time.Second, cfg.Lock.WaitTimeout())
	assert.False(t, cfg.Booking.EnforceAvailability)
	assert.Equal(t, "host=localhost port=5432 user=salon password= dbname=salon sslmode=disable", cfg.Database.DSN())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[slots]
grid = ["10:00", "10:30", "11:00"]

[booking]
enforce_availability = true
token_ttl_hours = 24

[lock]
backend = "redis"
wait_timeout_ms = 250

[redis]
addr = "localhost:6379"

[kafka]
enabled = true
brokers = ["localhost:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, cfg.Slots.Grid)
	assert.True(t, cfg.Booking.EnforceAvailability)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, LockBackendRedis, cfg.Lock.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Lock.WaitTimeout())
	assert.Equal(t, "salon.booking.events", cfg.Kafka.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SALON_DB_PASSWORD", "secret")
	t.Setenv("SALON_HTTP_PORT", "7070")
	t.Setenv("SALON_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SALON_CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := Load(writeConfig(t, `[database]
password = "from-file"
`))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv("SALON_HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad grid label", mutate: func(c *Config) { c.Slots.Grid = []string{"9:00 AM", "noon"} }},
		{name: "duplicate grid slot", mutate: func(c *Config) { c.Slots.Grid = []string{"13:00", "1:00 PM"} }},
		{name: "redis without addr", mutate: func(c *Config) { c.Lock.Backend = LockBackendRedis }},
		{name: "unknown lock backend", mutate: func(c *Config) { c.Lock.Backend = "etcd" }},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }},
		{name: "port out of range", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }},
		{name: "no reference attempts", mutate: func(c *Config) { c.Booking.ReferenceAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}
