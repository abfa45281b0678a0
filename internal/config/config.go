package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// ErrInvalidConfig конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Поддерживаемые бэкенды блокировок
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	CORS         CORSConfig         `toml:"cors"`
	Slots        SlotsConfig        `toml:"slots"`
	Booking      BookingConfig      `toml:"booking"`
	Lock         LockConfig         `toml:"lock"`
	Redis        RedisConfig        `toml:"redis"`
	Notification NotificationConfig `toml:"notification"`
	Kafka        KafkaConfig        `toml:"kafka"`
	Jobs         JobsConfig         `toml:"jobs"`
	Seed         SeedConfig         `toml:"seed"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type SlotsConfig struct {
	Grid []string `toml:"grid"`
}

type BookingConfig struct {
	EnforceAvailability bool `toml:"enforce_availability"`
	TokenTTLHours       int  `toml:"token_ttl_hours"`
	ReferenceAttempts   int  `toml:"reference_attempts"`
	TxRetries           int  `toml:"tx_retries"`
}

type LockConfig struct {
	Backend       string `toml:"backend"` // local | redis
	WaitTimeoutMs int    `toml:"wait_timeout_ms"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// WaitTimeout время ожидания блокировки
func (l LockConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMs) * time.Millisecond
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type NotificationConfig struct {
	WebhookURL    string  `toml:"webhook_url"`
	Timeout       int     `toml:"timeout"` // секунды
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
	QueueSize     int     `toml:"queue_size"`
	PublicBaseURL string  `toml:"public_base_url"`
}

type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type JobsConfig struct {
	TokenJanitorSchedule string `toml:"token_janitor_schedule"`
}

type SeedConfig struct {
	Enabled bool `toml:"enabled"`
}

// Load читает .env (если есть), TOML файл и переменные окружения SALON_*
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon-booking"
	}
	if len(c.Slots.Grid) == 0 {
		c.Slots.Grid = append([]string(nil), scheduling.DefaultGridLabels...)
	}
	if c.Booking.TokenTTLHours == 0 {
		c.Booking.TokenTTLHours = 48
	}
	if c.Booking.ReferenceAttempts == 0 {
		c.Booking.ReferenceAttempts = 5
	}
	if c.Booking.TxRetries == 0 {
		c.Booking.TxRetries = 3
	}
	if c.Lock.Backend == "" {
		c.Lock.Backend = LockBackendLocal
	}
	if c.Lock.WaitTimeoutMs == 0 {
		c.Lock.WaitTimeoutMs = 5000
	}
	if c.Lock.TTLSeconds == 0 {
		c.Lock.TTLSeconds = 15
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "salon:lock:"
	}
	if c.Notification.Timeout == 0 {
		c.Notification.Timeout = 5
	}
	if c.Notification.RatePerSecond == 0 {
		c.Notification.RatePerSecond = 10
	}
	if c.Notification.Burst == 0 {
		c.Notification.Burst = 5
	}
	if c.Notification.QueueSize == 0 {
		c.Notification.QueueSize = 256
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "salon.booking.events"
	}
	if c.Jobs.TokenJanitorSchedule == "" {
		c.Jobs.TokenJanitorSchedule = "*/15 * * * *"
	}
}

// applyEnv переопределяет адреса и секреты из окружения
func (c *Config) applyEnv() error {
	setString("SALON_DB_HOST", &c.Database.Host)
	setString("SALON_DB_USER", &c.Database.User)
	setString("SALON_DB_PASSWORD", &c.Database.Password)
	setString("SALON_DB_NAME", &c.Database.DBName)
	setString("SALON_LOG_LEVEL", &c.Logs.Level)
	setString("SALON_LOCK_BACKEND", &c.Lock.Backend)
	setString("SALON_REDIS_ADDR", &c.Redis.Addr)
	setString("SALON_REDIS_PASSWORD", &c.Redis.Password)
	setString("SALON_NOTIFICATION_WEBHOOK_URL", &c.Notification.WebhookURL)

	if v, ok := os.LookupEnv("SALON_HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SALON_HTTP_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.HTTPPort = port
	}
	if v, ok := os.LookupEnv("SALON_DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SALON_DB_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Database.Port = port
	}
	if v, ok := os.LookupEnv("SALON_KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
		c.Kafka.Enabled = len(c.Kafka.Brokers) > 0
	}
	if v, ok := os.LookupEnv("SALON_CORS_ALLOWED_ORIGINS"); ok {
		c.CORS.AllowedOrigins = splitList(v)
	}

	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := scheduling.NewGrid(c.Slots.Grid); err != nil {
		return fmt.Errorf("%w: slots.grid: %v", ErrInvalidConfig, err)
	}
	if c.Booking.TokenTTLHours <= 0 {
		return fmt.Errorf("%w: booking.token_ttl_hours must be positive", ErrInvalidConfig)
	}
	if c.Booking.ReferenceAttempts < 1 {
		return fmt.Errorf("%w: booking.reference_attempts must be at least 1", ErrInvalidConfig)
	}

	switch c.Lock.Backend {
	case LockBackendLocal:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: lock.backend=redis requires redis.addr", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown lock.backend %q", ErrInvalidConfig, c.Lock.Backend)
	}
	if c.Lock.WaitTimeoutMs < 0 {
		return fmt.Errorf("%w: lock.wait_timeout_ms must not be negative", ErrInvalidConfig)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.enabled requires kafka.brokers", ErrInvalidConfig)
	}
	if c.Notification.RatePerSecond < 0 || c.Notification.Burst < 0 {
		return fmt.Errorf("%w: notification rate limits must not be negative", ErrInvalidConfig)
	}

	return nil
}

// TokenTTL время жизни токена подтверждения
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Booking.TokenTTLHours) * time.Hour
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
