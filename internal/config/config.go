package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"wardrobe-rental-backend/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Payment   GatewayConfig   `yaml:"payment"`
	Tax       TaxConfig       `yaml:"tax"`
	Events    EventsConfig    `yaml:"events"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GRPCConfig contains the health server settings. Port 0 disables it.
type GRPCConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Type     string `yaml:"type"` // "postgres" or "memory"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

// RedisConfig enables the availability cache when Addr is set
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// BreakerConfig tunes the circuit breaker in front of an external API
type BreakerConfig struct {
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
	OpenSeconds         int    `yaml:"open_seconds"`
	HalfOpenRequests    uint32 `yaml:"half_open_requests"`
}

// GatewayConfig contains payment gateway settings
type GatewayConfig struct {
	Type           string        `yaml:"type"` // "http" or "mock"
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// TaxConfig contains tax service settings. RateBasisPoints is used by the mock only.
type TaxConfig struct {
	GatewayConfig   `yaml:",inline"`
	RateBasisPoints int64 `yaml:"rate_basis_points"`
}

// EventsConfig selects the domain event broker
type EventsConfig struct {
	Driver  string   `yaml:"driver"` // "none", "amqp" or "kafka"
	AMQPURL string   `yaml:"amqp_url"`
	Queue   string   `yaml:"queue"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// SendGridConfig contains email settings. An empty key logs mail instead of sending it.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	Host      string `yaml:"host"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// FirebaseConfig contains push notification settings
type FirebaseConfig struct {
	Enabled         bool   `yaml:"enabled"`
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig holds the reservation engine constants
type BookingConfig struct {
	MinLeadHours                int               `yaml:"min_lead_hours"`
	MaxAheadDays                int               `yaml:"max_ahead_days"`
	GoodsLockTimeoutMinutes     int               `yaml:"goods_lock_timeout_minutes"`
	StylistLockTimeoutMinutes   int               `yaml:"stylist_lock_timeout_minutes"`
	RepeatShippingWindowMinutes int               `yaml:"repeat_shipping_window_minutes"`
	Currency                    string            `yaml:"currency"`
	Showrooms                   []domain.Showroom `yaml:"showrooms"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReapExpiredLocks string `yaml:"reap_expired_locks"`
	ReconcileTaxes   string `yaml:"reconcile_taxes"`
	ReconcileBatch   int32  `yaml:"reconcile_batch"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applying environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_TYPE"); val != "" {
		c.Database.Type = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// External services
	if val := os.Getenv("PAYMENT_API_KEY"); val != "" {
		c.Payment.APIKey = val
	}
	if val := os.Getenv("TAX_API_KEY"); val != "" {
		c.Tax.APIKey = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Events
	if val := os.Getenv("AMQP_URL"); val != "" {
		c.Events.AMQPURL = val
	}
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Events.Brokers = strings.Split(val, ",")
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.GRPC.Port)
	}

	// Database validation
	if c.Database.Type == "" {
		c.Database.Type = "postgres"
	}
	switch c.Database.Type {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown database type: %s", c.Database.Type)
	}

	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = 300
	}

	if err := c.Payment.validate("payment"); err != nil {
		return err
	}
	if err := c.Tax.validate("tax"); err != nil {
		return err
	}

	// Events
	if c.Events.Driver == "" {
		c.Events.Driver = "none"
	}
	switch c.Events.Driver {
	case "none":
	case "amqp":
		if c.Events.AMQPURL == "" {
			return fmt.Errorf("amqp url is required for the amqp event driver")
		}
	case "kafka":
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required for the kafka event driver")
		}
	default:
		return fmt.Errorf("unknown events driver: %s", c.Events.Driver)
	}

	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when an api key is set")
	}
	if c.Firebase.Enabled && c.Firebase.ProjectID == "" {
		return fmt.Errorf("firebase project_id is required when push is enabled")
	}

	// Booking defaults
	if c.Booking.MinLeadHours == 0 {
		c.Booking.MinLeadHours = 24
	}
	if c.Booking.MaxAheadDays == 0 {
		c.Booking.MaxAheadDays = 90
	}
	if c.Booking.MinLeadHours < 0 || c.Booking.MaxAheadDays < 0 {
		return fmt.Errorf("booking horizon must not be negative")
	}
	if c.Booking.MinLeadHours > c.Booking.MaxAheadDays*24 {
		return fmt.Errorf("booking min lead exceeds the max ahead horizon")
	}
	if c.Booking.GoodsLockTimeoutMinutes <= 0 {
		c.Booking.GoodsLockTimeoutMinutes = 10
	}
	if c.Booking.StylistLockTimeoutMinutes <= 0 {
		c.Booking.StylistLockTimeoutMinutes = 3
	}
	if c.Booking.RepeatShippingWindowMinutes <= 0 {
		c.Booking.RepeatShippingWindowMinutes = 60
	}
	if c.Booking.Currency == "" {
		c.Booking.Currency = "usd"
	}
	c.Booking.Currency = strings.ToLower(c.Booking.Currency)
	seen := make(map[int32]bool, len(c.Booking.Showrooms))
	for _, s := range c.Booking.Showrooms {
		if seen[s.ID] {
			return fmt.Errorf("duplicate showroom id: %d", s.ID)
		}
		if s.Address.Empty() {
			return fmt.Errorf("showroom %d has no address", s.ID)
		}
		seen[s.ID] = true
	}

	// Scheduler defaults
	if c.Scheduler.ReapExpiredLocks == "" {
		c.Scheduler.ReapExpiredLocks = "*/30 * * * * *" // every 30 seconds
	}
	if c.Scheduler.ReconcileTaxes == "" {
		c.Scheduler.ReconcileTaxes = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.ReconcileBatch <= 0 {
		c.Scheduler.ReconcileBatch = 100
	}

	return nil
}

func (g *GatewayConfig) validate(name string) error {
	if g.Type == "" {
		g.Type = "mock"
	}
	switch g.Type {
	case "mock":
	case "http":
		if g.BaseURL == "" {
			return fmt.Errorf("%s base_url is required for the http client", name)
		}
		if g.APIKey == "" {
			return fmt.Errorf("%s api_key is required for the http client", name)
		}
	default:
		return fmt.Errorf("unknown %s type: %s", name, g.Type)
	}
	if g.TimeoutSeconds <= 0 {
		g.TimeoutSeconds = 10
	}
	return nil
}

// Timeout returns the per-request timeout
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Engine returns the immutable engine constants handed to the services
func (b BookingConfig) Engine() domain.EngineConfig {
	showrooms := make([]domain.Showroom, len(b.Showrooms))
	copy(showrooms, b.Showrooms)
	return domain.EngineConfig{
		MinLead:              time.Duration(b.MinLeadHours) * time.Hour,
		MaxAhead:             time.Duration(b.MaxAheadDays) * 24 * time.Hour,
		GoodsLockTimeout:     time.Duration(b.GoodsLockTimeoutMinutes) * time.Minute,
		StylistLockTimeout:   time.Duration(b.StylistLockTimeoutMinutes) * time.Minute,
		RepeatShippingWindow: time.Duration(b.RepeatShippingWindowMinutes) * time.Minute,
		Currency:             b.Currency,
		Showrooms:            showrooms,
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health server address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.GRPC.Port)
}
