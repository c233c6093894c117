// Package bootstrap builds the runtime dependencies both binaries share from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wardrobe-rental-backend/internal/cache"
	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/events"
	"wardrobe-rental-backend/internal/gateway"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository/memory"
	"wardrobe-rental-backend/internal/repository/postgres"
	"wardrobe-rental-backend/internal/service"

	"github.com/redis/go-redis/v9"
)

// Storage is an opened repository set plus the handle that backs it.
type Storage struct {
	Repos  service.Repositories
	pinger interface{ Ping(context.Context) error }
	db     *sql.DB
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStorage connects to PostgreSQL, running migrations when configured, or builds
// the in-memory store.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg.Database.Type == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &Storage{
			Repos: service.Repositories{
				Units:         store.UnitRepository,
				Reservations:  store.ReservationRepository,
				Discounts:     store.DiscountRuleRepository,
				Ledger:        store.LedgerRepository,
				Customers:     store.CustomerRepository,
				Notifications: store.NotificationRepository,
			},
			pinger: store,
		}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.Migrate {
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	store := postgres.NewStore(db)
	return &Storage{
		Repos: service.Repositories{
			Units:         store.UnitRepository,
			Reservations:  store.ReservationRepository,
			Discounts:     store.DiscountRuleRepository,
			Ledger:        store.LedgerRepository,
			Customers:     store.CustomerRepository,
			Notifications: store.NotificationRepository,
		},
		pinger: store,
		db:     db,
	}, nil
}

// NewCache returns the redis availability cache, or nil when redis is not configured.
// The returned close func is never nil.
func NewCache(ctx context.Context, cfg *config.Config) (cache.AvailabilityCache, func() error, error) {
	if cfg.Redis.Addr == "" {
		return nil, func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Availability cache enabled", "addr", cfg.Redis.Addr)
	return cache.NewRedisAvailabilityCache(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second), client.Close, nil
}

func breakerSettings(b config.BreakerConfig) gateway.BreakerSettings {
	return gateway.BreakerSettings{
		MaxRequests:         b.HalfOpenRequests,
		Timeout:             time.Duration(b.OpenSeconds) * time.Second,
		ConsecutiveFailures: b.ConsecutiveFailures,
	}
}

func NewPaymentGateway(cfg *config.Config) gateway.PaymentGateway {
	if cfg.Payment.Type == "http" {
		return gateway.NewHTTPPaymentGateway(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.Timeout(), breakerSettings(cfg.Payment.Breaker))
	}
	logger.Warn("Using sandbox payment gateway")
	return gateway.NewSandboxPaymentGateway()
}

func NewTaxService(cfg *config.Config) gateway.TaxService {
	if cfg.Tax.Type == "http" {
		return gateway.NewHTTPTaxService(cfg.Tax.BaseURL, cfg.Tax.APIKey, cfg.Tax.Timeout(), breakerSettings(cfg.Tax.Breaker))
	}
	logger.Warn("Using sandbox tax service", "rate_basis_points", cfg.Tax.RateBasisPoints)
	return gateway.NewSandboxTaxService(cfg.Tax.RateBasisPoints)
}

func NewPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "amqp":
		p, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "kafka":
		return events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic), nil
	default:
		return events.NewNoopPublisher(), nil
	}
}

// NewNotifier wires SendGrid email and Firebase push when configured. Missing channels
// fall back to logging.
func NewNotifier(ctx context.Context, cfg *config.Config, repos service.Repositories) (service.NotificationService, error) {
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.Host, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	var pushSvc service.PushService
	if cfg.Firebase.Enabled {
		p, err := service.NewFirebasePushService(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		pushSvc = p
	}

	return service.NewNotificationService(repos.Notifications, repos.Customers, emailSvc, pushSvc), nil
}
