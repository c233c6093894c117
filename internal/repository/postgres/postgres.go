package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
	repository.UnitRepository
	repository.ReservationRepository
	repository.DiscountRuleRepository
	repository.LedgerRepository
	repository.CustomerRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UnitRepository:         NewUnitRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		DiscountRuleRepository: NewDiscountRuleRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// Ping reports database readiness for health checks
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema migrations
func Migrate(db *sql.DB) error {
	logger.EnterMethod("postgres.Migrate")

	driver, err := migratepg.WithInstance(db, &migratepg.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		logger.ExitMethodWithError("postgres.Migrate", err)
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		logger.ExitMethodWithError("postgres.Migrate", err)
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		logger.ExitMethodWithError("postgres.Migrate", err)
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.ExitMethodWithError("postgres.Migrate", err)
		return fmt.Errorf("could not run migrations: %w", err)
	}

	logger.ExitMethod("postgres.Migrate")
	return nil
}

// notFound maps sql.ErrNoRows onto the domain error of the given kind
func notFound(err error, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

func int32sToInt64s(in []int32) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func int64sToInt32s(in []int64) []int32 {
	if len(in) == 0 {
		return nil
	}
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
