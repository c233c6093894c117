package postgres

import (
	"context"
	"database/sql"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
)

const unitColumns = `id, collection_id, name, kind, base_capacity, lead_buffer, trail_buffer, minimum_duration,
	daily_price_cents, weekly_price_cents, monthly_price_cents, slot_price_cents, delivery_price_cents, insurance_price_cents,
	stylist_id, stylist_type, origin_address, published, created_on`

type unitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) repository.UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, u *domain.RentalUnit) error {
	logger.DatabaseCall("INSERT", "rental_units", "name", u.Name)
	query := `INSERT INTO rental_units (collection_id, name, kind, base_capacity, lead_buffer, trail_buffer, minimum_duration,
	          daily_price_cents, weekly_price_cents, monthly_price_cents, slot_price_cents, delivery_price_cents, insurance_price_cents,
	          stylist_id, stylist_type, origin_address, published, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id`
	u.CreatedOn = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, u.CollectionID, u.Name, u.Kind, u.BaseCapacity, u.LeadBuffer, u.TrailBuffer, u.MinimumDuration,
		u.DailyPriceCents, u.WeeklyPriceCents, u.MonthlyPriceCents, u.SlotPriceCents, u.DeliveryPriceCents, u.InsurancePriceCents,
		u.StylistID, u.StylistType, u.OriginAddress, u.Published, u.CreatedOn).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "unit_id", u.ID)
	return err
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.RentalUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM rental_units WHERE id = $1`
	u, err := scanUnit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return u, nil
}

func (r *unitRepository) ListByCollection(ctx context.Context, collectionID int32) ([]domain.RentalUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM rental_units WHERE collection_id = $1 ORDER BY id`
	return r.list(ctx, query, collectionID)
}

func (r *unitRepository) ListByStylist(ctx context.Context, stylistID int32) ([]domain.RentalUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM rental_units WHERE stylist_id = $1 ORDER BY id`
	return r.list(ctx, query, stylistID)
}

func (r *unitRepository) list(ctx context.Context, query string, args ...any) ([]domain.RentalUnit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.RentalUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (*domain.RentalUnit, error) {
	u := &domain.RentalUnit{}
	var stylistID sql.NullInt32
	err := row.Scan(&u.ID, &u.CollectionID, &u.Name, &u.Kind, &u.BaseCapacity, &u.LeadBuffer, &u.TrailBuffer, &u.MinimumDuration,
		&u.DailyPriceCents, &u.WeeklyPriceCents, &u.MonthlyPriceCents, &u.SlotPriceCents, &u.DeliveryPriceCents, &u.InsurancePriceCents,
		&stylistID, &u.StylistType, &u.OriginAddress, &u.Published, &u.CreatedOn)
	if err != nil {
		return nil, err
	}
	if stylistID.Valid {
		id := stylistID.Int32
		u.StylistID = &id
	}
	return u, nil
}
