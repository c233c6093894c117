package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, unit_id, unit_kind, stylist_id, customer_id, requested_from, requested_till, effective_from, effective_till,
	state, discount_code, applied_discounts, discount_description, price, shipping_address, showroom_id, payment_card_id, charge_id,
	balance_used_cents, confirmed_on, charged_on, created_on, updated_on`

var (
	inactiveMask  = int(domain.StateRejected | domain.StateCanceled)
	lifecycleMask = int(domain.StateConfirmed | domain.StateCharged | domain.StateDelivered | domain.StateReturned |
		domain.StateRefunded | domain.StateRejected | domain.StateCanceled)
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	logger.DatabaseCall("INSERT", "reservations", "reservation_id", res.ID, "unit_id", res.UnitID)
	applied, price, address, err := encodeReservation(res)
	if err != nil {
		return err
	}

	query := `INSERT INTO reservations (id, unit_id, unit_kind, stylist_id, customer_id, requested_from, requested_till, effective_from, effective_till,
	          state, discount_code, applied_discounts, discount_description, price, shipping_address, showroom_id, payment_card_id, charge_id,
	          balance_used_cents, confirmed_on, charged_on, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	result, err := r.db.ExecContext(ctx, query, res.ID, res.UnitID, res.UnitKind, res.StylistID, res.CustomerID,
		res.RequestedWindow.From, res.RequestedWindow.Till, res.EffectiveWindow.From, res.EffectiveWindow.Till,
		int(res.State), res.DiscountCode, applied, res.DiscountDescription, price, address, res.ShowroomID, res.PaymentCardID, res.ChargeID,
		res.BalanceUsedCents, res.ConfirmedOn, res.ChargedOn, res.CreatedOn, res.UpdatedOn)
	logger.DatabaseResult("INSERT", rowsAffected(result), err, "reservation_id", res.ID)
	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrReservationNotFound)
	}
	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	logger.DatabaseCall("UPDATE", "reservations", "reservation_id", res.ID, "state", res.State.String())
	applied, price, address, err := encodeReservation(res)
	if err != nil {
		return err
	}

	res.UpdatedOn = time.Now().UTC()
	query := `UPDATE reservations SET state=$1, discount_code=$2, applied_discounts=$3, discount_description=$4, price=$5,
	          shipping_address=$6, showroom_id=$7, payment_card_id=$8, charge_id=$9, balance_used_cents=$10,
	          confirmed_on=$11, charged_on=$12, updated_on=$13 WHERE id=$14`
	result, err := r.db.ExecContext(ctx, query, int(res.State), res.DiscountCode, applied, res.DiscountDescription, price,
		address, res.ShowroomID, res.PaymentCardID, res.ChargeID, res.BalanceUsedCents,
		res.ConfirmedOn, res.ChargedOn, res.UpdatedOn, res.ID)
	n := rowsAffected(result)
	logger.DatabaseResult("UPDATE", n, err, "reservation_id", res.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "reservations", "reservation_id", id)
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	n := rowsAffected(result)
	logger.DatabaseResult("DELETE", n, err, "reservation_id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *reservationRepository) ListActiveOverlapping(ctx context.Context, unitIDs []int32, w domain.DateWindow) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE unit_id = ANY($1) AND effective_from <= $2 AND effective_till >= $3 AND (state & $4) = 0
	          ORDER BY created_on, id`
	return r.list(ctx, query, pq.Array(int32sToInt64s(unitIDs)), w.Till, w.From, inactiveMask)
}

func (r *reservationRepository) ListByCustomer(ctx context.Context, customerID int32, since time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE customer_id = $1 AND created_on >= $2 ORDER BY created_on DESC`
	return r.list(ctx, query, customerID, since)
}

func (r *reservationRepository) ListExpiredLocks(ctx context.Context, kind domain.UnitKind, cutoff time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE unit_kind = $1 AND created_on <= $2 AND (state & $3) = 0
	          ORDER BY created_on`
	return r.list(ctx, query, kind, cutoff, lifecycleMask)
}

func (r *reservationRepository) ListPendingTaxCaptures(ctx context.Context, limit int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE (state & $1) = $1 AND (state & $2) = 0
	          ORDER BY charged_on LIMIT $3`
	return r.list(ctx, query, int(domain.StateCharged), int(domain.StateTaxCaptured|domain.StateRefunded|domain.StateRejected), limit)
}

func (r *reservationRepository) ListPendingTaxReversals(ctx context.Context, limit int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE (state & $1) = $1 AND (state & $2) = 0
	          ORDER BY updated_on LIMIT $3`
	return r.list(ctx, query, int(domain.StateRefunded|domain.StateTaxCaptured), int(domain.StateTaxReversed), limit)
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	logger.DatabaseCall("SELECT", "reservations")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	logger.DatabaseResult("SELECT", int64(len(out)), rows.Err())
	return out, rows.Err()
}

// encodeReservation marshals the JSONB columns. address stays a nil interface when
// there is no shipping address so the driver writes NULL.
func encodeReservation(res *domain.Reservation) (applied, price []byte, address any, err error) {
	discounts := res.AppliedDiscounts
	if discounts == nil {
		discounts = []domain.AppliedDiscount{}
	}
	if applied, err = json.Marshal(discounts); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode applied discounts: %w", err)
	}
	if price, err = json.Marshal(res.Price); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode price breakdown: %w", err)
	}
	if res.ShippingAddress != nil {
		encoded, err := json.Marshal(res.ShippingAddress)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode shipping address: %w", err)
		}
		address = encoded
	}
	return applied, price, address, nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	var (
		stylistID, showroomID              sql.NullInt32
		discountCode, cardID, chargeID     sql.NullString
		confirmedOn, chargedOn             sql.NullTime
		state                              int
		applied, price, address            []byte
		reqFrom, reqTill, effFrom, effTill time.Time
	)
	err := row.Scan(&res.ID, &res.UnitID, &res.UnitKind, &stylistID, &res.CustomerID, &reqFrom, &reqTill, &effFrom, &effTill,
		&state, &discountCode, &applied, &res.DiscountDescription, &price, &address, &showroomID, &cardID, &chargeID,
		&res.BalanceUsedCents, &confirmedOn, &chargedOn, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		return nil, err
	}

	grain := domain.GrainDay
	if res.UnitKind == domain.UnitKindStylist {
		grain = domain.GrainHour
	}
	res.RequestedWindow = domain.DateWindow{From: reqFrom.UTC(), Till: reqTill.UTC(), Grain: grain}
	res.EffectiveWindow = domain.DateWindow{From: effFrom.UTC(), Till: effTill.UTC(), Grain: grain}
	res.State = domain.StateSet(state)

	if stylistID.Valid {
		v := stylistID.Int32
		res.StylistID = &v
	}
	if showroomID.Valid {
		v := showroomID.Int32
		res.ShowroomID = &v
	}
	if discountCode.Valid {
		res.DiscountCode = &discountCode.String
	}
	if cardID.Valid {
		res.PaymentCardID = &cardID.String
	}
	if chargeID.Valid {
		res.ChargeID = &chargeID.String
	}
	if confirmedOn.Valid {
		res.ConfirmedOn = &confirmedOn.Time
	}
	if chargedOn.Valid {
		res.ChargedOn = &chargedOn.Time
	}

	if len(applied) > 0 {
		if err := json.Unmarshal(applied, &res.AppliedDiscounts); err != nil {
			return nil, fmt.Errorf("failed to decode applied discounts: %w", err)
		}
	}
	if len(price) > 0 {
		if err := json.Unmarshal(price, &res.Price); err != nil {
			return nil, fmt.Errorf("failed to decode price breakdown: %w", err)
		}
	}
	if len(address) > 0 {
		res.ShippingAddress = &domain.Address{}
		if err := json.Unmarshal(address, res.ShippingAddress); err != nil {
			return nil, fmt.Errorf("failed to decode shipping address: %w", err)
		}
	}
	return res, nil
}

func rowsAffected(result sql.Result) int64 {
	if result == nil {
		return 0
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
