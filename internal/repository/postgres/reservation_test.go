package postgres_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationCols = []string{
	"id", "unit_id", "unit_kind", "stylist_id", "customer_id", "requested_from", "requested_till", "effective_from", "effective_till",
	"state", "discount_code", "applied_discounts", "discount_description", "price", "shipping_address", "showroom_id", "payment_card_id", "charge_id",
	"balance_used_cents", "confirmed_on", "charged_on", "created_on", "updated_on",
}

func reservationRow(id string, state domain.StateSet, address []byte) []driver.Value {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	till := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	var addr driver.Value
	if address != nil {
		addr = address
	}
	return []driver.Value{
		id, 4, "APPAREL", nil, 7, from, till, from.AddDate(0, 0, -1), till.AddDate(0, 0, 1),
		int64(state), "VIP30", []byte(`[{"rule_id":1,"scope":"TOTAL","priority":20,"amount_cents":3300,"note":"VIP"}]`), "VIP",
		[]byte(`{"product_cents":10000,"subtotal_cents":7700,"tax_cents":null,"total_cents":7700}`), addr, nil, "card_1", nil,
		0, nil, nil, created, created,
	}
}

func TestReservationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	now := time.Now().UTC()
	w := domain.NewDateWindow(now.AddDate(0, 0, 3), now.AddDate(0, 0, 6), domain.GrainDay)
	res := &domain.Reservation{
		ID:              "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		UnitID:          4,
		UnitKind:        domain.UnitKindApparel,
		CustomerID:      7,
		RequestedWindow: w,
		EffectiveWindow: w.Expand(1, 1),
		State:           domain.NewStateSet(domain.StateLocked),
		CreatedOn:       now,
		UpdatedOn:       now,
	}

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(res.ID, res.UnitID, "APPAREL", nil, res.CustomerID,
			w.From, w.Till, res.EffectiveWindow.From, res.EffectiveWindow.Till,
			int64(1), nil, []byte("[]"), "", sqlmock.AnyArg(), nil, nil, nil, nil,
			int64(0), nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), res)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		state := domain.NewStateSet(domain.StateLocked, domain.StateConfirmed)
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(reservationRow("r-1", state, []byte(`{"line1":"1 Main St","postal_code":"12345"}`))...))

		res, err := repo.GetByID(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, int32(4), res.UnitID)
		assert.Equal(t, state, res.State)
		assert.Equal(t, 6, res.EffectiveWindow.Len())
		assert.Equal(t, 4, res.RequestedWindow.Len())
		require.NotNil(t, res.DiscountCode)
		assert.Equal(t, "VIP30", *res.DiscountCode)
		require.Len(t, res.AppliedDiscounts, 1)
		assert.Equal(t, int64(3300), res.AppliedDiscounts[0].AmountCents)
		assert.Equal(t, int64(7700), res.Price.TotalCents)
		assert.Nil(t, res.Price.TaxCents)
		require.NotNil(t, res.ShippingAddress)
		assert.Equal(t, "1 Main St", res.ShippingAddress.Line1)
		require.NotNil(t, res.PaymentCardID)
		assert.Nil(t, res.ChargeID)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(reservationCols))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	})
}

func TestReservationRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)

	mock.ExpectExec("DELETE FROM reservations WHERE id = \\$1").
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "r-1"))

	mock.ExpectExec("DELETE FROM reservations WHERE id = \\$1").
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "r-1"), domain.ErrReservationNotFound)
}

func TestReservationRepository_ListActiveOverlapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	w := domain.NewDateWindow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), domain.GrainDay)

	mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE unit_id = ANY\\(\\$1\\)").
		WithArgs(sqlmock.AnyArg(), w.Till, w.From, int64(domain.StateRejected|domain.StateCanceled)).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(reservationRow("r-1", domain.NewStateSet(domain.StateLocked), nil)...).
			AddRow(reservationRow("r-2", domain.NewStateSet(domain.StateLocked, domain.StateConfirmed), nil)...))

	got, err := repo.ListActiveOverlapping(context.Background(), []int32{4}, w)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Nil(t, got[0].ShippingAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ListExpiredLocks(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewReservationRepository(db)
	cutoff := time.Now().Add(-10 * time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE unit_kind = \\$1 AND created_on <= \\$2").
		WithArgs("APPAREL", cutoff, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reservationCols).AddRow(reservationRow("r-9", domain.NewStateSet(domain.StateLocked), nil)...))

	got, err := repo.ListExpiredLocks(context.Background(), domain.UnitKindApparel, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].State.IsSoftLocked())
}
