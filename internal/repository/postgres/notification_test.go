package postgres_test

import (
	"context"
	"testing"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	n := &domain.Notification{
		CustomerID: 7,
		Title:      "Reservation confirmed",
		Message:    "Total charged: $77.00.",
		Attributes: map[string]string{"reservation_id": "r-1"},
	}

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int32(7), n.Title, n.Message, false, []byte(`{"reservation_id":"r-1"}`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, int32(3), n.ID)
	assert.False(t, n.CreatedOn.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count").WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT id, customer_id, title").WithArgs(int32(7), int32(1), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "title", "message", "is_read", "attributes", "created_on"}).
			AddRow(4, 7, "Reservation refunded", "Refunded.", true, []byte(`{"type":"RESERVATION_REFUNDED"}`), created))

	notes, total, err := repo.List(context.Background(), 7, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, notes, 1)
	assert.Equal(t, "RESERVATION_REFUNDED", notes[0].Attributes["type"])
	assert.True(t, notes[0].IsRead)
	assert.Equal(t, created, notes[0].CreatedOn)
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET is_read").WithArgs(int32(4), int32(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkAsRead(context.Background(), 4, 7))

	mock.ExpectExec("UPDATE notifications SET is_read").WithArgs(int32(4), int32(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.MarkAsRead(context.Background(), 4, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
