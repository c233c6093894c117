package repository

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

type UnitRepository interface {
	Create(ctx context.Context, unit *domain.RentalUnit) error
	GetByID(ctx context.Context, id int32) (*domain.RentalUnit, error)
	ListByCollection(ctx context.Context, collectionID int32) ([]domain.RentalUnit, error)
	// ListByStylist returns every unit the stylist serves
	ListByStylist(ctx context.Context, stylistID int32) ([]domain.RentalUnit, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id string) error

	// ListActiveOverlapping returns non-rejected, non-canceled reservations of the
	// units whose effective window intersects w
	ListActiveOverlapping(ctx context.Context, unitIDs []int32, w domain.DateWindow) ([]domain.Reservation, error)
	ListByCustomer(ctx context.Context, customerID int32, since time.Time) ([]domain.Reservation, error)
	// ListExpiredLocks returns bare LOCKED reservations of the kind created before cutoff
	ListExpiredLocks(ctx context.Context, kind domain.UnitKind, cutoff time.Time) ([]domain.Reservation, error)
	ListPendingTaxCaptures(ctx context.Context, limit int32) ([]domain.Reservation, error)
	ListPendingTaxReversals(ctx context.Context, limit int32) ([]domain.Reservation, error)
}

type DiscountRuleRepository interface {
	Create(ctx context.Context, rule *domain.DiscountRule) error
	ListActive(ctx context.Context, now time.Time) ([]domain.DiscountRule, error)
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error
	GetBalance(ctx context.Context, customerID int32) (int64, error)
	ListTransactions(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	AddCard(ctx context.Context, card *domain.PaymentCard) error
	GetCard(ctx context.Context, customerID int32, cardID string) (*domain.PaymentCard, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, customerID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, customerID int32) error
}
