package service

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/availability"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository"
)

// Repositories bundles the stores the services share.
type Repositories struct {
	Units         repository.UnitRepository
	Reservations  repository.ReservationRepository
	Discounts     repository.DiscountRuleRepository
	Ledger        repository.LedgerRepository
	Customers     repository.CustomerRepository
	Notifications repository.NotificationRepository
}

type UnitAvailability struct {
	Unit   domain.RentalUnit    `json:"unit"`
	Lookup domain.DateWindow    `json:"lookup"`
	Ranges []availability.Range `json:"ranges"`
}

type AvailabilityService interface {
	// ListUnitAvailability clamps [from, till] to the booking horizon. Zero bounds mean
	// the whole horizon.
	ListUnitAvailability(ctx context.Context, unitID int32, from, till time.Time) (*UnitAvailability, error)
	ListCollectionAvailability(ctx context.Context, collectionID int32, from, till time.Time) ([]UnitAvailability, error)
	ListUnavailable(ctx context.Context, unitID int32, from, till time.Time) ([]domain.DateWindow, error)
}

// ReservationService drives a reservation through its lifecycle. A customerID of 0
// marks an operator call that skips the ownership check.
type ReservationService interface {
	CreateReservation(ctx context.Context, customerID, unitID int32, from, till time.Time) (*domain.Reservation, error)
	GetReservation(ctx context.Context, customerID int32, id string) (*domain.Reservation, error)
	SetDiscountCode(ctx context.Context, customerID int32, id, code string) (*domain.Reservation, error)
	SetShippingAddress(ctx context.Context, customerID int32, id string, addr domain.Address) (*domain.Reservation, error)
	SetShowroom(ctx context.Context, customerID int32, id string, showroomID int32) (*domain.Reservation, error)
	SetPaymentCard(ctx context.Context, customerID int32, id, cardID string) (*domain.Reservation, error)
	Release(ctx context.Context, customerID int32, id string) error
	ConfirmAndCharge(ctx context.Context, customerID int32, id, cardID string) (*domain.Reservation, error)
	Refund(ctx context.Context, customerID int32, id string) (*domain.Reservation, error)
	Cancel(ctx context.Context, customerID int32, id string) (*domain.Reservation, error)
	Reject(ctx context.Context, id string) (*domain.Reservation, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Reservation, error)
	MarkReturned(ctx context.Context, id string) (*domain.Reservation, error)
}

// MaintenanceService holds the background sweeps.
type MaintenanceService interface {
	ReleaseExpiredLocks(ctx context.Context, now time.Time) (int, error)
	ReconcileTaxes(ctx context.Context, limit int32) (captured, reversed int, err error)
}

// ReservationEngine is the lifecycle manager together with its sweeps.
type ReservationEngine interface {
	ReservationService
	MaintenanceService
}

type LedgerService interface {
	GetBalance(ctx context.Context, customerID int32) (int64, error)
	GetTransactions(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
	Credit(ctx context.Context, customerID int32, amountCents int64, txType domain.TransactionType, description string) (*domain.LedgerTransaction, error)
}

// NotificationService stores a customer notification and fans it out to email and
// push. Delivery failures are logged, never returned.
type NotificationService interface {
	Notify(ctx context.Context, customerID int32, title, message string, attrs map[string]string)
	GetNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, customerID, notificationID int32) error
}

type EmailService interface {
	SendNotification(ctx context.Context, email, name, subject, body string) error
}

type PushService interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
