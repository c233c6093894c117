package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wardrobe-rental-backend/internal/cache"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/events"
	"wardrobe-rental-backend/internal/gateway"
	"wardrobe-rental-backend/internal/repository"
	"wardrobe-rental-backend/internal/repository/memory"
	"wardrobe-rental-backend/internal/service"

	"github.com/stretchr/testify/require"
)

var testCfg = domain.EngineConfig{
	MinLead:              24 * time.Hour,
	MaxAhead:             90 * 24 * time.Hour,
	GoodsLockTimeout:     10 * time.Minute,
	StylistLockTimeout:   3 * time.Minute,
	RepeatShippingWindow: time.Hour,
	Currency:             "usd",
	Showrooms: []domain.Showroom{
		{ID: 1, Name: "Downtown", Address: domain.Address{Line1: "5 Market St", City: "San Francisco", Region: "CA", PostalCode: "94105", Country: "US"}},
	},
}

var homeAddress = domain.Address{Line1: "1 Main St", City: "San Francisco", Region: "CA", PostalCode: "94107", Country: "US"}

type deps struct {
	payment   gateway.PaymentGateway
	tax       gateway.TaxService
	publisher events.Publisher
	cache     cache.AvailabilityCache
	wrap      func(repository.ReservationRepository) repository.ReservationRepository
}

type fixture struct {
	store        *memory.Store
	repos        service.Repositories
	engine       service.ReservationEngine
	availability service.AvailabilityService
	ledger       service.LedgerService
}

func newFixture(t *testing.T, d deps) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := service.Repositories{
		Units:         store.UnitRepository,
		Reservations:  store.ReservationRepository,
		Discounts:     store.DiscountRuleRepository,
		Ledger:        store.LedgerRepository,
		Customers:     store.CustomerRepository,
		Notifications: store.NotificationRepository,
	}
	if d.wrap != nil {
		repos.Reservations = d.wrap(repos.Reservations)
	}
	if d.payment == nil {
		d.payment = gateway.NewSandboxPaymentGateway()
	}
	if d.tax == nil {
		d.tax = gateway.NewSandboxTaxService(0)
	}

	notifier := service.NewNotificationService(repos.Notifications, repos.Customers, nil, nil)
	return &fixture{
		store:        store,
		repos:        repos,
		engine:       service.NewReservationService(repos, d.payment, d.tax, notifier, d.publisher, d.cache, testCfg),
		availability: service.NewAvailabilityService(repos, d.cache, testCfg),
		ledger:       service.NewLedgerService(repos.Ledger),
	}
}

func apparelUnit(capacity int32) *domain.RentalUnit {
	return &domain.RentalUnit{
		CollectionID:        9,
		Name:                "Silk evening gown",
		Kind:                domain.UnitKindApparel,
		BaseCapacity:        capacity,
		MinimumDuration:     1,
		DailyPriceCents:     3000,
		WeeklyPriceCents:    15000,
		MonthlyPriceCents:   50000,
		DeliveryPriceCents:  1000,
		InsurancePriceCents: 1000,
		OriginAddress:       "Warehouse 3, Oakland CA",
		Published:           true,
	}
}

func stylistUnit(stylistID int32, kind domain.StylistType) *domain.RentalUnit {
	return &domain.RentalUnit{
		CollectionID:    12,
		Name:            "Styling session",
		Kind:            domain.UnitKindStylist,
		BaseCapacity:    1,
		MinimumDuration: 1,
		SlotPriceCents:  5000,
		StylistID:       &stylistID,
		StylistType:     kind,
		Published:       true,
	}
}

func (f *fixture) addUnit(t *testing.T, u *domain.RentalUnit) *domain.RentalUnit {
	t.Helper()
	require.NoError(t, f.store.UnitRepository.Create(context.Background(), u))
	return u
}

// addCustomer registers a customer with one card, card_<id>, carrying cardToken.
func (f *fixture) addCustomer(t *testing.T, email, cardToken string) (*domain.Customer, string) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Customer{Email: email, Name: "Test Customer", PaymentToken: "cus_" + email}
	require.NoError(t, f.store.CustomerRepository.Create(ctx, c))
	cardID := fmt.Sprintf("card_%d", c.ID)
	require.NoError(t, f.store.CustomerRepository.AddCard(ctx, &domain.PaymentCard{ID: cardID, CustomerID: c.ID, Token: cardToken, Brand: "visa", Last4: "4242"}))
	return c, cardID
}

func (f *fixture) stored(t *testing.T, id string) *domain.Reservation {
	t.Helper()
	res, err := f.store.ReservationRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return res
}

// day returns midnight UTC n days from today.
func day(n int) time.Time {
	return domain.GrainDay.Truncate(time.Now().UTC()).AddDate(0, 0, n)
}

func hour(d, h int) time.Time {
	return day(d).Add(time.Duration(h) * time.Hour)
}
