// Package memory keeps every repository in process maps. It backs the dev server
// and the service scenario tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository"
)

type Store struct {
	repository.UnitRepository
	repository.ReservationRepository
	repository.DiscountRuleRepository
	repository.LedgerRepository
	repository.CustomerRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	return &Store{
		UnitRepository:         NewUnitRepository(),
		ReservationRepository:  NewReservationRepository(),
		DiscountRuleRepository: NewDiscountRuleRepository(),
		LedgerRepository:       NewLedgerRepository(),
		CustomerRepository:     NewCustomerRepository(),
		NotificationRepository: NewNotificationRepository(),
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// --- units

type unitRepository struct {
	mu     sync.RWMutex
	nextID int32
	units  map[int32]domain.RentalUnit
}

func NewUnitRepository() repository.UnitRepository {
	return &unitRepository{units: make(map[int32]domain.RentalUnit)}
}

func (r *unitRepository) Create(ctx context.Context, u *domain.RentalUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	u.CreatedOn = time.Now().UTC()
	r.units[u.ID] = *u
	return nil
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.RentalUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *unitRepository) ListByCollection(ctx context.Context, collectionID int32) ([]domain.RentalUnit, error) {
	return r.filter(func(u domain.RentalUnit) bool { return u.CollectionID == collectionID }), nil
}

func (r *unitRepository) ListByStylist(ctx context.Context, stylistID int32) ([]domain.RentalUnit, error) {
	return r.filter(func(u domain.RentalUnit) bool { return u.StylistID != nil && *u.StylistID == stylistID }), nil
}

func (r *unitRepository) filter(keep func(domain.RentalUnit) bool) []domain.RentalUnit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.RentalUnit
	for _, u := range r.units {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- reservations

type reservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]domain.Reservation
}

func NewReservationRepository() repository.ReservationRepository {
	return &reservationRepository{reservations: make(map[string]domain.Reservation)}
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reservations[res.ID]; exists {
		return domain.NewError(domain.ErrorKindIllegalStateTransition, "reservation id already exists")
	}
	r.reservations[res.ID] = cloneReservation(*res)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	out := cloneReservation(res)
	return &out, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[res.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	res.UpdatedOn = time.Now().UTC()
	r.reservations[res.ID] = cloneReservation(*res)
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return domain.ErrReservationNotFound
	}
	delete(r.reservations, id)
	return nil
}

func (r *reservationRepository) ListActiveOverlapping(ctx context.Context, unitIDs []int32, w domain.DateWindow) ([]domain.Reservation, error) {
	units := make(map[int32]bool, len(unitIDs))
	for _, id := range unitIDs {
		units[id] = true
	}
	return r.filter(func(res domain.Reservation) bool {
		return units[res.UnitID] && res.State.IsActive() && res.EffectiveWindow.Overlaps(w)
	}, byCreation), nil
}

func (r *reservationRepository) ListByCustomer(ctx context.Context, customerID int32, since time.Time) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool {
		return res.CustomerID == customerID && !res.CreatedOn.Before(since)
	}, func(a, b domain.Reservation) bool { return byCreation(b, a) }), nil
}

func (r *reservationRepository) ListExpiredLocks(ctx context.Context, kind domain.UnitKind, cutoff time.Time) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool {
		return res.UnitKind == kind && !res.CreatedOn.After(cutoff) && res.State.IsSoftLocked()
	}, byCreation), nil
}

func (r *reservationRepository) ListPendingTaxCaptures(ctx context.Context, limit int32) ([]domain.Reservation, error) {
	out := r.filter(func(res domain.Reservation) bool {
		return res.State.Has(domain.StateCharged) &&
			!res.State.HasAny(domain.StateTaxCaptured|domain.StateRefunded|domain.StateRejected)
	}, byCreation)
	return truncate(out, limit), nil
}

func (r *reservationRepository) ListPendingTaxReversals(ctx context.Context, limit int32) ([]domain.Reservation, error) {
	out := r.filter(func(res domain.Reservation) bool {
		return res.State.Has(domain.StateRefunded|domain.StateTaxCaptured) && !res.State.Has(domain.StateTaxReversed)
	}, byCreation)
	return truncate(out, limit), nil
}

func (r *reservationRepository) filter(keep func(domain.Reservation) bool, less func(a, b domain.Reservation) bool) []domain.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Reservation
	for _, res := range r.reservations {
		if keep(res) {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func byCreation(a, b domain.Reservation) bool {
	if !a.CreatedOn.Equal(b.CreatedOn) {
		return a.CreatedOn.Before(b.CreatedOn)
	}
	return a.ID < b.ID
}

func truncate(in []domain.Reservation, limit int32) []domain.Reservation {
	if limit > 0 && int(limit) < len(in) {
		return in[:limit]
	}
	return in
}

func cloneReservation(res domain.Reservation) domain.Reservation {
	out := res
	if res.AppliedDiscounts != nil {
		out.AppliedDiscounts = append([]domain.AppliedDiscount(nil), res.AppliedDiscounts...)
	}
	if res.ShippingAddress != nil {
		addr := *res.ShippingAddress
		out.ShippingAddress = &addr
	}
	if res.Price.TaxCents != nil {
		tax := *res.Price.TaxCents
		out.Price.TaxCents = &tax
	}
	return out
}

// --- discount rules

type discountRuleRepository struct {
	mu     sync.RWMutex
	nextID int32
	rules  []domain.DiscountRule
}

func NewDiscountRuleRepository() repository.DiscountRuleRepository {
	return &discountRuleRepository{}
}

func (r *discountRuleRepository) Create(ctx context.Context, rule *domain.DiscountRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rule.ID = r.nextID
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *discountRuleRepository) ListActive(ctx context.Context, now time.Time) ([]domain.DiscountRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.DiscountRule
	for _, rule := range r.rules {
		if rule.Published && !rule.Expired(now) {
			out = append(out, rule)
		}
	}
	return out, nil
}

// --- ledger

type ledgerRepository struct {
	mu     sync.RWMutex
	nextID int32
	txs    []domain.LedgerTransaction
}

func NewLedgerRepository() repository.LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tx.ID = r.nextID
	tx.CreatedOn = time.Now().UTC()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, customerID int32) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var balance int64
	for _, tx := range r.txs {
		if tx.CustomerID == customerID {
			balance += tx.AmountCents
		}
	}
	return balance, nil
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var mine []domain.LedgerTransaction
	for i := len(r.txs) - 1; i >= 0; i-- {
		if r.txs[i].CustomerID == customerID {
			mine = append(mine, r.txs[i])
		}
	}
	return paginate(mine, page, pageSize), int32(len(mine)), nil
}

func paginate[T any](items []T, page, pageSize int32) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := int((page - 1) * pageSize)
	if start >= len(items) {
		return nil
	}
	end := start + int(pageSize)
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// --- customers

type customerRepository struct {
	mu        sync.RWMutex
	nextID    int32
	customers map[int32]domain.Customer
	cards     map[string]domain.PaymentCard
}

func NewCustomerRepository() repository.CustomerRepository {
	return &customerRepository{
		customers: make(map[int32]domain.Customer),
		cards:     make(map[string]domain.PaymentCard),
	}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return domain.NewError(domain.ErrorKindIllegalStateTransition, "email already registered")
		}
	}
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	} else if c.ID > r.nextID {
		r.nextID = c.ID
	}
	c.CreatedOn = time.Now().UTC()
	r.customers[c.ID] = *c
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepository) AddCard(ctx context.Context, card *domain.PaymentCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.ID] = *card
	return nil
}

func (r *customerRepository) GetCard(ctx context.Context, customerID int32, cardID string) (*domain.PaymentCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[cardID]
	if !ok || card.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return &card, nil
}

// --- notifications

type notificationRepository struct {
	mu     sync.RWMutex
	nextID int32
	notes  []domain.Notification
}

func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedOn = time.Now().UTC()
	r.notes = append(r.notes, *n)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, customerID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var mine []domain.Notification
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].CustomerID == customerID {
			mine = append(mine, r.notes[i])
		}
	}
	total := int32(len(mine))
	if int(offset) >= len(mine) {
		return nil, total, nil
	}
	mine = mine[offset:]
	if limit > 0 && int(limit) < len(mine) {
		mine = mine[:limit]
	}
	return mine, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, customerID int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].ID == id && r.notes[i].CustomerID == customerID {
			r.notes[i].IsRead = true
			return nil
		}
	}
	return domain.NewError(domain.ErrorKindNotFound, "notification not found or access denied")
}
