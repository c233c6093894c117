package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wardrobe-rental-backend/internal/availability"
	"wardrobe-rental-backend/internal/cache"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/events"
	"wardrobe-rental-backend/internal/gateway"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/pricing"

	"github.com/google/uuid"
)

type reservationService struct {
	repos     Repositories
	payment   gateway.PaymentGateway
	tax       gateway.TaxService
	notifier  NotificationService
	publisher events.Publisher
	cache     cache.AvailabilityCache
	discounts *pricing.DiscountEngine
	cfg       domain.EngineConfig
}

func NewReservationService(
	repos Repositories,
	payment gateway.PaymentGateway,
	tax gateway.TaxService,
	notifier NotificationService,
	publisher events.Publisher,
	c cache.AvailabilityCache,
	cfg domain.EngineConfig,
) ReservationEngine {
	if c == nil {
		c = cache.NewNoopCache()
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &reservationService{
		repos:     repos,
		payment:   payment,
		tax:       tax,
		notifier:  notifier,
		publisher: publisher,
		cache:     c,
		discounts: pricing.NewDiscountEngine(cfg),
		cfg:       cfg,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, customerID, unitID int32, from, till time.Time) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "customerID", customerID, "unitID", unitID)

	unit, err := s.repos.Units.GetByID(ctx, unitID)
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "reason", "unit lookup failed")
		return nil, err
	}
	if !unit.Offerable() {
		return nil, domain.NewError(domain.ErrorKindUnitUnavailable, "unit is not offered")
	}

	now := time.Now().UTC()
	requested := domain.NewDateWindow(from, till, unit.Grain())
	if !requested.Valid(s.cfg.Horizon(now, unit.Grain())) {
		return nil, domain.NewError(domain.ErrorKindInvalidWindow, "window must be ordered and inside the booking horizon")
	}
	if requested.Len() < int(unit.MinimumDuration) {
		return nil, domain.NewError(domain.ErrorKindInvalidWindow, fmt.Sprintf("window is shorter than the minimum of %d", unit.MinimumDuration))
	}
	effective := requested.Expand(int(unit.LeadBuffer), int(unit.TrailBuffer))

	ranges, err := computeBookable(ctx, s.repos, unit, effective)
	if err != nil {
		return nil, err
	}
	if !availability.Covers(ranges, requested) {
		logger.ExitMethod("reservationService.CreateReservation", "result", "unavailable", "window", requested.String())
		return nil, domain.NewError(domain.ErrorKindUnitUnavailable, "no capacity left for the requested window")
	}

	res := &domain.Reservation{
		ID:              uuid.NewString(),
		UnitID:          unit.ID,
		UnitKind:        unit.Kind,
		StylistID:       unit.StylistID,
		CustomerID:      customerID,
		RequestedWindow: requested,
		EffectiveWindow: effective,
		State:           domain.NewStateSet(domain.StateLocked),
		CreatedOn:       now,
		UpdatedOn:       now,
	}
	if err := s.reprice(ctx, res, unit); err != nil {
		return nil, err
	}
	if err := s.repos.Reservations.Create(ctx, res); err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "reason", "insert failed")
		return nil, err
	}

	// Every other overlapping hold counts here, so racing creates cannot overbook
	current, err := s.repos.Reservations.ListActiveOverlapping(ctx, []int32{unit.ID}, effective)
	if err != nil {
		s.discard(ctx, res)
		return nil, err
	}
	if !availability.Survives(unit.Capacity(), current, res.ID) {
		s.discard(ctx, res)
		logger.ExitMethod("reservationService.CreateReservation", "result", "lost race", "reservationID", res.ID)
		return nil, domain.NewError(domain.ErrorKindUnitUnavailable, "capacity was taken by a concurrent reservation")
	}

	s.invalidate(ctx, res)
	logger.ExitMethod("reservationService.CreateReservation", "reservationID", res.ID)
	return res, nil
}

func (s *reservationService) GetReservation(ctx context.Context, customerID int32, id string) (*domain.Reservation, error) {
	return s.load(ctx, customerID, id)
}

func (s *reservationService) SetDiscountCode(ctx context.Context, customerID int32, id, code string) (*domain.Reservation, error) {
	return s.edit(ctx, customerID, id, func(res *domain.Reservation) error {
		code = strings.TrimSpace(code)
		if code == "" {
			res.DiscountCode = nil
		} else {
			res.DiscountCode = &code
		}
		return nil
	})
}

func (s *reservationService) SetShippingAddress(ctx context.Context, customerID int32, id string, addr domain.Address) (*domain.Reservation, error) {
	if addr.Empty() {
		return nil, domain.NewError(domain.ErrorKindInvalidArgument, "address needs a street line and a postal code")
	}
	return s.edit(ctx, customerID, id, func(res *domain.Reservation) error {
		res.ShippingAddress = &addr
		res.ShowroomID = nil
		return nil
	})
}

func (s *reservationService) SetShowroom(ctx context.Context, customerID int32, id string, showroomID int32) (*domain.Reservation, error) {
	if _, ok := s.cfg.Showroom(showroomID); !ok {
		return nil, domain.NewError(domain.ErrorKindNotFound, "showroom not found")
	}
	return s.edit(ctx, customerID, id, func(res *domain.Reservation) error {
		res.ShowroomID = &showroomID
		res.ShippingAddress = nil
		return nil
	})
}

func (s *reservationService) SetPaymentCard(ctx context.Context, customerID int32, id, cardID string) (*domain.Reservation, error) {
	return s.edit(ctx, customerID, id, func(res *domain.Reservation) error {
		if _, err := s.repos.Customers.GetCard(ctx, res.CustomerID, cardID); err != nil {
			return domain.WrapError(domain.ErrorKindNotFound, "payment card not found", err)
		}
		res.PaymentCardID = &cardID
		return nil
	})
}

// edit applies change to an editable reservation, reprices it and persists it. A tax
// lookup failure still persists the reservation with tax cleared.
func (s *reservationService) edit(ctx context.Context, customerID int32, id string, change func(*domain.Reservation) error) (*domain.Reservation, error) {
	res, err := s.load(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if res.State.Has(domain.StateCharged) {
		return nil, domain.ErrAlreadyCharged
	}
	if !res.State.CanEdit() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "reservation can no longer be edited")
	}
	if err := change(res); err != nil {
		return nil, err
	}

	unit, err := s.repos.Units.GetByID(ctx, res.UnitID)
	if err != nil {
		return nil, err
	}
	priceErr := s.reprice(ctx, res, unit)
	if priceErr != nil && domain.KindOf(priceErr) != domain.ErrorKindTaxServiceFailed {
		return nil, priceErr
	}
	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	if priceErr != nil {
		return res, priceErr
	}
	return res, nil
}

// reprice replaces the price breakdown and applied discounts. Tax is looked up only
// once the reservation has a destination; a failed lookup leaves tax cleared.
func (s *reservationService) reprice(ctx context.Context, res *domain.Reservation, unit *domain.RentalUnit) error {
	now := time.Now().UTC()

	cost, err := pricing.CalculateRentalCost(unit, res.RequestedWindow)
	if err != nil {
		return err
	}
	delivery := unit.DeliveryPriceCents
	if res.ShowroomID != nil {
		delivery = 0
	}

	customer, err := s.repos.Customers.GetByID(ctx, res.CustomerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	rules, err := s.repos.Discounts.ListActive(ctx, now)
	if err != nil {
		return err
	}
	var history []domain.Reservation
	if res.ShippingAddress != nil {
		recent, err := s.repos.Reservations.ListByCustomer(ctx, res.CustomerID, now.Add(-s.cfg.RepeatShippingWindow-24*time.Hour))
		if err != nil {
			return err
		}
		for _, r := range recent {
			if r.ID != res.ID {
				history = append(history, r)
			}
		}
	}

	result := s.discounts.Resolve(pricing.DiscountInput{
		Reservation:    res,
		Customer:       customer,
		ProductCents:   cost.TotalCost,
		DeliveryCents:  delivery,
		InsuranceCents: unit.InsurancePriceCents,
		Rules:          rules,
		History:        history,
		Now:            now,
	})
	res.Price = result.Price
	res.AppliedDiscounts = result.Applied
	res.DiscountDescription = result.Description

	if !res.HasDestination() {
		return nil
	}
	tax, err := s.lookupTax(ctx, res, unit)
	if err != nil {
		res.Price = res.Price.WithTax(nil)
		logger.Warn("Tax lookup failed, tax cleared", "reservationID", res.ID, "error", err)
		return asKind(domain.ErrorKindTaxServiceFailed, "tax lookup failed", err)
	}
	res.Price = res.Price.WithTax(&tax)
	return nil
}

func (s *reservationService) lookupTax(ctx context.Context, res *domain.Reservation, unit *domain.RentalUnit) (int64, error) {
	var destination domain.Address
	if res.ShowroomID != nil {
		showroom, ok := s.cfg.Showroom(*res.ShowroomID)
		if !ok {
			return 0, domain.NewError(domain.ErrorKindNotFound, "showroom not found")
		}
		destination = showroom.Address
	} else {
		destination = *res.ShippingAddress
	}

	p := res.Price
	items := []gateway.TaxItem{
		{Reference: "product", Description: unit.Name, AmountCents: p.ProductNetCents()},
		{Reference: "delivery", Description: "Delivery", AmountCents: p.DeliveryNetCents()},
		{Reference: "insurance", Description: "Insurance", AmountCents: p.InsuranceNetCents()},
	}
	if p.TotalDiscountCents > 0 {
		items = append(items, gateway.TaxItem{Reference: "order_discount", Description: "Order discount", AmountCents: -p.TotalDiscountCents})
	}
	return s.tax.Lookup(ctx, gateway.TaxLookupRequest{
		Origin:      unit.OriginAddress,
		Destination: destination,
		Currency:    s.cfg.Currency,
		Items:       items,
	})
}

func (s *reservationService) Release(ctx context.Context, customerID int32, id string) error {
	logger.EnterMethod("reservationService.Release", "reservationID", id)

	res, err := s.load(ctx, customerID, id)
	if err != nil {
		return err
	}
	if !res.State.CanRelease() {
		return domain.ErrAlreadyCharged
	}
	if err := s.repos.Reservations.Delete(ctx, res.ID); err != nil {
		logger.ExitMethodWithError("reservationService.Release", err, "reservationID", id)
		return err
	}
	s.invalidate(ctx, res)

	logger.ExitMethod("reservationService.Release", "reservationID", id)
	return nil
}

func (s *reservationService) ConfirmAndCharge(ctx context.Context, customerID int32, id, cardID string) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.ConfirmAndCharge", "reservationID", id)

	res, err := s.load(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if res.State.Has(domain.StateCharged) {
		return nil, domain.ErrAlreadyCharged
	}
	if !res.State.CanConfirm() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "reservation is no longer active")
	}

	if cardID != "" {
		if _, err := s.repos.Customers.GetCard(ctx, res.CustomerID, cardID); err != nil {
			return nil, domain.WrapError(domain.ErrorKindNotFound, "payment card not found", err)
		}
		res.PaymentCardID = &cardID
	}
	if !res.HasDestination() {
		return nil, domain.NewError(domain.ErrorKindPreconditionMissing, "a shipping address or showroom is required")
	}
	if res.PaymentCardID == nil {
		return nil, domain.NewError(domain.ErrorKindPreconditionMissing, "a payment card is required")
	}
	if res.Price.TaxCents == nil {
		unit, err := s.repos.Units.GetByID(ctx, res.UnitID)
		if err != nil {
			return nil, err
		}
		if err := s.reprice(ctx, res, unit); err != nil {
			if uerr := s.repos.Reservations.Update(ctx, res); uerr != nil {
				logger.Error("Failed to persist cleared tax", "reservationID", res.ID, "error", uerr)
			}
			return nil, err
		}
	}

	customer, err := s.repos.Customers.GetByID(ctx, res.CustomerID)
	if err != nil {
		return nil, err
	}
	balance, err := s.repos.Ledger.GetBalance(ctx, res.CustomerID)
	if err != nil {
		return nil, err
	}
	res.BalanceUsedCents = 0
	if balance > 0 {
		res.BalanceUsedCents = min(balance, res.Price.TotalCents)
	}

	now := time.Now().UTC()
	res.State = res.State.With(domain.StateConfirmed)
	res.ConfirmedOn = &now

	if due := res.AmountDueCents(); due > 0 {
		card, err := s.repos.Customers.GetCard(ctx, res.CustomerID, *res.PaymentCardID)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorKindNotFound, "payment card not found", err)
		}
		charge, err := s.payment.Charge(ctx, gateway.ChargeRequest{
			CustomerToken: customer.PaymentToken,
			CardToken:     card.Token,
			AmountCents:   due,
			Currency:      s.cfg.Currency,
			Metadata:      map[string]string{"reservation_id": res.ID, "customer_id": fmt.Sprint(res.CustomerID)},
		})
		if err != nil {
			res.BalanceUsedCents = 0
			if uerr := s.repos.Reservations.Update(ctx, res); uerr != nil {
				logger.Error("Failed to persist confirmed reservation after payment failure", "reservationID", res.ID, "error", uerr)
			} else {
				s.invalidate(ctx, res)
			}
			logger.ExitMethodWithError("reservationService.ConfirmAndCharge", err, "reservationID", res.ID)
			return nil, asKind(domain.ErrorKindPaymentFailed, "charge failed", err)
		}
		res.ChargeID = &charge.ChargeID
		chargedOn := charge.ChargedOn.UTC()
		res.ChargedOn = &chargedOn
	} else {
		res.ChargedOn = &now
	}
	res.State = res.State.With(domain.StateCharged)

	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		logger.Error("Charged reservation could not be persisted", "reservationID", res.ID, "chargeID", res.ChargeID, "error", err)
		return nil, err
	}
	s.invalidate(ctx, res)
	logger.StateChanged(ctx, res.ID, res.State.Without(domain.StateCharged).String(), res.State.String(), "amount", res.AmountDueCents())

	if res.BalanceUsedCents > 0 {
		related := res.ID
		tx := &domain.LedgerTransaction{
			CustomerID:           res.CustomerID,
			AmountCents:          -res.BalanceUsedCents,
			Type:                 domain.TransactionTypeBalanceUsed,
			RelatedReservationID: &related,
			Description:          "Balance applied to reservation",
		}
		if err := s.repos.Ledger.CreateTransaction(ctx, tx); err != nil {
			logger.Error("Failed to record balance usage", "reservationID", res.ID, "amount", res.BalanceUsedCents, "error", err)
		}
	}

	s.captureTax(ctx, res)

	s.notifier.Notify(ctx, res.CustomerID, "Reservation confirmed",
		fmt.Sprintf("Your reservation for %s is confirmed. Total charged: %s.", res.RequestedWindow.String(), formatCents(res.AmountDueCents(), s.cfg.Currency)),
		map[string]string{"type": "RESERVATION_CHARGED", "reservation_id": res.ID})
	s.publish(ctx, events.TypeReservationCharged, res, res.AmountDueCents())

	logger.ExitMethod("reservationService.ConfirmAndCharge", "reservationID", res.ID)
	return res, nil
}

func (s *reservationService) Refund(ctx context.Context, customerID int32, id string) (*domain.Reservation, error) {
	res, err := s.load(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.refund(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// refund returns the money, then the used balance, then reverses captured tax. The
// refunded flag is set even when the tax reversal fails.
func (s *reservationService) refund(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationService.refund", "reservationID", res.ID)

	if !res.State.CanRefund() {
		return domain.NewError(domain.ErrorKindIllegalStateTransition, "only charged, unrefunded reservations can be refunded")
	}

	if res.ChargeID != nil {
		err := s.payment.Refund(ctx, *res.ChargeID, map[string]string{"reservation_id": res.ID})
		if err != nil {
			logger.ExitMethodWithError("reservationService.refund", err, "reservationID", res.ID)
			return asKind(domain.ErrorKindPaymentFailed, "refund failed", err)
		}
	}
	if res.BalanceUsedCents > 0 {
		related := res.ID
		tx := &domain.LedgerTransaction{
			CustomerID:           res.CustomerID,
			AmountCents:          res.BalanceUsedCents,
			Type:                 domain.TransactionTypeBalanceRefund,
			RelatedReservationID: &related,
			Description:          "Balance returned for refunded reservation",
		}
		if err := s.repos.Ledger.CreateTransaction(ctx, tx); err != nil {
			logger.Error("Failed to return used balance", "reservationID", res.ID, "error", err)
		}
	}

	from := res.State.String()
	res.State = res.State.With(domain.StateRefunded)
	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		logger.ExitMethodWithError("reservationService.refund", err, "reservationID", res.ID)
		return err
	}
	logger.StateChanged(ctx, res.ID, from, res.State.String())

	s.reverseTax(ctx, res)

	s.notifier.Notify(ctx, res.CustomerID, "Reservation refunded",
		fmt.Sprintf("Your reservation for %s has been refunded.", res.RequestedWindow.String()),
		map[string]string{"type": "RESERVATION_REFUNDED", "reservation_id": res.ID})
	s.publish(ctx, events.TypeReservationRefunded, res, res.AmountDueCents())

	logger.ExitMethod("reservationService.refund", "reservationID", res.ID)
	return nil
}

func (s *reservationService) Cancel(ctx context.Context, customerID int32, id string) (*domain.Reservation, error) {
	res, err := s.load(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	if !res.State.CanCancel() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "charged or inactive reservations cannot be canceled")
	}
	return s.transition(ctx, res, domain.StateCanceled)
}

// Reject refunds a charged reservation first.
func (s *reservationService) Reject(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.load(ctx, 0, id)
	if err != nil {
		return nil, err
	}
	if !res.State.CanReject() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "reservation cannot be rejected")
	}
	if res.State.CanRefund() {
		if err := s.refund(ctx, res); err != nil {
			return nil, err
		}
	}
	return s.transition(ctx, res, domain.StateRejected)
}

func (s *reservationService) MarkDelivered(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.load(ctx, 0, id)
	if err != nil {
		return nil, err
	}
	if !res.State.CanDeliver() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "only charged reservations can be delivered")
	}
	return s.transition(ctx, res, domain.StateDelivered)
}

func (s *reservationService) MarkReturned(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.load(ctx, 0, id)
	if err != nil {
		return nil, err
	}
	if !res.State.CanReturn() {
		return nil, domain.NewError(domain.ErrorKindIllegalStateTransition, "only delivered reservations can be returned")
	}
	return s.transition(ctx, res, domain.StateReturned)
}

func (s *reservationService) transition(ctx context.Context, res *domain.Reservation, flag domain.StateFlag) (*domain.Reservation, error) {
	wasActive := res.State.IsActive()
	from := res.State.String()
	res.State = res.State.With(flag)
	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		return nil, err
	}
	if wasActive && !res.State.IsActive() {
		s.invalidate(ctx, res)
	}
	logger.StateChanged(ctx, res.ID, from, res.State.String())
	return res, nil
}

// ReleaseExpiredLocks deletes reservations still in the bare locked state past their
// lock timeout. Failures are logged per row and the sweep continues.
func (s *reservationService) ReleaseExpiredLocks(ctx context.Context, now time.Time) (int, error) {
	released := 0
	for _, kind := range []domain.UnitKind{domain.UnitKindApparel, domain.UnitKindStylist} {
		cutoff := now.Add(-s.cfg.LockTimeout(kind))
		expired, err := s.repos.Reservations.ListExpiredLocks(ctx, kind, cutoff)
		if err != nil {
			return released, fmt.Errorf("failed to list expired %s locks: %w", kind, err)
		}
		for _, res := range expired {
			current, err := s.repos.Reservations.GetByID(ctx, res.ID)
			if err != nil || !current.State.IsSoftLocked() {
				continue
			}
			if err := s.repos.Reservations.Delete(ctx, res.ID); err != nil {
				logger.WithReservation(res.ID).Warn("Failed to release expired lock", "error", err)
				continue
			}
			s.invalidate(ctx, current)
			released++
		}
	}
	return released, nil
}

// ReconcileTaxes retries tax captures and reversals that failed inline.
func (s *reservationService) ReconcileTaxes(ctx context.Context, limit int32) (int, int, error) {
	captures, err := s.repos.Reservations.ListPendingTaxCaptures(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list pending tax captures: %w", err)
	}
	captured := 0
	for i := range captures {
		if s.captureTax(ctx, &captures[i]) {
			captured++
		}
	}

	reversals, err := s.repos.Reservations.ListPendingTaxReversals(ctx, limit)
	if err != nil {
		return captured, 0, fmt.Errorf("failed to list pending tax reversals: %w", err)
	}
	reversed := 0
	for i := range reversals {
		if s.reverseTax(ctx, &reversals[i]) {
			reversed++
		}
	}
	return captured, reversed, nil
}

func (s *reservationService) captureTax(ctx context.Context, res *domain.Reservation) bool {
	if _, err := s.tax.Capture(ctx, res.CustomerID, res.ID, res.ID); err != nil {
		logger.WithReservation(res.ID).Warn("Tax capture failed, left for reconciliation", "error", err)
		return false
	}
	res.State = res.State.With(domain.StateTaxCaptured)
	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		logger.WithReservation(res.ID).Error("Failed to record tax capture", "error", err)
		return false
	}
	return true
}

func (s *reservationService) reverseTax(ctx context.Context, res *domain.Reservation) bool {
	if !res.State.Has(domain.StateTaxCaptured) {
		return false
	}
	if _, err := s.tax.Reverse(ctx, res.ID); err != nil {
		logger.WithReservation(res.ID).Warn("Tax reversal failed, left for reconciliation", "error", err)
		return false
	}
	res.State = res.State.With(domain.StateTaxReversed)
	if err := s.repos.Reservations.Update(ctx, res); err != nil {
		logger.WithReservation(res.ID).Error("Failed to record tax reversal", "error", err)
		return false
	}
	return true
}

func (s *reservationService) load(ctx context.Context, customerID int32, id string) (*domain.Reservation, error) {
	res, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != 0 && res.CustomerID != customerID {
		return nil, domain.ErrReservationNotFound
	}
	return res, nil
}

func (s *reservationService) discard(ctx context.Context, res *domain.Reservation) {
	if err := s.repos.Reservations.Delete(ctx, res.ID); err != nil {
		logger.Error("Failed to discard reservation", "reservationID", res.ID, "error", err)
	}
}

// invalidate drops cached availability for the reservation's unit. A stylist's free
// slots also depend on confirmed bookings of the stylist's other units, so every unit
// of that stylist is dropped too.
func (s *reservationService) invalidate(ctx context.Context, res *domain.Reservation) {
	unitIDs := []int32{res.UnitID}
	if res.StylistID != nil {
		units, err := s.repos.Units.ListByStylist(ctx, *res.StylistID)
		if err != nil {
			logger.Warn("Failed to list stylist units for cache invalidation", "stylistID", *res.StylistID, "error", err)
		}
		for _, u := range units {
			if u.ID != res.UnitID {
				unitIDs = append(unitIDs, u.ID)
			}
		}
	}
	for _, id := range unitIDs {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn("Availability cache invalidation failed", "unitID", id, "error", err)
		}
	}
}

func (s *reservationService) publish(ctx context.Context, eventType string, res *domain.Reservation, amount int64) {
	e := events.NewEvent(eventType, res.ID, res.CustomerID, res.UnitID, amount, s.cfg.Currency)
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish reservation event", "type", eventType, "reservationID", res.ID, "error", err)
	}
}

// asKind keeps a domain error as is and wraps anything else in the given kind.
func asKind(kind domain.ErrorKind, msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.WrapError(kind, msg, err)
}

func formatCents(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}
