package pricing

import (
	"math"
	"sort"
	"strings"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

// DiscountInput is everything one pricing pass needs. History holds the customer's
// other recent reservations and feeds the repeat-shipping condition.
type DiscountInput struct {
	Reservation    *domain.Reservation
	Customer       *domain.Customer
	ProductCents   int64
	DeliveryCents  int64
	InsuranceCents int64
	Rules          []domain.DiscountRule
	History        []domain.Reservation
	Now            time.Time
}

type DiscountResult struct {
	Price       domain.PriceBreakdown
	Applied     []domain.AppliedDiscount
	Description string
}

// DiscountEngine resolves discount rules phase by phase: product, delivery, insurance,
// then total. Within a phase only the highest priority tier of matching rules applies,
// and every rule in that tier stacks.
type DiscountEngine struct {
	repeatShippingWindow time.Duration
}

func NewDiscountEngine(cfg domain.EngineConfig) *DiscountEngine {
	return &DiscountEngine{repeatShippingWindow: cfg.RepeatShippingWindow}
}

// Resolve computes a fresh breakdown. Tax is left cleared; the caller owns it.
func (e *DiscountEngine) Resolve(in DiscountInput) DiscountResult {
	price := domain.PriceBreakdown{
		ProductCents:   in.ProductCents,
		DeliveryCents:  in.DeliveryCents,
		InsuranceCents: in.InsuranceCents,
	}

	var code *string
	if in.Reservation != nil {
		code = in.Reservation.DiscountCode
	}
	eligible := make([]domain.DiscountRule, 0, len(in.Rules))
	for _, r := range in.Rules {
		if r.Eligible(in.Now, code) {
			eligible = append(eligible, r)
		}
	}

	var applied []domain.AppliedDiscount
	for _, phase := range domain.DiscountPhases {
		var base int64
		switch phase {
		case domain.DiscountScopeProduct:
			base = price.ProductCents
		case domain.DiscountScopeDelivery:
			base = price.DeliveryCents
		case domain.DiscountScopeInsurance:
			base = price.InsuranceCents
		case domain.DiscountScopeTotal:
			base = price.ProductNetCents() + price.DeliveryNetCents() + price.InsuranceNetCents()
		}

		discount, phaseApplied := e.resolvePhase(phase, base, eligible, in)
		applied = append(applied, phaseApplied...)

		switch phase {
		case domain.DiscountScopeProduct:
			price.ProductDiscountCents = discount
		case domain.DiscountScopeDelivery:
			price.DeliveryDiscountCents = discount
		case domain.DiscountScopeInsurance:
			price.InsuranceDiscountCents = discount
		case domain.DiscountScopeTotal:
			price.TotalDiscountCents = discount
			price.SubtotalCents = base - discount
		}
	}

	return DiscountResult{
		Price:       price.WithTax(nil),
		Applied:     applied,
		Description: describe(applied),
	}
}

func (e *DiscountEngine) resolvePhase(phase domain.DiscountScope, base int64, rules []domain.DiscountRule, in DiscountInput) (int64, []domain.AppliedDiscount) {
	candidates := make([]domain.DiscountRule, 0)
	for _, r := range rules {
		if r.Scope == phase {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].ID < candidates[j].ID
	})

	var (
		applied   []domain.AppliedDiscount
		discount  int64
		remaining = base
		topTier   *int32
	)
	for _, r := range candidates {
		if topTier != nil && r.Priority != *topTier {
			break
		}
		if !e.conditionsHold(r, in) {
			continue
		}
		if topTier == nil {
			p := r.Priority
			topTier = &p
		}

		value := ruleValue(r, base)
		if value > remaining {
			value = remaining
		}
		remaining -= value
		discount += value
		applied = append(applied, domain.AppliedDiscount{
			RuleID:      r.ID,
			Scope:       phase,
			Priority:    r.Priority,
			AmountCents: value,
			Note:        r.Note,
		})
	}
	return discount, applied
}

// ruleValue is the fixed amount, or the rounded percentage of the phase total clamped
// to the rule's bounds.
func ruleValue(r domain.DiscountRule, phaseTotal int64) int64 {
	if r.ValueKind != domain.DiscountValuePercent {
		if r.AmountCents < 0 {
			return 0
		}
		return r.AmountCents
	}

	value := int64(math.Round(float64(phaseTotal) * r.Percent / 100))
	if r.MinCents != nil && value < *r.MinCents {
		value = *r.MinCents
	}
	if r.MaxCents != nil && value > *r.MaxCents {
		value = *r.MaxCents
	}
	if value < 0 {
		return 0
	}
	return value
}

func (e *DiscountEngine) conditionsHold(r domain.DiscountRule, in DiscountInput) bool {
	c := r.Conditions
	if len(c.CustomerGroups) > 0 {
		if in.Customer == nil {
			return false
		}
		inGroup := false
		for _, g := range c.CustomerGroups {
			if in.Customer.InGroup(g) {
				inGroup = true
				break
			}
		}
		if !inGroup {
			return false
		}
	}
	if len(c.UnitIDs) > 0 {
		if in.Reservation == nil {
			return false
		}
		listed := false
		for _, id := range c.UnitIDs {
			if id == in.Reservation.UnitID {
				listed = true
				break
			}
		}
		if !listed {
			return false
		}
	}
	if c.RepeatShipping && !e.isRepeatShipment(in) {
		return false
	}
	return true
}

// isRepeatShipment finds an earlier order of the same customer, shipped to the same
// address on the same day and placed within the repeat window.
func (e *DiscountEngine) isRepeatShipment(in DiscountInput) bool {
	r := in.Reservation
	if r == nil || r.ShippingAddress == nil || r.ShippingAddress.Empty() {
		return false
	}
	key := r.ShippingAddress.Key()
	today := domain.GrainDay.Truncate(in.Now)

	for _, h := range in.History {
		if h.ID == r.ID || h.CustomerID != r.CustomerID || !h.State.IsActive() {
			continue
		}
		if !h.State.Has(domain.StateCharged) || h.ChargedOn == nil {
			continue
		}
		if h.ShippingAddress == nil || h.ShippingAddress.Key() != key {
			continue
		}
		placed := *h.ChargedOn
		if !domain.GrainDay.Truncate(placed).Equal(today) {
			continue
		}
		if in.Now.Sub(placed) >= 0 && in.Now.Sub(placed) <= e.repeatShippingWindow {
			return true
		}
	}
	return false
}

func describe(applied []domain.AppliedDiscount) string {
	seen := make(map[string]bool)
	notes := make([]string, 0, len(applied))
	for _, a := range applied {
		note := strings.TrimSpace(a.Note)
		if note == "" || seen[note] {
			continue
		}
		seen[note] = true
		notes = append(notes, note)
	}
	return strings.Join(notes, "\n")
}
