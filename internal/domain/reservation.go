package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// StateFlag is one token of a reservation's state set. Flags coexist, e.g. CONFIRMED|CHARGED.
type StateFlag uint16

const (
	StateLocked StateFlag = 1 << iota
	StateConfirmed
	StateCharged
	StateDelivered
	StateReturned
	StateRefunded
	StateRejected
	StateCanceled
	// Bookkeeping markers for the tax reconciliation job. They do not affect the lifecycle.
	StateTaxCaptured
	StateTaxReversed
)

var stateNames = []struct {
	flag StateFlag
	name string
}{
	{StateLocked, "LOCKED"},
	{StateConfirmed, "CONFIRMED"},
	{StateCharged, "CHARGED"},
	{StateDelivered, "DELIVERED"},
	{StateReturned, "RETURNED"},
	{StateRefunded, "REFUNDED"},
	{StateRejected, "REJECTED"},
	{StateCanceled, "CANCELED"},
	{StateTaxCaptured, "TAX_CAPTURED"},
	{StateTaxReversed, "TAX_REVERSED"},
}

const lifecycleMask = StateConfirmed | StateCharged | StateDelivered | StateReturned |
	StateRefunded | StateRejected | StateCanceled

// StateSet is a bitset of StateFlag values.
type StateSet uint16

func NewStateSet(flags ...StateFlag) StateSet {
	var s StateSet
	for _, f := range flags {
		s |= StateSet(f)
	}
	return s
}

func (s StateSet) Has(f StateFlag) bool {
	return s&StateSet(f) == StateSet(f)
}

func (s StateSet) HasAny(f StateFlag) bool {
	return s&StateSet(f) != 0
}

func (s StateSet) With(flags ...StateFlag) StateSet {
	return s | NewStateSet(flags...)
}

func (s StateSet) Without(flags ...StateFlag) StateSet {
	return s &^ NewStateSet(flags...)
}

// IsSoftLocked reports the bare LOCKED baseline the reaper may delete.
func (s StateSet) IsSoftLocked() bool {
	return s&StateSet(lifecycleMask) == 0
}

// IsActive is false once the reservation was rejected or canceled. Inactive
// reservations no longer consume capacity.
func (s StateSet) IsActive() bool {
	return !s.HasAny(StateRejected | StateCanceled)
}

func (s StateSet) CanEdit() bool {
	return s.IsActive() && !s.Has(StateCharged)
}

func (s StateSet) CanRelease() bool {
	return !s.Has(StateCharged)
}

func (s StateSet) CanConfirm() bool {
	return s.IsActive()
}

func (s StateSet) CanRefund() bool {
	return s.Has(StateCharged) && !s.Has(StateRefunded)
}

func (s StateSet) CanDeliver() bool {
	return s.IsActive() && s.Has(StateCharged) && !s.Has(StateDelivered)
}

func (s StateSet) CanReturn() bool {
	return s.IsActive() && s.Has(StateDelivered) && !s.Has(StateReturned)
}

func (s StateSet) CanReject() bool {
	return s.IsActive() && !s.Has(StateReturned)
}

func (s StateSet) CanCancel() bool {
	return s.IsActive() && !s.Has(StateCharged)
}

func (s StateSet) Tokens() []string {
	tokens := make([]string, 0, len(stateNames))
	for _, sn := range stateNames {
		if s.Has(sn.flag) {
			tokens = append(tokens, sn.name)
		}
	}
	return tokens
}

func (s StateSet) String() string {
	return strings.Join(s.Tokens(), "|")
}

func (s StateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tokens())
}

// ParseStateSet is the inverse of String. Unknown tokens are ignored.
func ParseStateSet(v string) StateSet {
	var s StateSet
	for _, tok := range strings.Split(v, "|") {
		for _, sn := range stateNames {
			if sn.name == strings.TrimSpace(strings.ToUpper(tok)) {
				s |= StateSet(sn.flag)
			}
		}
	}
	return s
}

// PriceBreakdown holds pre-discount phase prices and per-phase discounts in cents.
// TaxCents is nil while tax is unknown, which is distinct from zero tax.
type PriceBreakdown struct {
	ProductCents           int64  `json:"product_cents"`
	ProductDiscountCents   int64  `json:"product_discount_cents"`
	DeliveryCents          int64  `json:"delivery_cents"`
	DeliveryDiscountCents  int64  `json:"delivery_discount_cents"`
	InsuranceCents         int64  `json:"insurance_cents"`
	InsuranceDiscountCents int64  `json:"insurance_discount_cents"`
	TotalDiscountCents     int64  `json:"total_discount_cents"`
	SubtotalCents          int64  `json:"subtotal_cents"`
	TaxCents               *int64 `json:"tax_cents"`
	TotalCents             int64  `json:"total_cents"`
}

func (p PriceBreakdown) ProductNetCents() int64 {
	return floorZero(p.ProductCents - p.ProductDiscountCents)
}

func (p PriceBreakdown) DeliveryNetCents() int64 {
	return floorZero(p.DeliveryCents - p.DeliveryDiscountCents)
}

func (p PriceBreakdown) InsuranceNetCents() int64 {
	return floorZero(p.InsuranceCents - p.InsuranceDiscountCents)
}

// WithTax sets tax and recomputes the grand total. nil clears it.
func (p PriceBreakdown) WithTax(tax *int64) PriceBreakdown {
	p.TaxCents = tax
	p.TotalCents = p.SubtotalCents
	if tax != nil {
		p.TotalCents += *tax
	}
	return p
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

type AppliedDiscount struct {
	RuleID      int32         `json:"rule_id"`
	Scope       DiscountScope `json:"scope"`
	Priority    int32         `json:"priority"`
	AmountCents int64         `json:"amount_cents"`
	Note        string        `json:"note"`
}

// Reservation is a hold on one RentalUnit. EffectiveWindow is what consumes capacity.
type Reservation struct {
	ID                  string            `json:"id"`
	UnitID              int32             `json:"unit_id"`
	UnitKind            UnitKind          `json:"unit_kind"`
	StylistID           *int32            `json:"stylist_id,omitempty"`
	CustomerID          int32             `json:"customer_id"`
	RequestedWindow     DateWindow        `json:"requested_window"`
	EffectiveWindow     DateWindow        `json:"effective_window"`
	State               StateSet          `json:"state"`
	DiscountCode        *string           `json:"discount_code,omitempty"`
	AppliedDiscounts    []AppliedDiscount `json:"applied_discounts"`
	DiscountDescription string            `json:"discount_description"`
	Price               PriceBreakdown    `json:"price"`
	ShippingAddress     *Address          `json:"shipping_address,omitempty"`
	ShowroomID          *int32            `json:"showroom_id,omitempty"`
	PaymentCardID       *string           `json:"payment_card_id,omitempty"`
	ChargeID            *string           `json:"charge_id,omitempty"`
	BalanceUsedCents    int64             `json:"balance_used_cents"`
	ConfirmedOn         *time.Time        `json:"confirmed_on,omitempty"`
	ChargedOn           *time.Time        `json:"charged_on,omitempty"`
	CreatedOn           time.Time         `json:"created_on"`
	UpdatedOn           time.Time         `json:"updated_on"`
}

func (r *Reservation) HasDestination() bool {
	return (r.ShippingAddress != nil && !r.ShippingAddress.Empty()) || r.ShowroomID != nil
}

// AmountDueCents is what the gateway must charge after applied balance.
func (r *Reservation) AmountDueCents() int64 {
	return floorZero(r.Price.TotalCents - r.BalanceUsedCents)
}
