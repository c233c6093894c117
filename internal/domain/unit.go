package domain

import (
	"fmt"
	"strings"
	"time"
)

type UnitKind string

const (
	UnitKindApparel UnitKind = "APPAREL"
	UnitKindStylist UnitKind = "STYLIST"
)

type StylistType string

const (
	StylistTypeExclusive StylistType = "EXCLUSIVE"
	StylistTypeOnCall    StylistType = "ON_CALL"
)

// RentalUnit is one bookable product size or one stylist's slot provider.
type RentalUnit struct {
	ID              int32    `json:"id"`
	CollectionID    int32    `json:"collection_id"`
	Name            string   `json:"name"`
	Kind            UnitKind `json:"kind"`
	BaseCapacity    int32    `json:"base_capacity"`
	LeadBuffer      int32    `json:"lead_buffer"`
	TrailBuffer     int32    `json:"trail_buffer"`
	MinimumDuration int32    `json:"minimum_duration"`

	DailyPriceCents     int64 `json:"daily_price_cents"`
	WeeklyPriceCents    int64 `json:"weekly_price_cents"`
	MonthlyPriceCents   int64 `json:"monthly_price_cents"`
	SlotPriceCents      int64 `json:"slot_price_cents"`
	DeliveryPriceCents  int64 `json:"delivery_price_cents"`
	InsurancePriceCents int64 `json:"insurance_price_cents"`

	StylistID     *int32      `json:"stylist_id,omitempty"`
	StylistType   StylistType `json:"stylist_type,omitempty"`
	OriginAddress string      `json:"origin_address"`
	Published     bool        `json:"published"`
	CreatedOn     time.Time   `json:"created_on"`
}

func (u *RentalUnit) Grain() Grain {
	if u.Kind == UnitKindStylist {
		return GrainHour
	}
	return GrainDay
}

// Capacity is the per-instant stock. A stylist serves one booking per slot.
func (u *RentalUnit) Capacity() int32 {
	if u.Kind == UnitKindStylist && u.BaseCapacity > 1 {
		return 1
	}
	return u.BaseCapacity
}

// Offerable is false for unpublished units and units without stock.
func (u *RentalUnit) Offerable() bool {
	return u.Published && u.Capacity() > 0
}

func (u *RentalUnit) IsOnCallStylist() bool {
	return u.Kind == UnitKindStylist && u.StylistType == StylistTypeOnCall
}

type Address struct {
	Line1      string `json:"line1" yaml:"line1"`
	Line2      string `json:"line2,omitempty" yaml:"line2"`
	City       string `json:"city" yaml:"city"`
	Region     string `json:"region" yaml:"region"`
	PostalCode string `json:"postal_code" yaml:"postal_code"`
	Country    string `json:"country" yaml:"country"`
}

func (a Address) Empty() bool {
	return strings.TrimSpace(a.Line1) == "" && strings.TrimSpace(a.PostalCode) == ""
}

// Key normalizes the address for same-address comparisons.
func (a Address) Key() string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(a.Line1), strings.TrimSpace(a.Line2), strings.TrimSpace(a.City),
		strings.TrimSpace(a.PostalCode), strings.TrimSpace(a.Country),
	}, "|"))
}

func (a Address) String() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, fmt.Sprintf("%s, %s %s", a.City, a.Region, a.PostalCode), a.Country)
	return strings.Join(parts, ", ")
}

// Showroom is a pickup location usable instead of a shipping address.
type Showroom struct {
	ID      int32   `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Address Address `json:"address" yaml:"address"`
}
