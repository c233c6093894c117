package domain

import (
	"strings"
	"time"
)

type DiscountScope string

const (
	DiscountScopeProduct   DiscountScope = "PRODUCT"
	DiscountScopeDelivery  DiscountScope = "DELIVERY"
	DiscountScopeInsurance DiscountScope = "INSURANCE"
	DiscountScopeTotal     DiscountScope = "TOTAL"
)

// DiscountPhases is the order the engine resolves scopes in.
var DiscountPhases = []DiscountScope{
	DiscountScopeProduct,
	DiscountScopeDelivery,
	DiscountScopeInsurance,
	DiscountScopeTotal,
}

type DiscountValueKind string

const (
	DiscountValueFixed   DiscountValueKind = "FIXED"
	DiscountValuePercent DiscountValueKind = "PERCENT"
)

// DiscountConditions must all hold for a rule to apply. Empty lists are unconditional.
type DiscountConditions struct {
	CustomerGroups []string `json:"customer_groups,omitempty"`
	UnitIDs        []int32  `json:"unit_ids,omitempty"`
	RepeatShipping bool     `json:"repeat_shipping,omitempty"`
}

type DiscountRule struct {
	ID          int32              `json:"id"`
	Name        string             `json:"name"`
	Note        string             `json:"note"`
	Scope       DiscountScope      `json:"scope"`
	ValueKind   DiscountValueKind  `json:"value_kind"`
	AmountCents int64              `json:"amount_cents"`
	Percent     float64            `json:"percent"`
	MinCents    *int64             `json:"min_cents,omitempty"`
	MaxCents    *int64             `json:"max_cents,omitempty"`
	Priority    int32              `json:"priority"`
	Code        *string            `json:"code,omitempty"`
	ExpiresOn   *time.Time         `json:"expires_on,omitempty"`
	Published   bool               `json:"published"`
	Conditions  DiscountConditions `json:"conditions"`
}

func (r *DiscountRule) Expired(now time.Time) bool {
	return r.ExpiresOn != nil && !now.Before(*r.ExpiresOn)
}

// MatchesCode reports coupon eligibility. Uncoded rules always match; coded rules
// need the reservation's code, compared trimmed and case-insensitively.
func (r *DiscountRule) MatchesCode(code *string) bool {
	if r.Code == nil || strings.TrimSpace(*r.Code) == "" {
		return true
	}
	if code == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*r.Code), strings.TrimSpace(*code))
}

// Eligible combines publication, expiry and code checks.
func (r *DiscountRule) Eligible(now time.Time, code *string) bool {
	return r.Published && !r.Expired(now) && r.MatchesCode(code)
}
