package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSet_Predicates(t *testing.T) {
	locked := NewStateSet(StateLocked)
	confirmed := locked.With(StateConfirmed)
	charged := confirmed.With(StateCharged)

	assert.True(t, locked.IsSoftLocked())
	assert.False(t, confirmed.IsSoftLocked())
	assert.True(t, locked.With(StateTaxCaptured).IsSoftLocked())

	assert.True(t, confirmed.CanEdit())
	assert.True(t, confirmed.CanRelease())
	assert.False(t, charged.CanEdit())
	assert.False(t, charged.CanRelease())
	assert.True(t, charged.CanRefund())
	assert.False(t, charged.With(StateRefunded).CanRefund())
	assert.False(t, confirmed.CanRefund())

	assert.True(t, charged.CanDeliver())
	assert.True(t, charged.With(StateDelivered).CanReturn())
	assert.False(t, charged.CanReturn())

	rejected := charged.With(StateRejected)
	assert.False(t, rejected.IsActive())
	assert.False(t, rejected.CanReject())
	assert.False(t, locked.With(StateCanceled).CanEdit())
}

func TestStateSet_StringRoundTrip(t *testing.T) {
	s := NewStateSet(StateLocked, StateConfirmed, StateCharged)
	assert.Equal(t, "LOCKED|CONFIRMED|CHARGED", s.String())
	assert.Equal(t, s, ParseStateSet(s.String()))
	assert.Equal(t, StateSet(0), ParseStateSet(""))
}

func TestPriceBreakdown_WithTax(t *testing.T) {
	p := PriceBreakdown{SubtotalCents: 7700}

	tax := int64(500)
	withTax := p.WithTax(&tax)
	assert.Equal(t, int64(8200), withTax.TotalCents)

	cleared := withTax.WithTax(nil)
	assert.Nil(t, cleared.TaxCents)
	assert.Equal(t, int64(7700), cleared.TotalCents)
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("create: %w", NewError(ErrorKindUnitUnavailable, "unit 4 has no capacity left"))

	assert.True(t, errors.Is(err, ErrUnitUnavailable))
	assert.False(t, errors.Is(err, ErrInvalidWindow))
	assert.Equal(t, ErrorKindUnitUnavailable, KindOf(err))
	assert.True(t, errors.Is(ErrAlreadyCharged, ErrIllegalStateTransition))
}

func TestDiscountRule_MatchesCode(t *testing.T) {
	code := "VIP30"
	rule := DiscountRule{Code: &code, Published: true}

	lower := " vip30 "
	other := "VIP20"
	assert.True(t, rule.MatchesCode(&lower))
	assert.False(t, rule.MatchesCode(&other))
	assert.False(t, rule.MatchesCode(nil))

	auto := DiscountRule{Published: true}
	assert.True(t, auto.MatchesCode(nil))
}
