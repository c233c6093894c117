package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wardrobe-rental-backend/internal/domain"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPaymentGateway_Charge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var req ChargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7700), req.AmountCents)
		assert.Equal(t, "r-1", req.Metadata["reservation_id"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"charge_id":"ch_123","charged_on":"2026-05-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "sk_test", time.Second, BreakerSettings{})
	res, err := gw.Charge(context.Background(), ChargeRequest{
		CustomerToken: "cus_1", CardToken: "tok_visa", AmountCents: 7700, Currency: "usd",
		Metadata: map[string]string{"reservation_id": "r-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_123", res.ChargeID)
	assert.Equal(t, 2026, res.ChargedOn.Year())
}

func TestHTTPPaymentGateway_DeclineCarriesReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"code":"card_declined","message":"insufficient funds"}}`))
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "", time.Second, BreakerSettings{})
	_, err := gw.Charge(context.Background(), ChargeRequest{AmountCents: 100})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "card_declined", de.Reason)
}

func TestHTTPPaymentGateway_BreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "", time.Second, BreakerSettings{ConsecutiveFailures: 2, Timeout: time.Minute})
	for i := 0; i < 2; i++ {
		_, err := gw.Charge(context.Background(), ChargeRequest{AmountCents: 100})
		require.Error(t, err)
	}

	_, err := gw.Charge(context.Background(), ChargeRequest{AmountCents: 100})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "gateway_unavailable", de.Reason)
}

func TestHTTPPaymentGateway_DeclinesDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "", time.Second, BreakerSettings{ConsecutiveFailures: 1, Timeout: time.Minute})
	for i := 0; i < 3; i++ {
		_, err := gw.Charge(context.Background(), ChargeRequest{AmountCents: 100})
		require.Error(t, err)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
}

func TestHTTPPaymentGateway_Refund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges/ch_1/refunds", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, "", time.Second, BreakerSettings{})
	assert.NoError(t, gw.Refund(context.Background(), "ch_1", nil))
}

func TestHTTPTaxService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/tax/lookup":
			var req TaxLookupRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "94107", req.Destination.PostalCode)
			w.Write([]byte(`{"tax_amount":693}`))
		case "/v1/tax/transactions":
			w.Write([]byte(`{"timestamp":"2026-05-01T10:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	svc := NewHTTPTaxService(srv.URL, "", time.Second, BreakerSettings{})
	ctx := context.Background()

	tax, err := svc.Lookup(ctx, TaxLookupRequest{
		Destination: domain.Address{Line1: "1 Main St", PostalCode: "94107"},
		Items:       []TaxItem{{Reference: "product", AmountCents: 7700}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(693), tax)

	ts, err := svc.Capture(ctx, 1, "r-1", "r-1")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())

	_, err = svc.Reverse(ctx, "r-1")
	assert.ErrorIs(t, err, domain.ErrTaxServiceFailed)
}

func TestSandboxPaymentGateway(t *testing.T) {
	gw := NewSandboxPaymentGateway()
	ctx := context.Background()

	_, err := gw.Charge(ctx, ChargeRequest{CardToken: DeclinedCardToken, AmountCents: 100})
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)

	res, err := gw.Charge(ctx, ChargeRequest{CardToken: "tok_visa", AmountCents: 100})
	require.NoError(t, err)
	require.NoError(t, gw.Refund(ctx, res.ChargeID, nil))
	assert.Error(t, gw.Refund(ctx, res.ChargeID, nil))
}

func TestSandboxTaxService_Lookup(t *testing.T) {
	svc := NewSandboxTaxService(900)
	ctx := context.Background()

	tax, err := svc.Lookup(ctx, TaxLookupRequest{
		Destination: domain.Address{Line1: "1 Main St"},
		Items:       []TaxItem{{AmountCents: 7700}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(693), tax)

	_, err = svc.Lookup(ctx, TaxLookupRequest{Items: []TaxItem{{AmountCents: 7700}}})
	assert.ErrorIs(t, err, domain.ErrTaxServiceFailed)
}
