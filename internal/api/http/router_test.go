package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "wardrobe-rental-backend/internal/api/http"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/gateway"
	"wardrobe-rental-backend/internal/repository/memory"
	"wardrobe-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineCfg = domain.EngineConfig{
	MinLead:              24 * time.Hour,
	MaxAhead:             90 * 24 * time.Hour,
	GoodsLockTimeout:     10 * time.Minute,
	StylistLockTimeout:   3 * time.Minute,
	RepeatShippingWindow: time.Hour,
	Currency:             "usd",
	Showrooms: []domain.Showroom{
		{ID: 1, Name: "Downtown", Address: domain.Address{Line1: "5 Market St", PostalCode: "94105", Country: "US"}},
	},
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type apiFixture struct {
	server   *httptest.Server
	store    *memory.Store
	unitID   int32
	customer int32
	cardID   string
}

func newAPI(t *testing.T, health error) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := service.Repositories{
		Units:         store.UnitRepository,
		Reservations:  store.ReservationRepository,
		Discounts:     store.DiscountRuleRepository,
		Ledger:        store.LedgerRepository,
		Customers:     store.CustomerRepository,
		Notifications: store.NotificationRepository,
	}

	unit := &domain.RentalUnit{
		CollectionID: 3, Name: "Linen suit", Kind: domain.UnitKindApparel, BaseCapacity: 1, MinimumDuration: 1,
		DailyPriceCents: 2000, WeeklyPriceCents: 10000, MonthlyPriceCents: 30000, DeliveryPriceCents: 500, Published: true,
	}
	require.NoError(t, store.UnitRepository.Create(ctx, unit))
	cust := &domain.Customer{Email: "api@example.com", Name: "Api", PaymentToken: "cus_api"}
	require.NoError(t, store.CustomerRepository.Create(ctx, cust))
	cardID := fmt.Sprintf("card_%d", cust.ID)
	require.NoError(t, store.CustomerRepository.AddCard(ctx, &domain.PaymentCard{ID: cardID, CustomerID: cust.ID, Token: "tok_visa"}))

	notifier := service.NewNotificationService(repos.Notifications, repos.Customers, nil, nil)
	router := httpapi.NewRouter(httpapi.Services{
		Availability:  service.NewAvailabilityService(repos, nil, engineCfg),
		Reservations:  service.NewReservationService(repos, gateway.NewSandboxPaymentGateway(), gateway.NewSandboxTaxService(0), notifier, nil, nil, engineCfg),
		Ledger:        service.NewLedgerService(repos.Ledger),
		Notifications: notifier,
		Health:        pinger{err: health},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &apiFixture{server: srv, store: store, unitID: unit.ID, customer: cust.ID, cardID: cardID}
}

func (f *apiFixture) do(t *testing.T, method, path string, customer int32, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if customer != 0 {
		req.Header.Set(httpapi.CustomerHeader, fmt.Sprint(customer))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func date(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestReservationFlow(t *testing.T) {
	f := newAPI(t, nil)

	resp, body := f.do(t, http.MethodPost, "/v1/reservations", f.customer, map[string]any{
		"unit_id": f.unitID, "from": date(10), "till": date(11),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	assert.Equal(t, []any{"LOCKED"}, body["state"])

	resp, body = f.do(t, http.MethodPost, "/v1/reservations", f.customer, map[string]any{
		"unit_id": f.unitID, "from": date(11), "till": date(12),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "unit_unavailable", errorCode(body))

	resp, body = f.do(t, http.MethodPost, "/v1/reservations/"+id+"/confirm", f.customer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "precondition_missing", errorCode(body))

	resp, _ = f.do(t, http.MethodPut, "/v1/reservations/"+id+"/showroom", f.customer, map[string]any{"showroom_id": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/v1/reservations/"+id+"/confirm", f.customer, map[string]any{"card_id": f.cardID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["state"], "CHARGED")
	price := body["price"].(map[string]any)
	assert.Equal(t, float64(4000), price["total_cents"])

	resp, body = f.do(t, http.MethodDelete, "/v1/reservations/"+id, f.customer, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "illegal_state_transition", errorCode(body))

	resp, _ = f.do(t, http.MethodPost, "/v1/admin/reservations/"+id+"/deliver", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/v1/notifications", f.customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_count"])
}

func TestReservationErrors(t *testing.T) {
	f := newAPI(t, nil)

	resp, body := f.do(t, http.MethodPost, "/v1/reservations", 0, map[string]any{"unit_id": f.unitID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", errorCode(body))

	resp, body = f.do(t, http.MethodPost, "/v1/reservations", f.customer, map[string]any{
		"unit_id": f.unitID, "from": date(-3), "till": date(-1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_window", errorCode(body))

	resp, body = f.do(t, http.MethodPost, "/v1/reservations", f.customer, map[string]any{"unit": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_argument", errorCode(body))

	resp, body = f.do(t, http.MethodGet, "/v1/reservations/missing", f.customer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "reservation_not_found", errorCode(body))
}

func TestAvailabilityEndpoints(t *testing.T) {
	f := newAPI(t, nil)
	resp, _ := f.do(t, http.MethodPost, "/v1/reservations", f.customer, map[string]any{
		"unit_id": f.unitID, "from": date(10), "till": date(12),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, fmt.Sprintf("/v1/units/%d/availability?from=%s&till=%s", f.unitID, date(5), date(20)), 0, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["ranges"], 2)

	resp, body = f.do(t, http.MethodGet, fmt.Sprintf("/v1/units/%d/unavailable?from=%s&till=%s", f.unitID, date(5), date(20)), 0, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["unavailable"], 1)

	resp, body = f.do(t, http.MethodGet, fmt.Sprintf("/v1/collections/3/availability?from=%s&till=%s", date(10), date(12)), 0, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["units"])

	resp, body = f.do(t, http.MethodGet, "/v1/units/999/availability", 0, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(body))
}

func TestLedgerEndpoints(t *testing.T) {
	f := newAPI(t, nil)

	resp, _ := f.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/customers/%d/credits", f.customer), 0, map[string]any{
		"amount_cents": 2500, "type": "REFERRAL_GIFT", "description": "Thanks for the referral",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodPost, fmt.Sprintf("/v1/admin/customers/%d/credits", f.customer), 0, map[string]any{
		"amount_cents": 2500, "type": "BALANCE_USED",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_argument", errorCode(body))

	resp, body = f.do(t, http.MethodGet, "/v1/ledger/balance", f.customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2500), body["balance_cents"])

	resp, body = f.do(t, http.MethodGet, "/v1/ledger/transactions?page=1&page_size=5", f.customer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_count"])
}

func TestHealth(t *testing.T) {
	resp, body := newAPI(t, nil).do(t, http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, _ = newAPI(t, errors.New("db down")).do(t, http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
