package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/service"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CustomerHeader carries the authenticated customer id set by the upstream gateway.
const CustomerHeader = "X-Customer-ID"

// Pinger reports storage readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds everything the REST handlers call into
type Services struct {
	Availability  service.AvailabilityService
	Reservations  service.ReservationService
	Ledger        service.LedgerService
	Notifications service.NotificationService
	Health        Pinger
}

// Handler serves the REST API
type Handler struct {
	svc Services
}

// NewRouter registers all routes and wraps them with tracing and request logging
func NewRouter(svc Services) http.Handler {
	h := &Handler{svc: svc}
	router := mux.NewRouter()
	router.Use(requestLogger)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()

	// Availability
	v1.HandleFunc("/units/{id:[0-9]+}/availability", h.UnitAvailability).Methods(http.MethodGet)
	v1.HandleFunc("/units/{id:[0-9]+}/unavailable", h.UnitUnavailable).Methods(http.MethodGet)
	v1.HandleFunc("/collections/{id:[0-9]+}/availability", h.CollectionAvailability).Methods(http.MethodGet)

	// Reservations
	v1.HandleFunc("/reservations", h.CreateReservation).Methods(http.MethodPost)
	v1.HandleFunc("/reservations/{id}", h.GetReservation).Methods(http.MethodGet)
	v1.HandleFunc("/reservations/{id}", h.ReleaseReservation).Methods(http.MethodDelete)
	v1.HandleFunc("/reservations/{id}/discount-code", h.SetDiscountCode).Methods(http.MethodPut)
	v1.HandleFunc("/reservations/{id}/shipping-address", h.SetShippingAddress).Methods(http.MethodPut)
	v1.HandleFunc("/reservations/{id}/showroom", h.SetShowroom).Methods(http.MethodPut)
	v1.HandleFunc("/reservations/{id}/payment-card", h.SetPaymentCard).Methods(http.MethodPut)
	v1.HandleFunc("/reservations/{id}/confirm", h.ConfirmAndCharge).Methods(http.MethodPost)
	v1.HandleFunc("/reservations/{id}/refund", h.RefundReservation).Methods(http.MethodPost)
	v1.HandleFunc("/reservations/{id}/cancel", h.CancelReservation).Methods(http.MethodPost)

	// Ledger and notifications
	v1.HandleFunc("/ledger/balance", h.GetBalance).Methods(http.MethodGet)
	v1.HandleFunc("/ledger/transactions", h.GetTransactions).Methods(http.MethodGet)
	v1.HandleFunc("/notifications", h.GetNotifications).Methods(http.MethodGet)
	v1.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	// Operator actions
	admin := v1.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/reservations/{id}/reject", h.RejectReservation).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{id}/deliver", h.MarkDelivered).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{id}/return", h.MarkReturned).Methods(http.MethodPost)
	admin.HandleFunc("/customers/{id:[0-9]+}/credits", h.CreditCustomer).Methods(http.MethodPost)

	return otelhttp.NewHandler(router, "wardrobe-api")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.svc.Health != nil {
		if err := h.svc.Health.Ping(r.Context()); err != nil {
			logger.Warn("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// customerID reads the caller from CustomerHeader. Ok is false when it is missing or
// malformed, in which case the response has already been written.
func customerID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	raw := r.Header.Get(CustomerHeader)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]errorBody{"error": {
			Code:    "unauthenticated",
			Message: "A customer id is required.",
		}})
		return 0, false
	}
	return int32(id), true
}

func pathInt32(r *http.Request, name string) int32 {
	v, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	return int32(v)
}

func queryInt32(r *http.Request, name string) int32 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	return int32(v)
}
