package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"wardrobe-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	declined := domain.WrapError(domain.ErrorKindPaymentFailed, "charge failed", errors.New("gateway said no"))
	declined.Reason = "card_declined"

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		reason string
		detail string
	}{
		{"Invalid window", domain.NewError(domain.ErrorKindInvalidWindow, "window is empty"), http.StatusBadRequest, "invalid_window", "", "window is empty"},
		{"Wrapped unavailable", fmt.Errorf("create: %w", domain.ErrUnitUnavailable), http.StatusConflict, "unit_unavailable", "", ""},
		{"Payment reason", declined, http.StatusPaymentRequired, "payment_failed", "card_declined", ""},
		{"Tax", domain.ErrTaxServiceFailed, http.StatusBadGateway, "tax_service_failed", "", ""},
		{"Precondition", domain.NewError(domain.ErrorKindPreconditionMissing, "a payment card is required"), http.StatusUnprocessableEntity, "precondition_missing", "", "a payment card is required"},
		{"Unknown", errors.New("pq: connection refused to 10.0.0.4"), http.StatusInternalServerError, "internal_error", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/v1/x", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"].Code)
			assert.Equal(t, tt.reason, body["error"].Reason)
			assert.Equal(t, tt.detail, body["error"].Detail)
			assert.NotEmpty(t, body["error"].Message)
			assert.NotContains(t, rec.Body.String(), "10.0.0.4")
			assert.NotContains(t, rec.Body.String(), "gateway said no")
		})
	}
}

func TestParseTime(t *testing.T) {
	d, err := parseTime("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Day())

	ts, err := parseTime("2026-03-02T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, ts.Hour())

	zero, err := parseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = parseTime("March 2nd")
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}
