package http

import (
	"net/http"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

// parseTime accepts a calendar date or an RFC 3339 timestamp. Empty input is the zero time.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.NewError(domain.ErrorKindInvalidWindow, "dates must be YYYY-MM-DD or RFC 3339 timestamps")
	}
	return t.UTC(), nil
}

func windowQuery(r *http.Request) (from, till time.Time, err error) {
	if from, err = parseTime(r.URL.Query().Get("from")); err != nil {
		return
	}
	till, err = parseTime(r.URL.Query().Get("till"))
	return
}

func (h *Handler) UnitAvailability(w http.ResponseWriter, r *http.Request) {
	from, till, err := windowQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ua, err := h.svc.Availability.ListUnitAvailability(r.Context(), pathInt32(r, "id"), from, till)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ua)
}

func (h *Handler) UnitUnavailable(w http.ResponseWriter, r *http.Request) {
	from, till, err := windowQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	gaps, err := h.svc.Availability.ListUnavailable(r.Context(), pathInt32(r, "id"), from, till)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if gaps == nil {
		gaps = []domain.DateWindow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"unavailable": gaps})
}

func (h *Handler) CollectionAvailability(w http.ResponseWriter, r *http.Request) {
	from, till, err := windowQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	units, err := h.svc.Availability.ListCollectionAvailability(r.Context(), pathInt32(r, "id"), from, till)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"units": units})
}
