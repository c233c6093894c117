package http

import (
	"errors"
	"io"
	"net/http"

	"wardrobe-rental-backend/internal/domain"

	"github.com/gorilla/mux"
)

type createReservationRequest struct {
	UnitID int32  `json:"unit_id"`
	From   string `json:"from"`
	Till   string `json:"till"`
}

type discountCodeRequest struct {
	Code string `json:"code"`
}

type showroomRequest struct {
	ShowroomID int32 `json:"showroom_id"`
}

type paymentCardRequest struct {
	CardID string `json:"card_id"`
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var req createReservationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	from, err := parseTime(req.From)
	if err != nil {
		writeError(w, r, err)
		return
	}
	till, err := parseTime(req.Till)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.Reservations.CreateReservation(r.Context(), customer, req.UnitID, from, till)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Reservations.GetReservation(r.Context(), customer, mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func (h *Handler) ReleaseReservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Reservations.Release(r.Context(), customer, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetDiscountCode(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var req discountCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	res, err := h.svc.Reservations.SetDiscountCode(r.Context(), customer, mux.Vars(r)["id"], req.Code)
	respond(w, r, res, err)
}

func (h *Handler) SetShippingAddress(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var addr domain.Address
	if err := decodeJSON(w, r, &addr); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	res, err := h.svc.Reservations.SetShippingAddress(r.Context(), customer, mux.Vars(r)["id"], addr)
	respond(w, r, res, err)
}

func (h *Handler) SetShowroom(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var req showroomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	res, err := h.svc.Reservations.SetShowroom(r.Context(), customer, mux.Vars(r)["id"], req.ShowroomID)
	respond(w, r, res, err)
}

func (h *Handler) SetPaymentCard(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var req paymentCardRequest
	if err := decodeJSON(w, r, &req); err != nil || req.CardID == "" {
		badRequest(w, r, "card_id is required")
		return
	}
	res, err := h.svc.Reservations.SetPaymentCard(r.Context(), customer, mux.Vars(r)["id"], req.CardID)
	respond(w, r, res, err)
}

// ConfirmAndCharge accepts an optional card_id overriding the stored card.
func (h *Handler) ConfirmAndCharge(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	var req paymentCardRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, r, "malformed request body")
		return
	}
	res, err := h.svc.Reservations.ConfirmAndCharge(r.Context(), customer, mux.Vars(r)["id"], req.CardID)
	respond(w, r, res, err)
}

func (h *Handler) RefundReservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Reservations.Refund(r.Context(), customer, mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Reservations.Cancel(r.Context(), customer, mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func (h *Handler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reservations.Reject(r.Context(), mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reservations.MarkDelivered(r.Context(), mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func (h *Handler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reservations.MarkReturned(r.Context(), mux.Vars(r)["id"])
	respond(w, r, res, err)
}

func respond(w http.ResponseWriter, r *http.Request, res *domain.Reservation, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
