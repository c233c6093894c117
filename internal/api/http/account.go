package http

import (
	"net/http"

	"wardrobe-rental-backend/internal/domain"
)

type creditRequest struct {
	AmountCents int64                  `json:"amount_cents"`
	Type        domain.TransactionType `json:"type"`
	Description string                 `json:"description"`
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	balance, err := h.svc.Ledger.GetBalance(r.Context(), customer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance_cents": balance})
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	txs, total, err := h.svc.Ledger.GetTransactions(r.Context(), customer, queryInt32(r, "page"), queryInt32(r, "page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []domain.LedgerTransaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "total_count": total})
}

func (h *Handler) CreditCustomer(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, "malformed request body")
		return
	}
	tx, err := h.svc.Ledger.Credit(r.Context(), pathInt32(r, "id"), req.AmountCents, req.Type, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	notes, total, err := h.svc.Notifications.GetNotifications(r.Context(), customer, queryInt32(r, "page"), queryInt32(r, "page_size"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total_count": total})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Notifications.MarkAsRead(r.Context(), customer, pathInt32(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
