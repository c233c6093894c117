package domain

import "time"

type TransactionType string

const (
	TransactionTypeManualCredit  TransactionType = "MANUAL_CREDIT"
	TransactionTypeBalanceUsed   TransactionType = "BALANCE_USED"
	TransactionTypeBalanceRefund TransactionType = "BALANCE_REFUND"
	TransactionTypeReferralGift  TransactionType = "REFERRAL_GIFT"
	TransactionTypeSignupGift    TransactionType = "SIGNUP_GIFT"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeManualCredit, TransactionTypeBalanceUsed, TransactionTypeBalanceRefund,
		TransactionTypeReferralGift, TransactionTypeSignupGift:
		return true
	}
	return false
}

// LedgerTransaction is an append-only balance movement.
type LedgerTransaction struct {
	ID                   int32           `json:"id"`
	CustomerID           int32           `json:"customer_id"`
	AmountCents          int64           `json:"amount_cents"` // positive for credit, negative for debit
	Type                 TransactionType `json:"type"`
	RelatedReservationID *string         `json:"related_reservation_id,omitempty"`
	Description          string          `json:"description"`
	CreatedOn            time.Time       `json:"created_on"`
}
