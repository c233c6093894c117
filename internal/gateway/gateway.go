// Package gateway holds the clients for the external payment and tax providers.
package gateway

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

type ChargeRequest struct {
	CustomerToken string            `json:"customer_token"`
	CardToken     string            `json:"card_token"`
	AmountCents   int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type ChargeResult struct {
	ChargeID  string    `json:"charge_id"`
	ChargedOn time.Time `json:"charged_on"`
}

// PaymentGateway charges and refunds in integer minor units. A declined charge comes
// back as a domain error of kind payment_failed carrying the provider's reason.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, chargeID string, metadata map[string]string) error
}

type TaxItem struct {
	Reference   string `json:"reference"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount"`
}

type TaxLookupRequest struct {
	Origin      string         `json:"origin"`
	Destination domain.Address `json:"destination"`
	Currency    string         `json:"currency"`
	Items       []TaxItem      `json:"items"`
}

type TaxService interface {
	Lookup(ctx context.Context, req TaxLookupRequest) (int64, error)
	Capture(ctx context.Context, customerID int32, cartID, orderID string) (time.Time, error)
	Reverse(ctx context.Context, orderID string) (time.Time, error)
}
