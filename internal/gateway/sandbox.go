package gateway

import (
	"context"
	"sync"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"

	"github.com/google/uuid"
)

// DeclinedCardToken is refused by the sandbox payment gateway.
const DeclinedCardToken = "tok_decline"

// SandboxPaymentGateway approves every charge except DeclinedCardToken. Used for
// local runs when payment.type is "mock".
type SandboxPaymentGateway struct {
	mu      sync.Mutex
	charges map[string]ChargeRequest
	refunds map[string]bool
}

func NewSandboxPaymentGateway() *SandboxPaymentGateway {
	return &SandboxPaymentGateway{
		charges: make(map[string]ChargeRequest),
		refunds: make(map[string]bool),
	}
}

func (g *SandboxPaymentGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	logger.ExternalServiceCall("SandboxPaymentGateway", "Charge", "amount", req.AmountCents)
	if req.CardToken == DeclinedCardToken {
		err := domain.NewError(domain.ErrorKindPaymentFailed, "card declined")
		err.Reason = "card_declined"
		return nil, err
	}
	if req.AmountCents <= 0 {
		err := domain.NewError(domain.ErrorKindPaymentFailed, "amount must be positive")
		err.Reason = "invalid_amount"
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	id := "ch_" + uuid.NewString()
	g.charges[id] = req
	return &ChargeResult{ChargeID: id, ChargedOn: time.Now().UTC()}, nil
}

func (g *SandboxPaymentGateway) Refund(ctx context.Context, chargeID string, metadata map[string]string) error {
	logger.ExternalServiceCall("SandboxPaymentGateway", "Refund", "chargeID", chargeID)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.charges[chargeID]; !ok || g.refunds[chargeID] {
		err := domain.NewError(domain.ErrorKindPaymentFailed, "charge cannot be refunded")
		err.Reason = "charge_not_refundable"
		return err
	}
	g.refunds[chargeID] = true
	return nil
}

// SandboxTaxService applies a flat rate in basis points to the item total.
type SandboxTaxService struct {
	RateBasisPoints int64
}

func NewSandboxTaxService(rateBasisPoints int64) *SandboxTaxService {
	return &SandboxTaxService{RateBasisPoints: rateBasisPoints}
}

func (s *SandboxTaxService) Lookup(ctx context.Context, req TaxLookupRequest) (int64, error) {
	if req.Destination.Empty() {
		return 0, domain.NewError(domain.ErrorKindTaxServiceFailed, "destination address required")
	}
	var sum int64
	for _, item := range req.Items {
		sum += item.AmountCents
	}
	return (sum*s.RateBasisPoints + 5000) / 10000, nil
}

func (s *SandboxTaxService) Capture(ctx context.Context, customerID int32, cartID, orderID string) (time.Time, error) {
	return time.Now().UTC(), nil
}

func (s *SandboxTaxService) Reverse(ctx context.Context, orderID string) (time.Time, error) {
	return time.Now().UTC(), nil
}
