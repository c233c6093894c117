package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type httpPaymentGateway struct {
	client *jsonClient
}

func NewHTTPPaymentGateway(baseURL, apiKey string, timeout time.Duration, bs BreakerSettings) PaymentGateway {
	return &httpPaymentGateway{client: newJSONClient("payment-gateway", baseURL, apiKey, timeout, bs)}
}

func (g *httpPaymentGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	logger.ExternalServiceCall("PaymentGateway", "Charge", "amount", req.AmountCents, "currency", req.Currency)

	var result ChargeResult
	err := g.client.do(ctx, http.MethodPost, "/v1/charges", req, &result)
	logger.ExternalServiceResult("PaymentGateway", "Charge", err, "chargeID", result.ChargeID)
	if err != nil {
		return nil, paymentError("charge failed", err)
	}
	if result.ChargedOn.IsZero() {
		result.ChargedOn = time.Now().UTC()
	}
	return &result, nil
}

func (g *httpPaymentGateway) Refund(ctx context.Context, chargeID string, metadata map[string]string) error {
	logger.ExternalServiceCall("PaymentGateway", "Refund", "chargeID", chargeID)

	body := map[string]any{"metadata": metadata}
	err := g.client.do(ctx, http.MethodPost, "/v1/charges/"+url.PathEscape(chargeID)+"/refunds", body, nil)
	logger.ExternalServiceResult("PaymentGateway", "Refund", err, "chargeID", chargeID)
	if err != nil {
		return paymentError("refund failed", err)
	}
	return nil
}

func paymentError(msg string, err error) error {
	de := domain.WrapError(domain.ErrorKindPaymentFailed, msg, err)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		de.Reason = apiErr.Code
		if de.Reason == "" {
			de.Reason = fmt.Sprintf("http_%d", apiErr.Status)
		}
	} else {
		de.Reason = "gateway_unavailable"
	}
	return de
}
