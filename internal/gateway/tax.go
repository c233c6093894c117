package gateway

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type httpTaxService struct {
	client *jsonClient
}

func NewHTTPTaxService(baseURL, apiKey string, timeout time.Duration, bs BreakerSettings) TaxService {
	return &httpTaxService{client: newJSONClient("tax-service", baseURL, apiKey, timeout, bs)}
}

func (s *httpTaxService) Lookup(ctx context.Context, req TaxLookupRequest) (int64, error) {
	logger.ExternalServiceCall("TaxService", "Lookup", "items", len(req.Items), "destination", req.Destination.PostalCode)

	var result struct {
		TaxAmount int64 `json:"tax_amount"`
	}
	err := s.client.do(ctx, http.MethodPost, "/v1/tax/lookup", req, &result)
	logger.ExternalServiceResult("TaxService", "Lookup", err, "tax", result.TaxAmount)
	if err != nil {
		return 0, domain.WrapError(domain.ErrorKindTaxServiceFailed, "tax lookup failed", err)
	}
	return result.TaxAmount, nil
}

type taxTimestamp struct {
	Timestamp time.Time `json:"timestamp"`
}

func (s *httpTaxService) Capture(ctx context.Context, customerID int32, cartID, orderID string) (time.Time, error) {
	logger.ExternalServiceCall("TaxService", "Capture", "customerID", customerID, "orderID", orderID)

	body := map[string]any{"customer_id": customerID, "cart_id": cartID, "order_id": orderID}
	var result taxTimestamp
	err := s.client.do(ctx, http.MethodPost, "/v1/tax/transactions", body, &result)
	logger.ExternalServiceResult("TaxService", "Capture", err, "orderID", orderID)
	if err != nil {
		return time.Time{}, domain.WrapError(domain.ErrorKindTaxServiceFailed, "tax capture failed", err)
	}
	return result.Timestamp, nil
}

func (s *httpTaxService) Reverse(ctx context.Context, orderID string) (time.Time, error) {
	logger.ExternalServiceCall("TaxService", "Reverse", "orderID", orderID)

	var result taxTimestamp
	err := s.client.do(ctx, http.MethodPost, "/v1/tax/transactions/"+url.PathEscape(orderID)+"/reversal", nil, &result)
	logger.ExternalServiceResult("TaxService", "Reverse", err, "orderID", orderID)
	if err != nil {
		return time.Time{}, domain.WrapError(domain.ErrorKindTaxServiceFailed, "tax reversal failed", err)
	}
	return result.Timestamp, nil
}
