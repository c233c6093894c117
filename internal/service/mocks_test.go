package service_test

import (
	"context"
	"time"

	"wardrobe-rental-backend/internal/events"
	"wardrobe-rental-backend/internal/gateway"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/mock"
)

// MockPaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ChargeResult), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, chargeID string, metadata map[string]string) error {
	args := m.Called(ctx, chargeID, metadata)
	return args.Error(0)
}

// MockTaxService
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) Lookup(ctx context.Context, req gateway.TaxLookupRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxService) Capture(ctx context.Context, customerID int32, cartID, orderID string) (time.Time, error) {
	args := m.Called(ctx, customerID, cartID, orderID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockTaxService) Reverse(ctx context.Context, orderID string) (time.Time, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(time.Time), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotification(ctx context.Context, email, name, subject, body string) error {
	args := m.Called(ctx, email, name, subject, body)
	return args.Error(0)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}
