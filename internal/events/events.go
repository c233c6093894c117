// Package events publishes reservation lifecycle events to the configured broker.
// Publishing is fire-and-forget from the caller's point of view.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeReservationCharged  = "reservation.charged"
	TypeReservationRefunded = "reservation.refunded"
)

type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	CustomerID    int32     `json:"customer_id"`
	UnitID        int32     `json:"unit_id"`
	AmountCents   int64     `json:"amount"`
	Currency      string    `json:"currency"`
	OccurredOn    time.Time `json:"occurred_on"`
}

func NewEvent(eventType, reservationID string, customerID, unitID int32, amountCents int64, currency string) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: reservationID,
		CustomerID:    customerID,
		UnitID:        unitID,
		AmountCents:   amountCents,
		Currency:      currency,
		OccurredOn:    time.Now().UTC(),
	}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, e Event) error { return nil }
func (noopPublisher) Close() error                               { return nil }
