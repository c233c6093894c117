package events

import (
	"context"

	"wardrobe-rental-backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "reservation-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keys messages by reservation id so events for one reservation stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	body, err := e.Encode()
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("Kafka", "WriteMessages", "topic", p.topic, "type", e.Type, "reservationID", e.ReservationID)

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.ReservationID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
	logger.ExternalServiceResult("Kafka", "WriteMessages", err, "type", e.Type)
	return err
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
