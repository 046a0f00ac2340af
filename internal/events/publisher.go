// Package events announces accepted orders to the rest of the platform.
// Publishing is fire-and-forget: a broker fault is logged by the caller
// and never fails a checkout or touches the cart.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/segmentio/kafka-go"
)

const orderPlacedEventType = "order.placed"

type Publisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(context.Context, *domain.Order) error { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID), // order id for partition ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(orderPlacedEventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order placed: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
