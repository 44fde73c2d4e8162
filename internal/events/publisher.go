// README: Kafka publisher for fare events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
// This allows for easy mocking in unit tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

// NewKafkaWriter builds a writer for topic on the given brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

// PublishFareQuoted writes e keyed by pickup cell so quotes from one area stay
// on one partition.
func (p *Publisher) PublishFareQuoted(ctx context.Context, e FareQuoted) error {
	e.Type = TypeFareQuoted
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", TypeFareQuoted, err)
	}
	msg := kafka.Message{
		Key:   []byte(e.PickupCell),
		Value: body,
		Time:  e.QuotedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeFareQuoted)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s for quote %s: %w", TypeFareQuoted, e.QuoteID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
