// Package events publishes commission events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/etnz/commission"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic is the topic used when none is configured.
const DefaultTopic = "commission_computed"

// messageWriter is the part of kafka.Writer used by the Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes commission events as JSON messages keyed by account, so that the events of
// an account stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher returns a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

// Publish sends e.
func (p *Publisher) Publish(ctx context.Context, e commission.CommissionEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode commission event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AccountID),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("publish commission event %s: %w", e.EventID, err)
	}
	return nil
}

// Close flushes pending messages and releases the connections.
func (p *Publisher) Close() error { return p.writer.Close() }

var _ commission.Publisher = (*Publisher)(nil)
