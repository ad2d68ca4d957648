// Package publisher drains the order outbox into Kafka.
package publisher

import (
	"context"
	"log"
	"time"

	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/segmentio/kafka-go"
)

const Topic = "order-events"

type OutboxSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*orders.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
}

// messageWriter is the slice of *kafka.Writer the poller needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OutboxPoller struct {
	eventTick time.Duration
	batchSize int
	source    OutboxSource
	writer    messageWriter
}

func NewOutboxPoller(source OutboxSource, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		eventTick: time.Second,
		batchSize: 100,
		source:    source,
		writer:    w,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.eventTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.source.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if err := p.publishToKafka(ctx, event); err != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, err)
			continue
		}

		// An event that publishes but fails to mark stays unprocessed and is
		// published again next tick. Consumers must tolerate duplicates.
		if err := p.source.MarkEventAsProcessed(ctx, event.ID); err != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, err)
			continue
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *orders.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *OutboxPoller) Close() error {
	return p.writer.Close()
}
