// Package consumer reacts to order events from Kafka.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/nexus-commerce/storefront/internal/publisher"
	"github.com/segmentio/kafka-go"
)

type OrderPlacedEvent struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      string  `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}

type CartDropper interface {
	Drop(ctx context.Context, userID string) error
}

// CartConsumer clears a user's persisted cart when their OrderPlaced event
// arrives. Checkout already clears the cart synchronously; this covers other
// replicas holding a stale in-memory copy, and is idempotent either way.
type CartConsumer struct {
	carts  CartDropper
	reader *kafka.Reader
}

func NewCartConsumer(carts CartDropper, brokers ...string) *CartConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.Topic,
		GroupID:  "storefront-cart-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &CartConsumer{carts, reader}
}

func (c *CartConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *CartConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *CartConsumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	c.handleMessage(ctx, m)
}

func (c *CartConsumer) handleMessage(ctx context.Context, m kafka.Message) {
	if eventType(m) != "OrderPlaced" {
		return
	}

	var event OrderPlacedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	if event.UserID == "" {
		log.Printf("order event %s has no user_id, skipping", event.OrderID)
		return
	}

	if err := c.carts.Drop(ctx, event.UserID); err != nil {
		log.Printf("failed to drop cart for user %s: %v", event.UserID, err)
		return
	}

	log.Printf("cart cleared for user %s after order %s", event.UserID, event.OrderNumber)
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
