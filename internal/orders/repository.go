package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrDuplicateOrder = errors.New("order already exists")
)

// OutboxEvent is a row of the order_outbox table, written in the same
// transaction as its order and published to Kafka by the poller.
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

// MonthlyBucket is one month of aggregated sales for the admin dashboard.
type MonthlyBucket struct {
	Month time.Time
	Sales float64
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
	Close() error
}
