package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line item frozen at checkout time. Prices here never change
// after the order is placed, even if the catalog does.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type Order struct {
	ID          uuid.UUID   `json:"id"`
	Number      string      `json:"order_number"`
	UserID      string      `json:"user_id"`
	Items       []OrderItem `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	Tax         float64     `json:"tax"`
	Shipping    float64     `json:"shipping"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewOrderNumber produces a human-facing order reference like ORD1756500000000.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%d", now.UnixMilli())
}
