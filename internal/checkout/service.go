// Package checkout turns a user's cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nexus-commerce/storefront/internal/cart"
	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/nexus-commerce/storefront/internal/pricing"
)

type CartProvider interface {
	Store(ctx context.Context, userID string) (*cart.Store, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, order *orders.Order) error
}

type Service struct {
	carts  CartProvider
	orders OrderCreator
	cfg    pricing.Config
}

func NewService(carts CartProvider, creator OrderCreator, cfg pricing.Config) *Service {
	return &Service{carts: carts, orders: creator, cfg: cfg}
}

// PlaceOrder snapshots the user's cart into an order, persists it together
// with its outbox event, and clears the cart. Totals are recomputed from the
// line items at this moment; the order keeps them frozen from here on.
func (s *Service) PlaceOrder(ctx context.Context, userID string) (*orders.Order, error) {
	store, err := s.carts.Store(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}

	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := pricing.ComputeTotals(items, s.cfg).Rounded()

	orderItems := make([]orders.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, orders.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: pricing.Round2(item.UnitPrice * float64(item.Quantity)),
		})
	}

	now := time.Now()
	order := &orders.Order{
		ID:          uuid.New(),
		Number:      orders.NewOrderNumber(now),
		UserID:      userID,
		Items:       orderItems,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Shipping:    totals.Shipping,
		TotalAmount: totals.Total,
		Currency:    "USD",
		Status:      orders.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order is committed at this point. A failed cart clear leaves the
	// cart behind but must not fail the checkout; the order-events consumer
	// clears it again when the OrderPlaced event arrives.
	if err := store.Clear(ctx); err != nil {
		var pe *cart.PersistenceError
		if errors.As(err, &pe) {
			log.Printf("order %s placed but cart clear not persisted for user %s: %v", order.Number, userID, err)
		} else {
			log.Printf("order %s placed but cart clear failed for user %s: %v", order.Number, userID, err)
		}
	}

	return order, nil
}
