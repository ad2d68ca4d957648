// Package admin aggregates data for the store dashboard.
package admin

import (
	"context"
	"fmt"

	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/nexus-commerce/storefront/internal/pricing"
)

const lowStockThreshold = 5

type OrderStats interface {
	SalesStats(ctx context.Context) (totalSales float64, totalOrders int, err error)
	RecentOrders(ctx context.Context, limit int) ([]*orders.Order, error)
	MonthlySales(ctx context.Context, months int) ([]orders.MonthlyBucket, error)
}

type ProductCounter interface {
	CountProducts(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
}

type Stats struct {
	TotalSales    float64 `json:"totalSales"`
	TotalOrders   int     `json:"totalOrders"`
	TotalProducts int     `json:"totalProducts"`
	LowStockItems int     `json:"lowStockItems"`
}

// SalesData is shaped for a chart: one label and one value per month.
type SalesData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type Service struct {
	orders   OrderStats
	products ProductCounter
}

func NewService(orderStats OrderStats, products ProductCounter) *Service {
	return &Service{orders: orderStats, products: products}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalSales, totalOrders, err := s.orders.SalesStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales stats: %w", err)
	}

	totalProducts, err := s.products.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	lowStock, err := s.products.CountLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("count low-stock products: %w", err)
	}

	return &Stats{
		TotalSales:    pricing.Round2(totalSales),
		TotalOrders:   totalOrders,
		TotalProducts: totalProducts,
		LowStockItems: lowStock,
	}, nil
}

func (s *Service) RecentOrders(ctx context.Context) ([]*orders.Order, error) {
	recent, err := s.orders.RecentOrders(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("load recent orders: %w", err)
	}
	return recent, nil
}

func (s *Service) SalesData(ctx context.Context) (*SalesData, error) {
	buckets, err := s.orders.MonthlySales(ctx, 6)
	if err != nil {
		return nil, fmt.Errorf("load monthly sales: %w", err)
	}

	data := &SalesData{
		Labels: make([]string, 0, len(buckets)),
		Data:   make([]float64, 0, len(buckets)),
	}
	for _, b := range buckets {
		data.Labels = append(data.Labels, b.Month.Format("Jan 2006"))
		data.Data = append(data.Data, pricing.Round2(b.Sales))
	}
	return data, nil
}
