package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderStats struct {
	totalSales  float64
	totalOrders int
	recent      []*orders.Order
	buckets     []orders.MonthlyBucket
	err         error
}

func (m *mockOrderStats) SalesStats(context.Context) (float64, int, error) {
	return m.totalSales, m.totalOrders, m.err
}

func (m *mockOrderStats) RecentOrders(_ context.Context, limit int) ([]*orders.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockOrderStats) MonthlySales(context.Context, int) ([]orders.MonthlyBucket, error) {
	return m.buckets, m.err
}

type mockProductCounter struct {
	total     int
	lowStock  int
	threshold int
	err       error
}

func (m *mockProductCounter) CountProducts(context.Context) (int, error) {
	return m.total, m.err
}

func (m *mockProductCounter) CountLowStock(_ context.Context, threshold int) (int, error) {
	m.threshold = threshold
	return m.lowStock, m.err
}

func TestStats(t *testing.T) {
	counter := &mockProductCounter{total: 6, lowStock: 1}
	svc := NewService(&mockOrderStats{totalSales: 76.78000001, totalOrders: 2}, counter)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 76.78, stats.TotalSales, 1e-9)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 6, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockItems)
	assert.Equal(t, 5, counter.threshold)
}

func TestStats_RepositoryError(t *testing.T) {
	svc := NewService(&mockOrderStats{err: errors.New("connection refused")}, &mockProductCounter{})

	_, err := svc.Stats(context.Background())

	assert.ErrorContains(t, err, "connection refused")
}

func TestRecentOrders_CapsAtTen(t *testing.T) {
	stats := &mockOrderStats{}
	for i := 0; i < 15; i++ {
		stats.recent = append(stats.recent, &orders.Order{Number: "ORD1"})
	}
	svc := NewService(stats, &mockProductCounter{})

	recent, err := svc.RecentOrders(context.Background())

	require.NoError(t, err)
	assert.Len(t, recent, 10)
}

func TestSalesData(t *testing.T) {
	stats := &mockOrderStats{
		buckets: []orders.MonthlyBucket{
			{Month: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), Sales: 120.501},
			{Month: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), Sales: 38.39},
		},
	}
	svc := NewService(stats, &mockProductCounter{})

	data, err := svc.SalesData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Jul 2026", "Aug 2026"}, data.Labels)
	require.Len(t, data.Data, 2)
	assert.InDelta(t, 120.50, data.Data[0], 1e-9)
	assert.InDelta(t, 38.39, data.Data[1], 1e-9)
}

func TestSalesData_Empty(t *testing.T) {
	svc := NewService(&mockOrderStats{}, &mockProductCounter{})

	data, err := svc.SalesData(context.Background())

	require.NoError(t, err)
	assert.Empty(t, data.Labels)
	assert.Empty(t, data.Data)
}
