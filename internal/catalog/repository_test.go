package catalog_test

import (
	"context"
	"testing"

	"github.com/nexus-commerce/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *catalog.Repository {
	repo, err := catalog.NewRepository(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := repo.RunMigrations("./migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return repo
}

func TestListProducts_ReturnsSeededProducts(t *testing.T) {
	repo := setupTestDB(t)

	page, err := repo.ListProducts(context.Background(), catalog.ListFilter{Page: 1, PageSize: 12})

	require.NoError(t, err)
	assert.Len(t, page.Products, 6)
	assert.Equal(t, 6, page.TotalProducts)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestListProducts_Paging(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first, err := repo.ListProducts(ctx, catalog.ListFilter{Page: 1, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, first.Products, 4)
	assert.Equal(t, 2, first.TotalPages)

	second, err := repo.ListProducts(ctx, catalog.ListFilter{Page: 2, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, second.Products, 2)
	assert.Equal(t, 2, second.CurrentPage)
}

func TestListProducts_PageBeyondEnd(t *testing.T) {
	repo := setupTestDB(t)

	page, err := repo.ListProducts(context.Background(), catalog.ListFilter{Page: 99, PageSize: 12})

	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 6, page.TotalProducts)
}

func TestListProducts_CategoryFilter(t *testing.T) {
	repo := setupTestDB(t)

	page, err := repo.ListProducts(context.Background(), catalog.ListFilter{Category: "accessories"})

	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	for _, p := range page.Products {
		assert.Equal(t, "accessories", p.Category)
	}
}

func TestListProducts_FeaturedFilter(t *testing.T) {
	repo := setupTestDB(t)

	page, err := repo.ListProducts(context.Background(), catalog.ListFilter{Featured: true})

	require.NoError(t, err)
	require.Len(t, page.Products, 3)
	for _, p := range page.Products {
		assert.True(t, p.Featured)
	}
}

func TestGetProduct_ReturnsProduct(t *testing.T) {
	repo := setupTestDB(t)

	product, err := repo.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Wireless Headphones", product.Name)
	assert.InDelta(t, 89.99, product.Price, 1e-9)
}

func TestGetProduct_IncorrectId(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetProduct(context.Background(), -1)

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCreateProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	id, err := repo.CreateProduct(ctx, &catalog.Product{
		Name:        "USB-C Hub",
		Description: "7-in-1 USB-C hub",
		Price:       34.99,
		Category:    "accessories",
		Stock:       12,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	created, err := repo.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "USB-C Hub", created.Name)

	total, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestUpdateProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	product, err := repo.GetProduct(ctx, 2)
	require.NoError(t, err)

	product.Price = 44.99
	product.Stock = 35
	require.NoError(t, repo.UpdateProduct(ctx, product))

	updated, err := repo.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.InDelta(t, 44.99, updated.Price, 1e-9)
	assert.Equal(t, 35, updated.Stock)
}

func TestUpdateProduct_Missing(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.UpdateProduct(context.Background(), &catalog.Product{ID: 999, Name: "ghost"})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.DeleteProduct(ctx, 1))

	_, err := repo.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	err = repo.DeleteProduct(ctx, 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCountLowStock(t *testing.T) {
	repo := setupTestDB(t)

	// Seed data contains a single product at or below 5 units.
	count, err := repo.CountLowStock(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx, catalog.ListFilter{})
	assert.Error(t, err)
}
