package repository

import (
	"context"
	"testing"
	"time"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/id"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, r *ProductRepository, sku string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: "Brush " + sku, SKU: sku, PriceCents: 1500, Stock: stock, Active: true}
	require.NoError(t, r.Create(context.Background(), p))
	return p
}

func TestProductRepository_DuplicateSKU(t *testing.T) {
	r := NewProductRepository(newTestDB(t))

	seedProduct(t, r, "TB-1", 3)
	err := r.Create(context.Background(), &domain.Product{Name: "x", SKU: "TB-1", Active: true})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestProductRepository_ListSearch(t *testing.T) {
	r := NewProductRepository(newTestDB(t))
	ctx := context.Background()

	seedProduct(t, r, "TB-1", 3)
	seedProduct(t, r, "FL-2", 0)

	list, total, err := r.List(ctx, ProductFilter{Search: "fl-", Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "FL-2", list[0].SKU)

	low, err := r.CountLowStock(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, low)
}

func TestOrderRepository_CreateWithItems(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	p := seedProduct(t, products, "TB-1", 5)

	o := &domain.Order{
		Number:       id.OrderNumber(),
		CustomerName: "Ann",
		Email:        "ann@example.com",
		Status:       domain.OrderPending,
		TotalCents:   3000,
		Items:        []domain.OrderItem{{ProductID: p.ID, Name: p.Name, PriceCents: 1500, Quantity: 2}},
	}
	require.NoError(t, orders.CreateWithItems(ctx, o))
	assert.NotZero(t, o.ID)

	got, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)

	after, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Stock)
}

func TestOrderRepository_InsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	plenty := seedProduct(t, products, "TB-1", 5)
	scarce := seedProduct(t, products, "FL-2", 1)

	o := &domain.Order{
		Number:       id.OrderNumber(),
		CustomerName: "Ann",
		Status:       domain.OrderPending,
		Items: []domain.OrderItem{
			{ProductID: plenty.ID, Name: plenty.Name, Quantity: 2},
			{ProductID: scarce.ID, Name: scarce.Name, Quantity: 3},
		},
	}
	assert.ErrorIs(t, orders.CreateWithItems(ctx, o), ErrInsufficientStock)

	got, err := products.GetByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	_, total, err := orders.List(ctx, OrderFilter{Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestOrderRepository_Revenue(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	ctx := context.Background()

	for _, o := range []domain.Order{
		{Number: id.OrderNumber(), CustomerName: "a", Status: domain.OrderPaid, TotalCents: 1000},
		{Number: id.OrderNumber(), CustomerName: "b", Status: domain.OrderDelivered, TotalCents: 500},
		{Number: id.OrderNumber(), CustomerName: "c", Status: domain.OrderPending, TotalCents: 9999},
	} {
		o := o
		require.NoError(t, orders.CreateWithItems(ctx, &o))
	}

	total, err := orders.Revenue(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1500, total)
}
