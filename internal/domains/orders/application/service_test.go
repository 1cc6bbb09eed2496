package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/ordercore/go-orders-service/internal/domains/orders/adapters/memory"
	types "github.com/ordercore/go-orders-service/internal/domains/orders/application/types"
	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
)

// stubCatalog answers validation requests from a fixed product table.
type stubCatalog struct {
	products map[int64]ports.Product
	err      error
	calls    int
}

func (c *stubCatalog) Validate(_ context.Context, ids []int64) ([]ports.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	matched := make([]ports.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{products: map[int64]ports.Product{
		1: {ID: 1, Name: "Keyboard", Price: 15},
		2: {ID: 2, Name: "Mouse", Price: 10},
	}}
}

func TestCreateOrder_Success(t *testing.T) {
	catalog := newStubCatalog()
	svc := NewService(ordersmemory.NewRepository(), catalog)

	view, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.NotEmpty(t, view.ID)
	require.Equal(t, "PENDING", view.Status)
	require.Equal(t, float64(40), view.TotalAmount)
	require.Equal(t, int32(3), view.TotalItems)
	require.Len(t, view.Items, 2)
	require.Equal(t, "Keyboard", view.Items[0].Name)
	require.Equal(t, float64(15), view.Items[0].Price)
	require.False(t, view.CreatedAt.IsZero())
	require.Equal(t, 1, catalog.calls)
}

func TestCreateOrder_DuplicateLinesStaySeparate(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())

	view, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 3},
		},
	})

	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	require.Equal(t, int32(5), view.TotalItems)
	require.Equal(t, float64(75), view.TotalAmount)
}

func TestCreateOrder_InvalidDraft(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	repo := ordersmemory.NewRepository()
	svc := NewService(repo, newStubCatalog())

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{
			{ProductID: 1, Quantity: 1},
			{ProductID: 99, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrProductsNotFound)

	// Nothing may be persisted when validation fails.
	total, err := repo.Count(context.Background(), "")
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestCreateOrder_CatalogUnavailable(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("nats: timeout")}
	svc := NewService(ordersmemory.NewRepository(), catalog)

	_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrProductsNotFound)
}

func TestGetOrder_SnapshotPricing(t *testing.T) {
	catalog := newStubCatalog()
	svc := NewService(ordersmemory.NewRepository(), catalog)

	created, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	// A later catalog price change must not alter the stored line price.
	catalog.products[1] = ports.Product{ID: 1, Name: "Keyboard", Price: 99}
	fetched, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, float64(15), fetched.Items[0].Price)
	require.Equal(t, float64(15), fetched.TotalAmount)
	require.Equal(t, "Keyboard", fetched.Items[0].Name)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())

	_, err := svc.GetOrder(context.Background(), "missing-id")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Contains(t, err.Error(), "order #missing-id not found")
}

func TestGetOrder_CatalogOutageDegradesNames(t *testing.T) {
	catalog := newStubCatalog()
	svc := NewService(ordersmemory.NewRepository(), catalog)

	created, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	catalog.err = errors.New("catalog down")
	fetched, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	require.Empty(t, fetched.Items[0].Name)
	require.Equal(t, float64(15), fetched.Items[0].Price)
}

func TestListOrders_Pagination(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())
	for i := 0; i < 7; i++ {
		_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
			Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page, err := svc.ListOrders(context.Background(), types.ListOrdersInput{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	require.Equal(t, int64(7), page.Meta.Total)
	require.Equal(t, 2, page.Meta.Page)
	require.Equal(t, 3, page.Meta.LastPage)
	// Listings stay lean; items are only loaded on the detail read.
	require.Empty(t, page.Data[0].Items)
}

func TestListOrders_DefaultsAndLastPartialPage(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())
	for i := 0; i < 7; i++ {
		_, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
			Items: []types.DraftItem{{ProductID: 2, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page, err := svc.ListOrders(context.Background(), types.ListOrdersInput{})
	require.NoError(t, err)
	require.Len(t, page.Data, 7)
	require.Equal(t, 1, page.Meta.Page)
	require.Equal(t, 1, page.Meta.LastPage)

	last, err := svc.ListOrders(context.Background(), types.ListOrdersInput{Page: 3, Limit: 3})
	require.NoError(t, err)
	require.Len(t, last.Data, 1)
}

func TestListOrders_Empty(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())

	_, err := svc.ListOrders(context.Background(), types.ListOrdersInput{})
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Contains(t, err.Error(), "no orders found")
}

func TestListOrders_StatusFilter(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())
	created, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.ChangeOrderStatus(context.Background(), types.ChangeOrderStatusInput{ID: created.ID, Status: "PAID"})
	require.NoError(t, err)

	page, err := svc.ListOrders(context.Background(), types.ListOrdersInput{Status: "PAID"})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Meta.Total)

	_, err = svc.ListOrders(context.Background(), types.ListOrdersInput{Status: "CANCELLED"})
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Contains(t, err.Error(), "no orders found with status CANCELLED")

	_, err = svc.ListOrders(context.Background(), types.ListOrdersInput{Status: "bogus"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangeOrderStatus(t *testing.T) {
	svc := NewService(ordersmemory.NewRepository(), newStubCatalog())
	created, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.ChangeOrderStatus(context.Background(), types.ChangeOrderStatusInput{ID: created.ID, Status: "DELIVERED"})
	require.NoError(t, err)
	require.Equal(t, "DELIVERED", updated.Status)

	_, err = svc.ChangeOrderStatus(context.Background(), types.ChangeOrderStatusInput{ID: created.ID, Status: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ChangeOrderStatus(context.Background(), types.ChangeOrderStatusInput{ID: "missing", Status: "PAID"})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestChangeOrderStatus_SameStatusIsNoOp(t *testing.T) {
	repo := &writeCountingRepo{Repository: ordersmemory.NewRepository()}
	svc := NewService(repo, newStubCatalog())
	created, err := svc.CreateOrder(context.Background(), types.CreateOrderInput{
		Items: []types.DraftItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	view, err := svc.ChangeOrderStatus(context.Background(), types.ChangeOrderStatusInput{ID: created.ID, Status: "PENDING"})
	require.NoError(t, err)
	require.Equal(t, "PENDING", view.Status)
	require.Zero(t, repo.statusWrites)
}

func TestCreateOrder_IdempotentReplay(t *testing.T) {
	svc := NewService(
		ordersmemory.NewRepository(),
		newStubCatalog(),
		WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	)
	input := types.CreateOrderInput{
		Items:          []types.DraftItem{{ProductID: 1, Quantity: 2}},
		IdempotencyKey: "retry-abc",
	}

	first, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Same key with a different payload must be rejected.
	input.Items[0].Quantity = 3
	_, err = svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

// writeCountingRepo tracks status writes to assert no-op transitions.
type writeCountingRepo struct {
	*ordersmemory.Repository
	statusWrites int
}

func (r *writeCountingRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	r.statusWrites++
	return r.Repository.UpdateStatus(ctx, id, status)
}
