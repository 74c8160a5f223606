package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
)

type fakeOrderRepo struct {
	orders map[int]*domain.Order
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.nextID++
	order.ID = f.nextID
	if order.CreateDate.IsZero() {
		order.CreateDate = time.Now()
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetAll(_ context.Context) ([]domain.Order, error) {
	return f.sorted(func(domain.Order) bool { return true }), nil
}

func (f *fakeOrderRepo) GetByStatusSorted(_ context.Context, status string) ([]domain.Order, error) {
	return f.sorted(func(o domain.Order) bool { return o.Status == status }), nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) BulkDeleteByStatus(_ context.Context, status string) (int, error) {
	count := 0
	for id, order := range f.orders {
		if order.Status == status {
			delete(f.orders, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderRepo) ListWithFilter(_ context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	matched := f.sorted(func(o domain.Order) bool {
		return o.Status == filter.Status &&
			!o.CreateDate.Before(filter.FromDate) &&
			!o.CreateDate.After(filter.ToDate)
	})
	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (f *fakeOrderRepo) sorted(keep func(domain.Order) bool) []domain.Order {
	out := make([]domain.Order, 0)
	for _, order := range f.orders {
		if keep(*order) {
			out = append(out, *order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateDate.After(out[j].CreateDate) })
	return out
}

func newOrderServiceForTest(t *testing.T) (*OrderService, *fakeOrderRepo) {
	t.Helper()
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, cache.New(nil, time.Minute, zap.NewNop()), events.NewInMemoryDispatcher(), zap.NewNop())
	return svc, repo
}

func TestGetOrdersByStatusNotFound(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)

	_, err := svc.GetOrdersByStatus(context.Background(), "Pending")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No orders found with status: Pending")
}

func TestGetOrdersByStatusSortedNewestFirst(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)
	ctx := context.Background()

	older := &domain.Order{Description: "first", Status: "Pending", CreateDate: time.Now().Add(-time.Hour)}
	newer := &domain.Order{Description: "second", Status: "Pending", CreateDate: time.Now()}
	_, err := svc.InsertNewOrder(ctx, older)
	require.NoError(t, err)
	_, err = svc.InsertNewOrder(ctx, newer)
	require.NoError(t, err)

	orders, err := svc.GetOrdersByStatus(ctx, "Pending")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "second", orders[0].Description)
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)

	_, err := svc.UpdateOrder(context.Background(), &domain.Order{Status: "Shipped"}, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Order with ID 42 not found")
}

func TestUpdateOrderReplacesFields(t *testing.T) {
	svc, repo := newOrderServiceForTest(t)
	ctx := context.Background()

	created, err := svc.InsertNewOrder(ctx, &domain.Order{Description: "old", Status: "Pending"})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, &domain.Order{Description: "new", Status: "Shipped"}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "Shipped", updated.Status)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", stored.Status)
}

func TestDeleteOrder(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)
	ctx := context.Background()

	created, err := svc.InsertNewOrder(ctx, &domain.Order{Status: "Pending"})
	require.NoError(t, err)

	deleted, err := svc.DeleteOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBulkDeleteOrdersByStatus(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.InsertNewOrder(ctx, &domain.Order{Status: "Cancelled"})
		require.NoError(t, err)
	}
	_, err := svc.InsertNewOrder(ctx, &domain.Order{Status: "Pending"})
	require.NoError(t, err)

	count, err := svc.BulkDeleteOrdersByStatus(ctx, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetFilteredOrdersValidation(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.GetFilteredOrders(ctx, "", now, now, 0, 10)
	assert.Error(t, err)

	_, err = svc.GetFilteredOrders(ctx, "Pending", time.Time{}, now, 0, 10)
	assert.Error(t, err)

	_, err = svc.GetFilteredOrders(ctx, "Pending", now, time.Time{}, 0, 10)
	assert.Error(t, err)
}

func TestGetFilteredOrdersPaginates(t *testing.T) {
	svc, _ := newOrderServiceForTest(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		_, err := svc.InsertNewOrder(ctx, &domain.Order{
			Status:     "Pending",
			CreateDate: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, err := svc.GetFilteredOrders(ctx, "Pending", base.Add(-time.Minute), time.Now(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.GetFilteredOrders(ctx, "Pending", base.Add(-time.Minute), time.Now(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, last.Content, 1)
}
