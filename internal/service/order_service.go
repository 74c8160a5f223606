package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

const orderStatusCachePrefix = "orders:status:"

// OrderPage is one page of a filtered order listing.
type OrderPage struct {
	Content       []domain.Order
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}

// OrderService provides CRUD operations on orders with cached by-status
// reads. Every mutation drops the status cache namespace rather than patching
// individual entries, so list reads never observe a stale mix.
type OrderService struct {
	orders     repository.OrderRepository
	cache      *cache.QueryCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(orders repository.OrderRepository, queryCache *cache.QueryCache, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, cache: queryCache, dispatcher: dispatcher, logger: logger}
}

// GetAllOrders returns every order.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.GetAll(ctx)
}

// GetOrdersByStatus returns orders with the given status, newest first,
// serving repeated lookups from the cache.
func (s *OrderService) GetOrdersByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	key := orderStatusCachePrefix + status

	var cached []domain.Order
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	orders, err := s.orders.GetByStatusSorted(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NewNotFound("No orders found with status: " + status)
	}
	s.cache.Set(ctx, key, orders)

	return orders, nil
}

// InsertNewOrder persists a new order.
func (s *OrderService) InsertNewOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix(ctx, orderStatusCachePrefix)
	s.dispatcher.Publish(ctx, events.NewEvent(events.EventOrderCreated, map[string]any{
		"id":     order.ID,
		"status": order.Status,
	}))
	return order, nil
}

// UpdateOrder replaces the mutable fields of an existing order.
func (s *OrderService) UpdateOrder(ctx context.Context, order *domain.Order, id int) (*domain.Order, error) {
	s.logger.Info("updating order", zap.Int("id", id))

	existing, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Order with ID " + strconv.Itoa(id) + " not found")
		}
		return nil, err
	}

	existing.Description = order.Description
	existing.Status = order.Status
	if !order.CreateDate.IsZero() {
		existing.CreateDate = order.CreateDate
	}

	if err := s.orders.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.cache.InvalidatePrefix(ctx, orderStatusCachePrefix)
	return existing, nil
}

// DeleteOrder removes an order, reporting whether it existed.
func (s *OrderService) DeleteOrder(ctx context.Context, id int) (bool, error) {
	err := s.orders.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.cache.InvalidatePrefix(ctx, orderStatusCachePrefix)
	s.dispatcher.Publish(ctx, events.NewEvent(events.EventOrderDeleted, map[string]any{
		"id": id,
	}))
	return true, nil
}

// BulkDeleteOrdersByStatus removes all orders with the given status and
// returns how many were deleted.
func (s *OrderService) BulkDeleteOrdersByStatus(ctx context.Context, status string) (int, error) {
	count, err := s.orders.BulkDeleteByStatus(ctx, status)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.cache.InvalidatePrefix(ctx, orderStatusCachePrefix)
	}
	return count, nil
}

// GetFilteredOrders returns a page of orders matching the filters. Status and
// both dates are required.
func (s *OrderService) GetFilteredOrders(ctx context.Context, status string, startDate, endDate time.Time, page, size int) (*OrderPage, error) {
	if status == "" {
		return nil, apperrors.NewValidationError("Status must not be null or empty.", nil)
	}
	if startDate.IsZero() {
		return nil, apperrors.NewValidationError("Start date must not be null.", nil)
	}
	if endDate.IsZero() {
		return nil, apperrors.NewValidationError("End date must not be null.", nil)
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	orders, total, err := s.orders.ListWithFilter(ctx, repository.OrderFilter{
		Status:   status,
		FromDate: startDate,
		ToDate:   endDate,
		Limit:    size,
		Offset:   page * size,
	})
	if err != nil {
		return nil, err
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return &OrderPage{
		Content:       orders,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}
