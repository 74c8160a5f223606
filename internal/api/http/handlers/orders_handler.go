package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/service"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// OrdersHandler exposes order CRUD endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs the handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// GetAll handles GET /api/v1.0/order/all.
func (h *OrdersHandler) GetAll(c *fiber.Ctx) error {
	orders, err := h.orders.GetAllOrders(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderResponses(orders))
}

// GetByStatus handles GET /api/v1.0/order/:status.
func (h *OrdersHandler) GetByStatus(c *fiber.Ctx) error {
	orders, err := h.orders.GetOrdersByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderResponses(orders))
}

// Add handles POST /api/v1.0/order/add.
func (h *OrdersHandler) Add(c *fiber.Ctx) error {
	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.InsertNewOrder(c.Context(), req.ToOrder())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ToOrderResponse(*order))
}

// Update handles PUT /api/v1.0/order/update/:orderId.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("orderId"))
	if err != nil {
		return apperrors.NewValidationError("invalid order id", nil)
	}

	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateOrder(c.Context(), req.ToOrder(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderResponse(*order))
}

// Delete handles DELETE /api/v1.0/order/delete/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid order id", nil)
	}

	deleted, err := h.orders.DeleteOrder(c.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return c.SendStatus(http.StatusNotFound)
	}
	return c.SendString("Order with ID " + strconv.Itoa(id) + " has been deleted.")
}

// BulkDelete handles DELETE /api/v1.0/order/bulk-delete/:status.
func (h *OrdersHandler) BulkDelete(c *fiber.Ctx) error {
	count, err := h.orders.BulkDeleteOrdersByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.SendString(strconv.Itoa(count) + " orders deleted successfully.")
}

// GetFiltered handles GET /api/v1.0/order/orders with pagination filters.
func (h *OrdersHandler) GetFiltered(c *fiber.Ctx) error {
	status := c.Query("status")
	startDate, err := parseQueryTime(c.Query("startDate"))
	if err != nil {
		return apperrors.NewValidationError("invalid startDate", nil)
	}
	endDate, err := parseQueryTime(c.Query("endDate"))
	if err != nil {
		return apperrors.NewValidationError("invalid endDate", nil)
	}
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)

	result, err := h.orders.GetFilteredOrders(c.Context(), status, startDate, endDate, page, size)
	if err != nil {
		return err
	}

	return c.JSON(dto.OrderPageResponse{
		Content:       dto.ToOrderResponses(result.Content),
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	})
}

func parseQueryTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dto.DateTimeLayout, raw)
}
