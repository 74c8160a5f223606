package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// DateTimeLayout is the wire format for order timestamps.
const DateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime serializes as yyyy-MM-ddTHH:mm:ss without a zone suffix.
type LocalDateTime struct {
	time.Time
}

// MarshalJSON renders the wire layout.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts the wire layout or null.
func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(DateTimeLayout, raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// OrderRequest is the create/update payload.
type OrderRequest struct {
	Description string        `json:"description"`
	Status      string        `json:"status"`
	CreateDate  LocalDateTime `json:"createDate"`
}

// OrderResponse is a single order on the wire.
type OrderResponse struct {
	Description string        `json:"description"`
	Status      string        `json:"status"`
	CreateDate  LocalDateTime `json:"createDate"`
}

// OrderPageResponse is one page of a filtered listing.
type OrderPageResponse struct {
	Content       []OrderResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}

// ToOrder maps the request payload onto a domain order.
func (r OrderRequest) ToOrder() *domain.Order {
	return &domain.Order{
		Description: r.Description,
		Status:      r.Status,
		CreateDate:  r.CreateDate.Time,
	}
}

// ToOrderResponse maps a domain order onto the wire shape.
func ToOrderResponse(order domain.Order) OrderResponse {
	return OrderResponse{
		Description: order.Description,
		Status:      order.Status,
		CreateDate:  LocalDateTime{order.CreateDate},
	}
}

// ToOrderResponses maps a slice of domain orders.
func ToOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = ToOrderResponse(order)
	}
	return out
}
