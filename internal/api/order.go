package api

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/linemk/storefront/internal/domain/models"
)

// OrderAPI describes the order operations the storefront performs against
// the backend. No call retries; every failure surfaces to the caller as-is.
type OrderAPI interface {
	// Checkout submits the total and returns the created order. Totals that
	// are NaN, infinite or not strictly positive are rejected locally with
	// ErrInvalidTotal before any network call.
	Checkout(ctx context.Context, total float64) (*models.CheckoutResponse, error)
	GetOrders(ctx context.Context) ([]*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	// UpdateOrderStatus requests a status transition. Whether the transition
	// is legal is entirely the backend's call.
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	// GetAllOrders hits the admin-scoped listing; authorization is delegated
	// to the backend.
	GetAllOrders(ctx context.Context) ([]*models.Order, error)
}

type orderClient struct {
	*Client
}

// NewOrderClient wraps the shared HTTP client with the order endpoints.
func NewOrderClient(c *Client) OrderAPI {
	return &orderClient{Client: c}
}

var validate = validator.New()

// checkoutRequest is the body POSTed to /orders/checkout.
type checkoutRequest struct {
	Total float64 `json:"total" validate:"required,gt=0"`
}

// checkoutReply is the ad hoc shape the checkout endpoint answers with; it
// does not match the Order wire shape and has to be reassembled locally.
type checkoutReply struct {
	Message     string  `json:"message"`
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	OrderDate   string  `json:"order_date"`
}

func (c *orderClient) Checkout(ctx context.Context, total float64) (*models.CheckoutResponse, error) {
	const op = "api.OrderClient.Checkout"
	logger := c.log.With(slog.String("op", op), slog.Float64("total", total))

	if math.IsNaN(total) || math.IsInf(total, 0) {
		logger.Warn("rejecting checkout total locally")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTotal)
	}
	req := checkoutRequest{Total: total}
	if err := validate.Struct(req); err != nil {
		logger.Warn("rejecting checkout total locally", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTotal)
	}

	// The key lets the backend deduplicate a resubmitted checkout.
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	logger.Info("sending checkout request")
	var reply checkoutReply
	if err := c.do(ctx, http.MethodPost, "/orders/checkout", header, req, &reply); err != nil {
		logger.Error("checkout request failed", slog.Any("error", err))
		return nil, err
	}

	orderDate := parseOrderDate(reply.OrderDate)
	resp := &models.CheckoutResponse{
		Message: reply.Message,
		Order: models.Order{
			ID:          reply.OrderID,
			UserID:      0, // the checkout endpoint never reports the owner
			TotalAmount: reply.TotalAmount,
			Status:      models.OrderStatus(reply.Status),
			CreatedAt:   orderDate,
			UpdatedAt:   orderDate,
		},
	}
	logger.Info("checkout completed",
		slog.Int64("orderID", resp.Order.ID),
		slog.String("status", resp.Order.Status.String()),
	)
	return resp, nil
}

func (c *orderClient) GetOrders(ctx context.Context) ([]*models.Order, error) {
	var orders []*models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *orderClient) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, order); err != nil {
		return nil, err
	}
	return order, nil
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func (c *orderClient) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	order := &models.Order{}
	path := fmt.Sprintf("/orders/%d/status", id)
	if err := c.do(ctx, http.MethodPut, path, nil, updateStatusRequest{Status: status}, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *orderClient) GetAllOrders(ctx context.Context) ([]*models.Order, error) {
	var orders []*models.Order
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// parseOrderDate accepts the full RFC 3339 form the backend usually sends
// and falls back to a bare date, which some responses carry instead.
func parseOrderDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
