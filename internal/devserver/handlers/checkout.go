package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
)

// CheckoutRequest is the body of POST /api/orders/checkout.
type CheckoutRequest struct {
	Total float64 `json:"total" validate:"required,gt=0"`
}

// CheckoutReply is the endpoint's ad hoc response shape: flattened order
// fields plus a message, with a single order_date standing in for both
// timestamps.
type CheckoutReply struct {
	Message     string  `json:"message"`
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	OrderDate   string  `json:"order_date"`
}

// CheckoutHandler accepts the submitted total, creates a pending order and
// empties the cart. The Idempotency-Key header, when present, makes a
// resubmitted checkout return the already-created order.
func CheckoutHandler(log *slog.Logger, carts store.CartStore, orders store.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		id, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			respondError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid total", slog.Float64("total", req.Total))
			respondError(logger, w, http.StatusBadRequest, "Invalid total amount")
			return
		}

		order, err := orders.CreateOrder(r.Context(), id.UserID, req.Total, r.Header.Get("Idempotency-Key"))
		if err != nil {
			logger.Error("failed to create order", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "Failed to place order")
			return
		}
		if err := carts.ClearCart(r.Context(), id.UserID); err != nil {
			logger.Error("failed to clear cart", slog.Any("error", err))
		}

		logger.Info("order created",
			slog.Int64("orderID", order.ID),
			slog.Float64("total", order.TotalAmount),
		)
		writeJSON(logger, w, http.StatusCreated, CheckoutReply{
			Message:     "Order placed successfully",
			OrderID:     order.ID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status.String(),
			OrderDate:   order.CreatedAt.Format(time.RFC3339),
		})
	}
}
