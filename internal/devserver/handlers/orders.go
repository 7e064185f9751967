package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
)

// ListOrdersHandler handles GET /api/orders: the caller's orders, newest
// first.
func ListOrdersHandler(log *slog.Logger, orders store.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		id, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			respondError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		list, err := orders.GetOrdersByUserID(r.Context(), id.UserID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, list)
	}
}

// GetOrderHandler handles GET /api/orders/{id}.
func GetOrderHandler(log *slog.Logger, orders store.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := orders.GetOrderByID(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				respondError(logger, w, http.StatusNotFound, "order not found")
				return
			}
			logger.Error("failed to get order", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, order)
	}
}

// UpdateOrderStatusRequest is the body of PUT /api/orders/{id}/status. The
// backend owns the status enumeration, so the allowed values live here.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped"`
}

// UpdateOrderStatusHandler applies a status transition.
func UpdateOrderStatusHandler(log *slog.Logger, orders store.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req UpdateOrderStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("unknown status", slog.String("status", req.Status))
			respondError(logger, w, http.StatusBadRequest, "unknown status")
			return
		}

		order, err := orders.UpdateStatus(r.Context(), orderID, models.OrderStatus(req.Status))
		if err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				respondError(logger, w, http.StatusNotFound, "order not found")
				return
			}
			logger.Error("failed to update status", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		logger.Info("status updated", slog.Int64("orderID", orderID), slog.String("status", req.Status))
		writeJSON(logger, w, http.StatusOK, order)
	}
}

// ListAllOrdersHandler handles GET /api/admin/orders; the admin guard sits
// in the middleware chain, not here.
func ListAllOrdersHandler(log *slog.Logger, orders store.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListAllOrdersHandler"
		logger := log.With(slog.String("op", op))

		list, err := orders.AllOrders(r.Context())
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, list)
	}
}
