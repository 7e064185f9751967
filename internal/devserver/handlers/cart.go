package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/security/jwtmiddleware"
)

// GetCartHandler handles GET /api/cart.
func GetCartHandler(log *slog.Logger, carts store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		id, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			respondError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		cart, err := carts.GetCart(r.Context(), id.UserID)
		if err != nil {
			logger.Error("failed to get cart", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, cart)
	}
}

// UpdateCartItemRequest is the body of PUT /api/cart/items/{productID}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemHandler sets the quantity of one cart line, creating the
// line when it is new, and answers with the full updated cart.
func UpdateCartItemHandler(log *slog.Logger, carts store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		id, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			respondError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid product id")
			return
		}

		var req UpdateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "quantity must be at least 1")
			return
		}

		cart, err := carts.SetItemQuantity(r.Context(), id.UserID, productID, req.Quantity)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				logger.Warn("unknown product", slog.Int64("productID", productID))
				respondError(logger, w, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to update cart", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, cart)
	}
}

// RemoveCartItemHandler drops one cart line and answers with the full
// updated cart.
func RemoveCartItemHandler(log *slog.Logger, carts store.CartStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		id, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("identity not found in context")
			respondError(logger, w, http.StatusUnauthorized, "unauthorized")
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid product id")
			return
		}

		cart, err := carts.RemoveItem(r.Context(), id.UserID, productID)
		if err != nil {
			if errors.Is(err, store.ErrCartItemNotFound) {
				logger.Warn("line not in cart", slog.Int64("productID", productID))
				respondError(logger, w, http.StatusNotFound, "item not in cart")
				return
			}
			logger.Error("failed to remove item", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(logger, w, http.StatusOK, cart)
	}
}
