package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/linemk/storefront/internal/devserver/store"
	"github.com/linemk/storefront/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// AuthRequest is the login body, with validation tags.
type AuthRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse carries the minted JWT.
type AuthResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles POST /api/auth against the seeded accounts. The stub
// has no registration: unknown users and wrong passwords both come back as
// invalid credentials.
func AuthHandler(log *slog.Logger, users store.UserStore, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AuthHandler"
		logger := log.With(slog.String("op", op))

		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			respondError(logger, w, http.StatusBadRequest, "validation error")
			return
		}

		user, err := users.GetUserByEmail(r.Context(), req.Username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				logger.Warn("unknown user", slog.String("username", req.Username))
				respondError(logger, w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			logger.Error("failed to get user", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(req.Password)); err != nil {
			logger.Warn("invalid password", slog.String("username", req.Username))
			respondError(logger, w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := security.NewToken(user, tokenTTL)
		if err != nil {
			logger.Error("failed to generate token", slog.Any("error", err))
			respondError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		logger.Info("user logged in", slog.Int64("userID", user.ID))
		writeJSON(logger, w, http.StatusOK, AuthResponse{Token: token})
	}
}
