package api

import (
	"context"
	"log/slog"
	"net/http"
)

// AuthAPI obtains the bearer token the other clients attach to requests.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type authClient struct {
	*Client
}

// NewAuthClient wraps the shared HTTP client with the auth endpoint.
func NewAuthClient(c *Client) AuthAPI {
	return &authClient{Client: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (c *authClient) Login(ctx context.Context, username, password string) (string, error) {
	const op = "api.AuthClient.Login"
	logger := c.log.With(slog.String("op", op), slog.String("username", username))

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth", nil, loginRequest{Username: username, Password: password}, &resp); err != nil {
		logger.Error("login failed", slog.Any("error", err))
		return "", err
	}
	logger.Info("logged in")
	return resp.Token, nil
}
