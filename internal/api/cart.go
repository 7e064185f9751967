package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linemk/storefront/internal/domain/models"
)

// CartAPI is the client side of the external cart service. The cart service
// owns the cart: every mutating call answers with the full updated cart,
// which the caller is expected to adopt wholesale.
type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, productID int64) (*models.Cart, error)
}

type cartClient struct {
	*Client
}

// NewCartClient wraps the shared HTTP client with the cart endpoints.
func NewCartClient(c *Client) CartAPI {
	return &cartClient{Client: c}
}

func (c *cartClient) GetCart(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func (c *cartClient) UpdateCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	cart := &models.Cart{}
	path := fmt.Sprintf("/cart/items/%d", productID)
	if err := c.do(ctx, http.MethodPut, path, nil, updateCartItemRequest{Quantity: quantity}, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (c *cartClient) RemoveFromCart(ctx context.Context, productID int64) (*models.Cart, error) {
	cart := &models.Cart{}
	path := fmt.Sprintf("/cart/items/%d", productID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
