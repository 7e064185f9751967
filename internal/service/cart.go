package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/linemk/storefront/internal/api"
	"github.com/linemk/storefront/internal/domain/models"
)

var (
	// ErrBusy rejects an action dispatched while a previous one is still in
	// flight, so a double-clicked checkout cannot submit twice.
	ErrBusy = errors.New("another operation is in flight")
	// ErrEmptyCart rejects a checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCartTotal rejects a checkout whose pre-flight total is not
	// strictly positive.
	ErrInvalidCartTotal = errors.New("invalid cart total")
)

// CartService is the view controller behind the cart screen. It holds the
// current cart snapshot and a loading flag, delegates every operation to the
// cart service or the order backend, and reports each outcome through the
// injected Notifier. All failures are surfaced to the user before they are
// returned, so callers normally use the returned error for exit status only.
//
// At most one action runs at a time: a second invocation while one is
// pending is rejected with ErrBusy instead of dispatching a duplicate
// request.
type CartService struct {
	log      *slog.Logger
	cartAPI  api.CartAPI
	orderAPI api.OrderAPI
	notifier Notifier
	nav      Navigator

	inFlight atomic.Bool

	mu      sync.Mutex
	cart    *models.Cart
	loading bool
}

func NewCartService(log *slog.Logger, cartAPI api.CartAPI, orderAPI api.OrderAPI, notifier Notifier, nav Navigator) *CartService {
	return &CartService{
		log:      log,
		cartAPI:  cartAPI,
		orderAPI: orderAPI,
		notifier: notifier,
		nav:      nav,
	}
}

// Cart returns the current snapshot; nil until the first successful load.
func (s *CartService) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Loading reports whether a load or checkout round trip is in progress.
func (s *CartService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *CartService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *CartService) replaceCart(cart *models.Cart) {
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
}

// LoadCart fetches the cart snapshot and replaces the local one. Failure is
// reported to the user and does not clear the previous snapshot.
func (s *CartService) LoadCart(ctx context.Context) error {
	const op = "service.CartService.LoadCart"
	logger := s.log.With(slog.String("op", op))

	if !s.inFlight.CompareAndSwap(false, true) {
		logger.Warn("rejected, another operation is in flight")
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}
	defer s.inFlight.Store(false)

	s.setLoading(true)
	defer s.setLoading(false)

	logger.Info("loading cart")
	cart, err := s.cartAPI.GetCart(ctx)
	if err != nil {
		logger.Error("failed to load cart", slog.Any("error", err))
		s.notifier.Error("Failed to load cart")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.replaceCart(cart)
	logger.Info("cart loaded", slog.Int("items", len(cart.Items)))
	return nil
}

// UpdateQuantity asks the cart service to set a new quantity for one line.
// Quantities below 1 are deliberately a silent no-op: the decrement control
// can ask for zero, and removing a line is an explicit separate action.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	const op = "service.CartService.UpdateQuantity"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("productID", productID),
		slog.Int("quantity", quantity),
	)

	if quantity < 1 {
		logger.Debug("ignoring sub-1 quantity")
		return nil
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		logger.Warn("rejected, another operation is in flight")
		s.notifier.Warning("Another operation is in progress")
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}
	defer s.inFlight.Store(false)

	cart, err := s.cartAPI.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		logger.Error("failed to update cart", slog.Any("error", err))
		s.notifier.Error("Failed to update cart")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.replaceCart(cart)
	s.notifier.Success("Cart updated")
	return nil
}

// RemoveItem asks the cart service to drop one line.
func (s *CartService) RemoveItem(ctx context.Context, productID int64) error {
	const op = "service.CartService.RemoveItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID))

	if !s.inFlight.CompareAndSwap(false, true) {
		logger.Warn("rejected, another operation is in flight")
		s.notifier.Warning("Another operation is in progress")
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}
	defer s.inFlight.Store(false)

	cart, err := s.cartAPI.RemoveFromCart(ctx, productID)
	if err != nil {
		logger.Error("failed to remove item", slog.Any("error", err))
		s.notifier.Error("Failed to remove item")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.replaceCart(cart)
	s.notifier.Success("Item removed from cart")
	return nil
}

// Checkout converts the current cart into an order. The cart must exist and
// have at least one line, and the pre-flight total must be strictly
// positive; both guards abort with an error notification and no network
// call. On success the user is notified and the UI navigates to the order
// history; the response value itself is not used further.
func (s *CartService) Checkout(ctx context.Context) error {
	const op = "service.CartService.Checkout"
	logger := s.log.With(slog.String("op", op))

	cart := s.Cart()
	if cart == nil || len(cart.Items) == 0 {
		logger.Warn("checkout rejected, cart is empty")
		s.notifier.Error("Cart is empty")
		return fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	total := CheckoutTotal(cart)
	logger.Info("calculated total", slog.Float64("total", total))
	if total <= 0 {
		logger.Warn("checkout rejected, non-positive total", slog.Float64("total", total))
		s.notifier.Error("Invalid cart total")
		return fmt.Errorf("%s: %w", op, ErrInvalidCartTotal)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		logger.Warn("checkout rejected, another operation is in flight")
		s.notifier.Warning("Another operation is in progress")
		return fmt.Errorf("%s: %w", op, ErrBusy)
	}
	defer s.inFlight.Store(false)

	s.setLoading(true)
	defer s.setLoading(false)

	logger.Info("sending checkout request", slog.Float64("total", total))
	if _, err := s.orderAPI.Checkout(ctx, total); err != nil {
		logger.Error("checkout failed", slog.Any("error", err))
		s.notifier.Error(api.UserMessage(err, "Failed to place order"))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Success("Order placed successfully")
	s.nav.NavigateToOrders()
	return nil
}

// CheckoutTotal picks the amount submitted at checkout. The cart service's
// own total is authoritative whenever it is present; summing the lines is a
// pre-flight fallback for carts fetched without one. Lines with no product
// or no usable price contribute nothing.
func CheckoutTotal(cart *models.Cart) float64 {
	if cart.Total != nil {
		return *cart.Total
	}
	var total float64
	for _, item := range cart.Items {
		if item.Product == nil || item.Product.Price <= 0 {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}
