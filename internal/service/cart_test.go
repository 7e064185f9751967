package service_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/linemk/storefront/internal/api"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartAPI struct {
	cart          *models.Cart
	err           error
	getCalls      int
	updateCalls   int
	removeCalls   int
	lastProductID int64
	lastQuantity  int
}

var _ api.CartAPI = (*fakeCartAPI)(nil)

func (f *fakeCartAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	f.getCalls++
	return f.cart, f.err
}

func (f *fakeCartAPI) UpdateCartItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	f.updateCalls++
	f.lastProductID = productID
	f.lastQuantity = quantity
	return f.cart, f.err
}

func (f *fakeCartAPI) RemoveFromCart(ctx context.Context, productID int64) (*models.Cart, error) {
	f.removeCalls++
	f.lastProductID = productID
	return f.cart, f.err
}

type fakeOrderAPI struct {
	resp          *models.CheckoutResponse
	err           error
	checkoutCalls int
	gotTotal      float64
	started       chan struct{} // closed when Checkout is entered, when set
	release       chan struct{} // Checkout blocks on this, when set
}

var _ api.OrderAPI = (*fakeOrderAPI)(nil)

func (f *fakeOrderAPI) Checkout(ctx context.Context, total float64) (*models.CheckoutResponse, error) {
	f.checkoutCalls++
	f.gotTotal = total
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeOrderAPI) GetOrders(ctx context.Context) ([]*models.Order, error) { return nil, nil }
func (f *fakeOrderAPI) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return nil, nil
}
func (f *fakeOrderAPI) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	return nil, nil
}
func (f *fakeOrderAPI) GetAllOrders(ctx context.Context) ([]*models.Order, error) { return nil, nil }

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	warnings  []string
}

var _ service.Notifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) Success(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, msg)
}

func (f *fakeNotifier) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, msg)
}

func (f *fakeNotifier) Warning(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, msg)
}

type fakeNav struct {
	mu        sync.Mutex
	navigated int
}

var _ service.Navigator = (*fakeNav)(nil)

func (f *fakeNav) NavigateToOrders() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated++
}

func (f *fakeNav) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.navigated
}

func floatPtr(v float64) *float64 { return &v }

func newCartService(cartAPI api.CartAPI, orderAPI api.OrderAPI) (*service.CartService, *fakeNotifier, *fakeNav) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	notifier := &fakeNotifier{}
	nav := &fakeNav{}
	return service.NewCartService(logger, cartAPI, orderAPI, notifier, nav), notifier, nav
}

func TestCartService_LoadCart_Success(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 2}}}
	cartAPI := &fakeCartAPI{cart: cart}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.LoadCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cart, svc.Cart(), "snapshot is replaced wholesale")
	assert.False(t, svc.Loading(), "loading must be cleared after the call")
	assert.Empty(t, notifier.errors)
}

func TestCartService_LoadCart_Failure(t *testing.T) {
	cartAPI := &fakeCartAPI{err: errors.New("connection refused")}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.LoadCart(context.Background())
	require.Error(t, err)
	assert.Nil(t, svc.Cart(), "a failed load leaves the previous snapshot alone")
	assert.Equal(t, []string{"Failed to load cart"}, notifier.errors)
	assert.False(t, svc.Loading())
}

func TestCartService_UpdateQuantity_SubOneIsSilentNoOp(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 2}}}
	cartAPI := &fakeCartAPI{cart: cart}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})
	require.NoError(t, svc.LoadCart(context.Background()))

	for _, quantity := range []int{0, -1} {
		err := svc.UpdateQuantity(context.Background(), 1, quantity)
		assert.NoError(t, err, "quantity %d is silently ignored", quantity)
	}
	assert.Equal(t, 0, cartAPI.updateCalls, "the cart service must not be called")
	assert.Equal(t, cart, svc.Cart(), "the stored cart is unchanged")
	assert.Empty(t, notifier.successes)
	assert.Empty(t, notifier.errors)
}

func TestCartService_UpdateQuantity_Success(t *testing.T) {
	updated := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 3}}}
	cartAPI := &fakeCartAPI{cart: updated}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.UpdateQuantity(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, cartAPI.updateCalls)
	assert.Equal(t, int64(1), cartAPI.lastProductID)
	assert.Equal(t, 3, cartAPI.lastQuantity)
	assert.Equal(t, updated, svc.Cart(), "the returned cart replaces the snapshot")
	assert.Equal(t, []string{"Cart updated"}, notifier.successes)
}

func TestCartService_UpdateQuantity_Failure(t *testing.T) {
	cartAPI := &fakeCartAPI{err: errors.New("boom")}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.UpdateQuantity(context.Background(), 1, 3)
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to update cart"}, notifier.errors)
	assert.Nil(t, svc.Cart())
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	updated := &models.Cart{Items: []models.CartItem{}}
	cartAPI := &fakeCartAPI{cart: updated}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.RemoveItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cartAPI.removeCalls)
	assert.Equal(t, updated, svc.Cart())
	assert.Equal(t, []string{"Item removed from cart"}, notifier.successes)
}

func TestCartService_RemoveItem_Failure(t *testing.T) {
	cartAPI := &fakeCartAPI{err: errors.New("boom")}
	svc, notifier, _ := newCartService(cartAPI, &fakeOrderAPI{})

	err := svc.RemoveItem(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to remove item"}, notifier.errors)
}

func TestCartService_Checkout_NoCartLoaded(t *testing.T) {
	orderAPI := &fakeOrderAPI{}
	svc, notifier, nav := newCartService(&fakeCartAPI{}, orderAPI)

	err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Equal(t, 0, orderAPI.checkoutCalls, "no network call for an empty cart")
	assert.Equal(t, []string{"Cart is empty"}, notifier.errors)
	assert.Equal(t, 0, nav.count())
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	cartAPI := &fakeCartAPI{cart: &models.Cart{Items: []models.CartItem{}}}
	orderAPI := &fakeOrderAPI{}
	svc, notifier, _ := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Equal(t, 0, orderAPI.checkoutCalls)
	assert.Equal(t, []string{"Cart is empty"}, notifier.errors)
}

func TestCartService_Checkout_UsesServerTotalVerbatim(t *testing.T) {
	// The line items sum to 25, but the cart service said 99: its total is
	// authoritative and the items are ignored entirely.
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: 1, Product: &models.Product{ID: 1, Price: 10}, Quantity: 2},
			{ProductID: 2, Product: &models.Product{ID: 2, Price: 5}, Quantity: 1},
		},
		Total: floatPtr(99),
	}
	cartAPI := &fakeCartAPI{cart: cart}
	orderAPI := &fakeOrderAPI{resp: &models.CheckoutResponse{}}
	svc, _, _ := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	require.NoError(t, svc.Checkout(context.Background()))
	assert.Equal(t, float64(99), orderAPI.gotTotal)
}

func TestCartService_Checkout_RecomputesMissingTotal(t *testing.T) {
	// No server total: 10x2 + 5x1 = 25, with the malformed lines (no
	// product, no usable price) contributing 0.
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: 1, Product: &models.Product{ID: 1, Price: 10}, Quantity: 2},
			{ProductID: 2, Product: &models.Product{ID: 2, Price: 5}, Quantity: 1},
			{ProductID: 3, Quantity: 7},
			{ProductID: 4, Product: &models.Product{ID: 4, Price: 0}, Quantity: 3},
		},
	}
	cartAPI := &fakeCartAPI{cart: cart}
	orderAPI := &fakeOrderAPI{resp: &models.CheckoutResponse{}}
	svc, notifier, nav := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	require.NoError(t, svc.Checkout(context.Background()))
	assert.Equal(t, float64(25), orderAPI.gotTotal)
	assert.Equal(t, []string{"Order placed successfully"}, notifier.successes)
	assert.Equal(t, 1, nav.count(), "success navigates to the order history")
}

func TestCartService_Checkout_NonPositiveTotal(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: 3, Quantity: 7}, // no product, contributes 0
		},
	}
	cartAPI := &fakeCartAPI{cart: cart}
	orderAPI := &fakeOrderAPI{}
	svc, notifier, _ := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, service.ErrInvalidCartTotal)
	assert.Equal(t, 0, orderAPI.checkoutCalls)
	assert.Equal(t, []string{"Invalid cart total"}, notifier.errors)
}

func TestCartService_Checkout_SurfacesBackendMessage(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 1}}, Total: floatPtr(10)}
	cartAPI := &fakeCartAPI{cart: cart}
	orderAPI := &fakeOrderAPI{err: &api.APIError{StatusCode: http.StatusConflict, Message: "Insufficient stock"}}
	svc, notifier, nav := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	err := svc.Checkout(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Insufficient stock"}, notifier.errors,
		"the backend's own message wins over the generic one")
	assert.Equal(t, 0, nav.count())
	assert.False(t, svc.Loading())
}

func TestCartService_Checkout_GenericFallbackMessage(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 1}}, Total: floatPtr(10)}
	cartAPI := &fakeCartAPI{cart: cart}
	orderAPI := &fakeOrderAPI{err: errors.New("dial tcp: connection refused")}
	svc, notifier, _ := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	err := svc.Checkout(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to place order"}, notifier.errors)
}

func TestCartService_Checkout_RejectsSecondWhileInFlight(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 1}}, Total: floatPtr(10)}
	cartAPI := &fakeCartAPI{cart: cart}
	started := make(chan struct{})
	release := make(chan struct{})
	orderAPI := &fakeOrderAPI{
		resp:    &models.CheckoutResponse{},
		started: started,
		release: release,
	}
	svc, notifier, nav := newCartService(cartAPI, orderAPI)
	require.NoError(t, svc.LoadCart(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- svc.Checkout(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first checkout never reached the order client")
	}
	assert.True(t, svc.Loading(), "loading is raised for the duration of the round trip")

	err := svc.Checkout(context.Background())
	assert.ErrorIs(t, err, service.ErrBusy, "a double-submitted checkout is rejected")

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, 1, orderAPI.checkoutCalls, "only one request went out")
	assert.Equal(t, 1, nav.count())
	assert.Equal(t, []string{"Another operation is in progress"}, notifier.warnings)
	assert.False(t, svc.Loading())
}

func TestCheckoutTotal(t *testing.T) {
	tests := []struct {
		name string
		cart *models.Cart
		want float64
	}{
		{
			name: "server total is authoritative",
			cart: &models.Cart{
				Items: []models.CartItem{{Product: &models.Product{Price: 10}, Quantity: 2}},
				Total: floatPtr(42),
			},
			want: 42,
		},
		{
			name: "recomputed from lines",
			cart: &models.Cart{
				Items: []models.CartItem{
					{Product: &models.Product{Price: 10}, Quantity: 2},
					{Product: &models.Product{Price: 5}, Quantity: 1},
				},
			},
			want: 25,
		},
		{
			name: "lines without product or price contribute zero",
			cart: &models.Cart{
				Items: []models.CartItem{
					{Quantity: 3},
					{Product: &models.Product{Price: 0}, Quantity: 3},
					{Product: &models.Product{Price: -1}, Quantity: 3},
					{Product: &models.Product{Price: 2}, Quantity: 2},
				},
			},
			want: 4,
		},
		{
			name: "empty cart",
			cart: &models.Cart{},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.CheckoutTotal(tt.cart))
		})
	}
}

// recordingHandler captures records so tests can assert on emitted events
// instead of scraping stdout.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := make([]string, 0, len(h.records))
	for _, r := range h.records {
		msgs = append(msgs, r.Message)
	}
	return msgs
}

func TestCartService_Checkout_EmitsLogEvents(t *testing.T) {
	handler := &recordingHandler{}
	logger := slog.New(handler)

	cart := &models.Cart{Items: []models.CartItem{{ProductID: 1, Quantity: 1}}, Total: floatPtr(10)}
	svc := service.NewCartService(logger, &fakeCartAPI{cart: cart}, &fakeOrderAPI{resp: &models.CheckoutResponse{}}, &fakeNotifier{}, &fakeNav{})

	require.NoError(t, svc.LoadCart(context.Background()))
	require.NoError(t, svc.Checkout(context.Background()))

	msgs := handler.messages()
	assert.Contains(t, msgs, "loading cart")
	assert.Contains(t, msgs, "calculated total")
	assert.Contains(t, msgs, "sending checkout request")
}
