package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/linemk/storefront/internal/domain/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartStore is the stub rendition of the external cart service: one cart per
// user, catalog-priced, with the total computed server-side on every read.
type CartStore interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	// SetItemQuantity sets the quantity for a product line, creating the
	// line when it does not exist yet (PUT semantics).
	SetItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID int64) (*models.Cart, error)
	ClearCart(ctx context.Context, userID int64) error
}

type cartStore struct {
	mu      sync.Mutex
	catalog map[int64]models.Product
	carts   map[int64]map[int64]int // userID -> productID -> quantity
}

func NewCartStore(catalog []models.Product) *cartStore {
	byID := make(map[int64]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	return &cartStore{
		catalog: byID,
		carts:   make(map[int64]map[int64]int),
	}
}

func (s *cartStore) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(userID), nil
}

func (s *cartStore) SetItemQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog[productID]; !ok {
		return nil, ErrProductNotFound
	}
	lines, ok := s.carts[userID]
	if !ok {
		lines = make(map[int64]int)
		s.carts[userID] = lines
	}
	lines[productID] = quantity
	return s.snapshot(userID), nil
}

func (s *cartStore) RemoveItem(ctx context.Context, userID, productID int64) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.carts[userID]
	if !ok {
		return nil, ErrCartItemNotFound
	}
	if _, ok := lines[productID]; !ok {
		return nil, ErrCartItemNotFound
	}
	delete(lines, productID)
	return s.snapshot(userID), nil
}

func (s *cartStore) ClearCart(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

// snapshot assembles the wire cart: lines in stable product order, each
// carrying its catalog product, plus the server-computed total. Callers must
// hold the mutex.
func (s *cartStore) snapshot(userID int64) *models.Cart {
	lines := s.carts[userID]

	ids := make([]int64, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cart := &models.Cart{Items: make([]models.CartItem, 0, len(ids))}
	var total float64
	for _, id := range ids {
		product := s.catalog[id]
		quantity := lines[id]
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: id,
			Product:   &product,
			Quantity:  quantity,
		})
		total += product.Price * float64(quantity)
	}
	cart.Total = &total
	return cart
}
