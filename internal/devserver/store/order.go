package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStore holds the orders the stub backend has accepted.
type OrderStore interface {
	// CreateOrder persists a new pending order. When idemKey was seen
	// before, the order it created is returned instead of a duplicate.
	CreateOrder(ctx context.Context, userID int64, total float64, idemKey string) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	AllOrders(ctx context.Context) ([]*models.Order, error)
}

type orderStore struct {
	mu      sync.Mutex
	nextID  int64
	orders  map[int64]*models.Order
	ordered []int64          // ids in creation order
	byKey   map[string]int64 // idempotency key -> order id
}

func NewOrderStore() *orderStore {
	return &orderStore{
		orders: make(map[int64]*models.Order),
		byKey:  make(map[string]int64),
	}
}

func (s *orderStore) CreateOrder(ctx context.Context, userID int64, total float64, idemKey string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idemKey != "" {
		if id, ok := s.byKey[idemKey]; ok {
			return copyOrder(s.orders[id]), nil
		}
	}

	now := time.Now().UTC()
	s.nextID++
	order := &models.Order{
		ID:          s.nextID,
		UserID:      userID,
		TotalAmount: total,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.orders[order.ID] = order
	s.ordered = append(s.ordered, order.ID)
	if idemKey != "" {
		s.byKey[idemKey] = order.ID
	}
	return copyOrder(order), nil
}

// GetOrdersByUserID lists the user's orders, newest first.
func (s *orderStore) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]*models.Order, 0)
	for i := len(s.ordered) - 1; i >= 0; i-- {
		order := s.orders[s.ordered[i]]
		if order.UserID == userID {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (s *orderStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return copyOrder(order), nil
}

func (s *orderStore) AllOrders(ctx context.Context) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]*models.Order, 0, len(s.ordered))
	for i := len(s.ordered) - 1; i >= 0; i-- {
		orders = append(orders, copyOrder(s.orders[s.ordered[i]]))
	}
	return orders, nil
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	return &c
}
