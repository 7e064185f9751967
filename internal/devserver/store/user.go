package store

import (
	"context"
	"errors"
	"sync"
)

var ErrUserNotFound = errors.New("user not found")

// User is a stub-backend account. PassHash is a bcrypt hash.
type User struct {
	ID       int64
	Email    string
	PassHash []byte
	Admin    bool
}

// UserStore holds the accounts the stub backend authenticates against.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type userStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*User
}

func NewUserStore() *userStore {
	return &userStore{users: make(map[string]*User)}
}

// AddUser seeds an account. Meant for startup and tests, not request
// handling; the stub has no registration endpoint.
func (s *userStore) AddUser(email string, passHash []byte, admin bool) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user := &User{
		ID:       s.nextID,
		Email:    email,
		PassHash: passHash,
		Admin:    admin,
	}
	s.users[email] = user
	return user
}

func (s *userStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}
