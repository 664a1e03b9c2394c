package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a development and test implementation.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[string]UserRow // userID -> row
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[string]UserRow)}
}

func (s *InMemoryStore) CreateUser(_ context.Context, p CreateUserParams) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if strings.EqualFold(row.User.Email, p.Email) || strings.EqualFold(row.User.Username, p.Username) {
			return User{}, ErrConflict
		}
	}
	u := User{
		ID:        uuid.NewString(),
		Email:     p.Email,
		Username:  p.Username,
		Role:      p.Role,
		CreatedAt: time.Now().UTC(),
	}
	s.rows[u.ID] = UserRow{User: u, PasswordHash: p.PasswordHash}
	return u, nil
}

func (s *InMemoryStore) FindUserByLogin(_ context.Context, login string) (UserRow, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return UserRow{}, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if strings.EqualFold(row.User.Email, login) || strings.EqualFold(row.User.Username, login) {
			return row, nil
		}
	}
	return UserRow{}, ErrNotFound
}
