package users

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/store"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*store.User
}

func newMemStore() *memStore {
	return &memStore{users: map[uint]*store.User{}}
}

func (m *memStore) Create(_ context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperr.Conflict(store.MsgUserExists)
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) find(match func(*store.User) bool) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("not found")
}

func (m *memStore) ByID(_ context.Context, id uint) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.ID == id })
}

func (m *memStore) ByUsername(_ context.Context, name string) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.Username == name })
}

func (m *memStore) ByEmail(_ context.Context, email string) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.Email == email })
}

func (m *memStore) UpdateLocation(_ context.Context, id uint, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("not found")
	}
	u.Location = &location
	return nil
}
