package httpapi

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/store"
	"github.com/i474232898/weather-notification-service/internal/weather"
)

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*store.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uint]*store.User{}}
}

func (m *memUsers) Create(_ context.Context, u *store.User) error {
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

func (m *memUsers) find(match func(*store.User) bool) (*store.User, error) {
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

func (m *memUsers) ByID(_ context.Context, id uint) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.ID == id })
}

func (m *memUsers) ByUsername(_ context.Context, name string) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.Username == name })
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*store.User, error) {
	return m.find(func(u *store.User) bool { return u.Email == email })
}

func (m *memUsers) UpdateLocation(_ context.Context, id uint, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("not found")
	}
	u.Location = &location
	return nil
}

type memNotifications struct {
	mu     sync.Mutex
	nextID uint
	items  []store.Notification
}

func (m *memNotifications) Create(_ context.Context, n *store.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	n.CreatedAt = time.Now()
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID uint) (*store.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *store.Notification
	for i := range m.items {
		if m.items[i].UserID != userID {
			continue
		}
		m.items[i].IsRead = true
		if last == nil || m.items[i].ID > last.ID {
			cp := m.items[i]
			last = &cp
		}
	}
	if last == nil {
		return nil, apperr.NotFound("No notification found")
	}
	return last, nil
}

func (m *memNotifications) DeleteAll(_ context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	var n int64
	for _, item := range m.items {
		if item.UserID == userID {
			n++
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return n, nil
}

func (m *memNotifications) List(_ context.Context, userID uint) ([]store.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Notification{}
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memNotifications) Count(ctx context.Context, userID uint) (int64, error) {
	list, _ := m.List(ctx, userID)
	return int64(len(list)), nil
}

type stubProvider struct {
	mu      sync.Mutex
	calls   int
	payload json.RawMessage
	err     error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) answer() (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func (p *stubProvider) Current(context.Context, weather.Coordinates) (json.RawMessage, error) {
	return p.answer()
}

func (p *stubProvider) Forecast(context.Context, weather.Coordinates) (json.RawMessage, error) {
	return p.answer()
}

func (p *stubProvider) City(context.Context, string) (json.RawMessage, error) {
	return p.answer()
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}
