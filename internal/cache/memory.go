package cache

import (
	"container/list"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// entry is a single cached provider response.
type entry struct {
	key       string
	value     json.RawMessage
	expiresAt time.Time
}

// Memory is a concurrency-safe in-memory response cache with a fixed TTL and
// a capacity bound. Entries expire TTL after insertion; when the cache is
// full the least recently used entry is evicted.
type Memory struct {
	mu sync.Mutex

	// key: cache key, value: element in order holding *entry
	items map[string]*list.Element
	// front = most recently used
	order *list.List

	capacity int
	ttl      time.Duration
	clock    clockwork.Clock
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock sets the time source used for expiry.
func WithClock(c clockwork.Clock) Option {
	return func(m *Memory) {
		m.clock = c
	}
}

// NewMemory creates a cache holding at most capacity entries for ttl each.
// If capacity is <= 0, it is treated as unlimited. If ttl is <= 0 entries never expire.
func NewMemory(capacity int, ttl time.Duration, opts ...Option) *Memory {
	m := &Memory{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached value for key. Expired entries are removed and reported absent.
func (m *Memory) Get(key string) (json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if m.expired(e) {
		m.remove(el)
		return nil, false
	}
	m.order.MoveToFront(el)
	return e.value, true
}

// Put stores value under key, restarting its TTL, and enforces the capacity bound.
func (m *Memory) Put(key string, value json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.clock.Now().Add(m.ttl)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		m.order.MoveToFront(el)
		return
	}

	m.items[key] = m.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})

	if m.capacity <= 0 || m.order.Len() <= m.capacity {
		return
	}

	// Drop expired entries first; fall back to the least recently used one.
	m.purgeExpired()
	for m.order.Len() > m.capacity {
		m.remove(m.order.Back())
	}
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt)
}

func (m *Memory) purgeExpired() {
	for el := m.order.Back(); el != nil; {
		prev := el.Prev()
		if m.expired(el.Value.(*entry)) {
			m.remove(el)
		}
		el = prev
	}
}

func (m *Memory) remove(el *list.Element) {
	e := m.order.Remove(el).(*entry)
	delete(m.items, e.key)
}
