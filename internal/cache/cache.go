// Package cache is the in-memory TTL cache shared by the API client and the
// question bank.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used when Set is called with a non-positive ttl.
const DefaultTTL = time.Hour

// Item is one cached value.
type Item struct {
	Data      any
	Timestamp time.Time
	TTL       time.Duration
}

// Expired reports whether the item is no longer valid at now.
// An item is valid iff now - Timestamp <= TTL.
func (it Item) Expired(now time.Time) bool {
	return now.Sub(it.Timestamp) > it.TTL
}

// Manager is an unbounded TTL cache. Expired entries are removed lazily on
// Get and in bulk by Sweep.
type Manager struct {
	mu         sync.Mutex
	items      map[string]Item
	now        func() time.Time
	defaultTTL time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Manager {
	m := &Manager{
		items:      make(map[string]Item),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Set stores data under key. A ttl <= 0 selects the default TTL.
func (m *Manager) Set(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = Item{Data: data, Timestamp: m.now(), TTL: ttl}
}

// Get returns the value for key. Expired entries are deleted and reported
// as missing.
func (m *Manager) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if it.Expired(m.now()) {
		delete(m.items, key)
		return nil, false
	}
	return it.Data, true
}

// Remove deletes key. Removing a missing key is a no-op.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Clear drops every entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]Item)
}

// Sweep removes all expired entries and returns how many were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, it := range m.items {
		if it.Expired(now) {
			delete(m.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// GetAs is a typed Get. A value of the wrong type is reported as missing.
func GetAs[T any](m *Manager, key string) (T, bool) {
	var zero T
	v, ok := m.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
