package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Eltn555/admin/domain"
)

// MemoryLocalStorage is an in-process domain.LocalStorage
type MemoryLocalStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryLocalStorage returns an empty in-memory local storage
func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{items: make(map[string]string)}
}

// GetItem implements domain.LocalStorage
func (s *MemoryLocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// SetItem implements domain.LocalStorage
func (s *MemoryLocalStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// RemoveItem implements domain.LocalStorage
func (s *MemoryLocalStorage) RemoveItem(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

// MemoryCookieStore is an in-process domain.CookieStore
type MemoryCookieStore struct {
	mu      sync.Mutex
	cookies map[string]domain.Cookie
	nowF    func() time.Time
}

// NewMemoryCookieStore returns an empty in-memory cookie store
func NewMemoryCookieStore() *MemoryCookieStore {
	return &MemoryCookieStore{
		cookies: make(map[string]domain.Cookie),
		nowF:    time.Now,
	}
}

// Get implements domain.CookieStore
func (s *MemoryCookieStore) Get(ctx context.Context, name string) (*domain.Cookie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[name]
	if !ok {
		return nil, nil
	}
	if c.Expired(s.nowF()) {
		delete(s.cookies, name)
		return nil, nil
	}
	return &c, nil
}

// Set implements domain.CookieStore
func (s *MemoryCookieStore) Set(ctx context.Context, cookie *domain.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies[cookie.Name] = *cookie
	return nil
}

// Remove implements domain.CookieStore
func (s *MemoryCookieStore) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cookies, name)
	return nil
}

var (
	_ domain.LocalStorage = (*MemoryLocalStorage)(nil)
	_ domain.CookieStore  = (*MemoryCookieStore)(nil)
)
