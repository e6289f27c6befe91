package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/babyurl/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu           sync.RWMutex
	associations map[shortener.Code]shortener.Association
	ttl          time.Duration
	now          func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock replaces time.Now when deciding whether a held code is still live.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// NewMemoryStore creates a new in-memory association store.
// A code whose holder is older than ttl may be reissued.
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		associations: make(map[shortener.Code]shortener.Association),
		ttl:          ttl,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *MemoryStore) Insert(_ context.Context, association *shortener.Association) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.associations[association.Code]; ok && existing.Live(m.now(), m.ttl) {
		return shortener.ErrCollision
	}

	m.associations[association.Code] = *association

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.Association, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	association, ok := m.associations[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &association, nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) ([]shortener.Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted []shortener.Code

	for code, association := range m.associations {
		if !association.CreatedAt.After(cutoff) {
			delete(m.associations, code)
			deleted = append(deleted, code)
		}
	}

	return deleted, nil
}

// Len returns the number of stored associations, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.associations)
}

// Shutdown is a no-op for MemoryStore.
func (m *MemoryStore) Shutdown() error {
	return nil
}

var (
	_ shortener.Repository = (*MemoryStore)(nil)
	_ shortener.Sweeper    = (*MemoryStore)(nil)
)
