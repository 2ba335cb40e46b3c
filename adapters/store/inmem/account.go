package inmem

import (
	"context"
	"maps"
	"sync"

	"github.com/kompox/zoneacme/domain"
)

// AccountConfigRepository is a thread-safe in-memory implementation.
type AccountConfigRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewAccountConfigRepository() *AccountConfigRepository {
	return &AccountConfigRepository{items: make(map[string]string)}
}

func (r *AccountConfigRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[key], nil
}

func (r *AccountConfigRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
	return nil
}

func (r *AccountConfigRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, key)
	return nil
}

func (r *AccountConfigRepository) List(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.items), nil
}

var _ domain.AccountConfigRepository = (*AccountConfigRepository)(nil)
