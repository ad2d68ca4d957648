package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/nexus-commerce/storefront/internal/kv"
	"golang.org/x/sync/singleflight"
)

// Manager hands out one hydrated Store per user. Hydration goes through
// singleflight so concurrent requests for the same user do not race on the
// key-value store.
type Manager struct {
	kv  kv.Store
	sfg singleflight.Group

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(store kv.Store) *Manager {
	return &Manager{
		kv:     store,
		stores: make(map[string]*Store),
	}
}

func (m *Manager) Store(ctx context.Context, userID string) (*Store, error) {
	m.mu.Lock()
	if s, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	v, err, _ := m.sfg.Do(userID, func() (interface{}, error) {
		s, err := Open(ctx, m.kv, userID)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.stores[userID]; ok {
			return existing, nil
		}
		m.stores[userID] = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Evict discards the in-memory store so the next access rehydrates from the
// key-value store. Persisted state is untouched.
func (m *Manager) Evict(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}

// Drop discards both the in-memory store and the persisted state. Used on
// logout and by the order-events consumer after checkout completes.
func (m *Manager) Drop(ctx context.Context, userID string) error {
	m.Evict(userID)
	if err := m.kv.Remove(ctx, stateKey(userID)); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return &PersistenceError{Err: err}
	}
	return nil
}
