package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nexus-commerce/storefront/internal/kv"
)

const keyPrefix = "cart_state_"

func stateKey(userID string) string {
	return keyPrefix + userID
}

// LineItem is one product entry in the cart. Name, price and image are
// snapshotted from the catalog at add-time and never re-fetched.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

// Store holds the authoritative, ordered line items for one user. Items are
// unique by product id; adding an existing product aggregates its quantity.
// Every mutation is written through to the key-value store before returning,
// so reads within the process never observe stale persisted state.
type Store struct {
	userID string
	kv     kv.Store

	mu    sync.Mutex
	items []LineItem
}

// Open hydrates a Store from persisted state. A missing key yields an empty
// cart; corrupt persisted state is an error.
func Open(ctx context.Context, store kv.Store, userID string) (*Store, error) {
	s := &Store{userID: userID, kv: store}

	raw, err := store.Get(ctx, stateKey(userID))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart state: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
		return nil, fmt.Errorf("unmarshal cart state failed: %w", err)
	}
	return s, nil
}

func (s *Store) UserID() string {
	return s.userID
}

// AddItem appends a new line item, or aggregates quantity onto the existing
// entry when the product is already present.
func (s *Store) AddItem(ctx context.Context, productID, name string, unitPrice float64, quantity int, imageRef string) error {
	if unitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidArgument)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity += quantity
			return s.persist(ctx)
		}
	}

	s.items = append(s.items, LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		ImageRef:  imageRef,
	})
	return s.persist(ctx)
}

// RemoveItem deletes the matching item. Removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

// SetQuantity replaces the quantity of an existing item. A quantity of zero
// or less removes the item instead; an item is never kept at quantity zero.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, productID)
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return s.persist(ctx)
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}

// Items returns a snapshot of the current line items. Mutating the returned
// slice does not affect store state.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *Store) removeLocked(ctx context.Context, productID string) error {
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if err := s.kv.Set(ctx, stateKey(s.userID), string(data)); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
