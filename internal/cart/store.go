package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/Arsh369/thekitabart/internal/domain"
	"github.com/Arsh369/thekitabart/internal/storage"
)

// StorageKey is where the cart lives in the key-value store. The value is
// a plain JSON array of cart items, so older sessions stay readable.
const StorageKey = "cartItems"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Store owns the authoritative cart. It is the single writer: every other
// component only ever sees snapshots. Each mutation persists the cart
// write-through and notifies subscribers afterwards.
type Store struct {
	m         sync.RWMutex
	items     domain.Cart
	kv        storage.KeyValueStore
	key       string
	listeners []func()
}

func NewStore(kv storage.KeyValueStore) *Store {
	return &Store{kv: kv, key: StorageKey}
}

// Load restores the cart from storage. A missing key or malformed payload
// yields an empty cart; neither is a failure.
func (s *Store) Load(ctx context.Context) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("cart load failed, starting empty: %v", err)
		return
	}

	var items domain.Cart
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("stored cart is malformed, starting empty: %v", err)
		return
	}

	s.m.Lock()
	s.items = items
	s.m.Unlock()
	s.notify()
}

// AddItem merges the book into the cart: an existing row gets its quantity
// incremented, otherwise a new row is appended in insertion order.
func (s *Store) AddItem(ctx context.Context, book domain.Book, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.m.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ID == book.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, domain.CartItem{
			ID:       book.ID,
			Title:    book.Title,
			Author:   book.Author,
			Price:    book.Price,
			Image:    book.Image,
			Category: book.Category,
			Quantity: quantity,
		})
	}
	data := s.marshalLocked()
	s.m.Unlock()

	s.persist(ctx, data)
	s.notify()
	return nil
}

// AdjustQuantity applies an increment or decrement to the item's quantity.
// Decrementing never goes below 1; removal is always explicit. Unknown ids
// are a no-op.
func (s *Store) AdjustQuantity(ctx context.Context, id string, delta int) {
	s.m.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		next := s.items[i].Quantity + delta
		if next < 1 {
			break
		}
		s.items[i].Quantity = next
		changed = true
		break
	}
	var data []byte
	if changed {
		data = s.marshalLocked()
	}
	s.m.Unlock()

	if !changed {
		return
	}
	s.persist(ctx, data)
	s.notify()
}

// RemoveItem deletes the row unconditionally, whatever its quantity.
// Unknown ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.m.Lock()
	removed := false
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	var data []byte
	if removed {
		data = s.marshalLocked()
	}
	s.m.Unlock()

	if !removed {
		return
	}
	s.persist(ctx, data)
	s.notify()
}

// Clear empties the cart. Called after a confirmed order, never before.
func (s *Store) Clear(ctx context.Context) {
	s.m.Lock()
	s.items = domain.Cart{}
	data := s.marshalLocked()
	s.m.Unlock()

	s.persist(ctx, data)
	s.notify()
}

// Snapshot returns a copy of the cart for read-only consumers. Callers
// must never mutate the returned value.
func (s *Store) Snapshot() domain.Cart {
	s.m.RLock()
	defer s.m.RUnlock()
	if len(s.items) == 0 {
		return nil
	}
	cp := make(domain.Cart, len(s.items))
	copy(cp, s.items)
	return cp
}

func (s *Store) Len() int {
	s.m.RLock()
	defer s.m.RUnlock()
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Subscribe registers a listener invoked after every applied mutation.
// Listeners run on the mutating goroutine and must not block.
func (s *Store) Subscribe(fn func()) {
	s.m.Lock()
	defer s.m.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) marshalLocked() []byte {
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("marshal cart failed: %v", err)
		return nil
	}
	return data
}

// persist is write-through: a storage fault downgrades the session to
// in-memory-only but never fails the mutation that triggered it.
func (s *Store) persist(ctx context.Context, data []byte) {
	if data == nil {
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		log.Printf("cart persist failed, continuing in-memory: %v", err)
	}
}

func (s *Store) notify() {
	s.m.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.m.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
