// Package cart holds a shopper's in-progress selection.
//
// State transitions live on Lines and are pure. Store wraps them with a mutex,
// a save-after-mutate Persister and change listeners.
package cart

import (
	"context"
	"sync"
	"time"

	"smartmedishop-storefront/internal/model"

	"go.uber.org/zap"
)

// Persister stores the serialized cart of one session.
type Persister interface {
	Load(ctx context.Context) ([]model.CartItem, error)
	Save(ctx context.Context, items []model.CartItem) error
	Erase(ctx context.Context) error
}

// Snapshot is published to listeners after every mutation.
type Snapshot struct {
	Items     []model.CartItem
	Total     float64
	ItemCount int
}

// Listener is notified with the new cart state.
type Listener func(Snapshot)

// Store is the cart of one session.
type Store struct {
	mu        sync.RWMutex
	lines     Lines
	persister Persister
	logger    *zap.Logger
	now       func() time.Time

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for expiration checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty cart. A nil persister keeps the cart in memory only.
func NewStore(persister Persister, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		persister: persister,
		logger:    logger.Named("cart"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted cart, replacing the in-memory lines.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	items, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lines = Lines(items)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return nil
}

// AddItem adds quantity units of product, merging with an existing line.
func (s *Store) AddItem(ctx context.Context, product model.Product, quantity int) error {
	return s.mutate(ctx, func(l Lines) (Lines, error) {
		return l.Add(product, quantity, s.now())
	})
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, func(l Lines) (Lines, error) {
		return l.Update(productID, quantity)
	})
}

// RemoveItem removes the line for productID. Absent lines are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	_ = s.mutate(ctx, func(l Lines) (Lines, error) {
		return l.Remove(productID), nil
	})
}

// Refresh replaces product snapshots with authoritative copies and persists.
func (s *Store) Refresh(ctx context.Context, products map[int64]model.Product) {
	_ = s.mutate(ctx, func(l Lines) (Lines, error) {
		return l.Refresh(products), nil
	})
}

// Clear empties the cart and erases its persisted state.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Erase(ctx); err != nil {
			s.logger.Warn("failed to erase persisted cart", zap.Error(err))
		}
	}
	s.publish(snap)
}

// Items returns a copy of the cart lines.
func (s *Store) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return []model.CartItem(s.lines.clone())
}

// Total returns the sum of price × quantity.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Total()
}

// ItemCount returns the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Count()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Store) mutate(ctx context.Context, fn func(Lines) (Lines, error)) error {
	s.mu.Lock()
	next, err := fn(s.lines)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lines = next
	items := []model.CartItem(next.clone())
	snap := s.snapshotLocked()
	s.mu.Unlock()

	// Persistence failures do not undo the mutation: the in-memory cart stays
	// authoritative for this process and the next save overwrites the key.
	if s.persister != nil {
		if err := s.persister.Save(ctx, items); err != nil {
			s.logger.Warn("failed to persist cart", zap.Error(err))
		}
	}
	s.publish(snap)
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:     []model.CartItem(s.lines.clone()),
		Total:     s.lines.Total(),
		ItemCount: s.lines.Count(),
	}
}

func (s *Store) publish(snap Snapshot) {
	s.listenerMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenerMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
