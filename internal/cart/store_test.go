package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartmedishop-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryPersister struct {
	mu      sync.Mutex
	items   []model.CartItem
	saves   int
	erased  bool
	saveErr error
}

func (p *memoryPersister) Load(context.Context) ([]model.CartItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items, nil
}

func (p *memoryPersister) Save(_ context.Context, items []model.CartItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.items = items
	p.erased = false
	return nil
}

func (p *memoryPersister) Erase(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.erased = true
	return nil
}

func newTestStore(p Persister) *Store {
	return NewStore(p, zap.NewNop(), WithClock(func() time.Time { return today }))
}

func TestStore_AddItemPersists(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(p)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, product(1, 10, 15.50), 2))

	assert.Equal(t, 1, p.saves)
	require.Len(t, p.items, 1)
	assert.Equal(t, 2, p.items[0].Quantity)
	assert.InDelta(t, 31.0, s.Total(), 1e-9)
	assert.Equal(t, 2, s.ItemCount())
}

func TestStore_FailedMutationDoesNotPersist(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(p)

	err := s.AddItem(context.Background(), product(1, 1, 1), 2)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Zero(t, p.saves)
	assert.Empty(t, s.Items())
}

func TestStore_ClearYieldsEmptyState(t *testing.T) {
	p := &memoryPersister{}
	s := newTestStore(p)
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, product(1, 10, 5), 3))
	require.NoError(t, s.AddItem(ctx, product(2, 10, 7), 1))

	s.Clear(ctx)

	assert.Empty(t, s.Items())
	assert.Zero(t, s.Total())
	assert.Zero(t, s.ItemCount())
	assert.True(t, p.erased)
}

func TestStore_SaveFailureKeepsMutation(t *testing.T) {
	p := &memoryPersister{saveErr: errors.New("redis down")}
	s := newTestStore(p)

	require.NoError(t, s.AddItem(context.Background(), product(1, 10, 5), 1))
	assert.Equal(t, 1, s.ItemCount())
}

func TestStore_RestoreLoadsPersistedCart(t *testing.T) {
	p := &memoryPersister{items: []model.CartItem{{Product: product(4, 9, 2), Quantity: 3}}}
	s := newTestStore(p)

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, 3, s.ItemCount())
}

func TestStore_ListenersSeeEveryMutation(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	var counts []int
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		counts = append(counts, snap.ItemCount)
	})

	require.NoError(t, s.AddItem(ctx, product(1, 10, 1), 2))
	require.NoError(t, s.UpdateQuantity(ctx, 1, 5))
	s.RemoveItem(ctx, 1)
	unsubscribe()
	require.NoError(t, s.AddItem(ctx, product(1, 10, 1), 1))

	assert.Equal(t, []int{2, 5, 0}, counts)
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := newTestStore(nil)
	require.NoError(t, s.AddItem(context.Background(), product(1, 10, 1), 2))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.ItemCount())
}
