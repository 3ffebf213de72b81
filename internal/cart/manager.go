package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopkit/cartkeeper/internal/domain"
	"github.com/shopkit/cartkeeper/internal/store"
	"golang.org/x/sync/singleflight"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Manager owns the persisted carts. Every operation reloads the cart from the
// store, applies the transform and writes the whole cart back, so the stored
// slot is always a full snapshot and the last writer wins.
type Manager struct {
	store store.Store
	sfg   singleflight.Group // collapses concurrent loads of the same cart

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(st store.Store) *Manager {
	return &Manager{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}

// lock returns the mutex guarding a cart's read-modify-write cycle, so this
// process never interleaves its own writes to the same slot.
func (m *Manager) lock(cartID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[cartID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[cartID] = l
	}
	return l
}

// Load reads the persisted cart. An absent or undecodable slot yields the
// empty cart.
func (m *Manager) Load(ctx context.Context, cartID string) (domain.Cart, error) {
	v, err, _ := m.sfg.Do(cartID, func() (interface{}, error) {
		return m.load(ctx, cartID)
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return v.(domain.Cart), nil
}

func (m *Manager) load(ctx context.Context, cartID string) (domain.Cart, error) {
	data, err := m.store.Get(ctx, cartKey(cartID))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart %q: %w", cartID, err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt slot reads as empty; the next write replaces it.
		return domain.Cart{}, nil
	}
	return domain.Cart{Items: items}, nil
}

// Save overwrites the cart's slot with a full snapshot. An empty cart is
// stored as an empty sequence, not deleted.
func (m *Manager) Save(ctx context.Context, cartID string, c domain.Cart) error {
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart %q: %w", cartID, err)
	}
	if err := m.store.Set(ctx, cartKey(cartID), data); err != nil {
		return fmt.Errorf("save cart %q: %w", cartID, err)
	}
	return nil
}

// AddOrIncrement adds one unit of the requested product and persists the
// result. Display fields of an already present entry are left untouched.
func (m *Manager) AddOrIncrement(ctx context.Context, cartID string, req domain.NewItemRequest) (domain.Cart, error) {
	l := m.lock(cartID)
	l.Lock()
	defer l.Unlock()

	c, err := m.load(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	c = c.AddOrIncrement(req)
	if err := m.Save(ctx, cartID, c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// SetQuantity sets an entry's quantity. Requests below 1 and unknown item IDs
// leave the stored cart unchanged.
func (m *Manager) SetQuantity(ctx context.Context, cartID, itemID string, quantity int) (domain.Cart, error) {
	l := m.lock(cartID)
	l.Lock()
	defer l.Unlock()

	c, err := m.load(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	c = c.SetQuantity(itemID, quantity)
	if err := m.Save(ctx, cartID, c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// Remove drops an entry. Unknown item IDs are a no-op, not an error.
func (m *Manager) Remove(ctx context.Context, cartID, itemID string) (domain.Cart, error) {
	l := m.lock(cartID)
	l.Lock()
	defer l.Unlock()

	c, err := m.load(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}
	c = c.Remove(itemID)
	if err := m.Save(ctx, cartID, c); err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// Clear persists the empty cart.
func (m *Manager) Clear(ctx context.Context, cartID string) (domain.Cart, error) {
	l := m.lock(cartID)
	l.Lock()
	defer l.Unlock()

	empty := domain.Cart{}
	if err := m.Save(ctx, cartID, empty); err != nil {
		return domain.Cart{}, err
	}
	return empty, nil
}

// Checkout summarizes a non-empty cart and clears it in one step. Checking
// out an empty cart returns ErrEmptyCart and leaves the slot untouched.
func (m *Manager) Checkout(ctx context.Context, cartID string) (domain.Summary, error) {
	l := m.lock(cartID)
	l.Lock()
	defer l.Unlock()

	c, err := m.load(ctx, cartID)
	if err != nil {
		return domain.Summary{}, err
	}
	if c.IsEmpty() {
		return domain.Summary{}, ErrEmptyCart
	}
	summary := c.Summarize()
	if err := m.Save(ctx, cartID, domain.Cart{}); err != nil {
		return domain.Summary{}, err
	}
	return summary, nil
}
