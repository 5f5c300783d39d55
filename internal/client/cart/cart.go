package cart

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Cart holds one State and applies actions to it through Reduce.
type Cart struct {
	mu    sync.RWMutex
	state State
}

func New() *Cart {
	return &Cart{state: withTotals(nil)}
}

// Dispatch applies a and returns the new state.
func (c *Cart) Dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// State returns the current state.
func (c *Cart) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Contains reports whether the cart has a line for productID.
func (c *Cart) Contains(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexOf(c.state.Items, productID) >= 0
}

// Snapshot encodes the line items for local persistence.
func (c *Cart) Snapshot() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c.state.Items)
}

// Restore replaces the state with a snapshot. Totals are recomputed and
// lines with a non-positive quantity are dropped.
func (c *Cart) Restore(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("cart: decode snapshot: %w", err)
	}

	kept := items[:0]
	for _, it := range items {
		if it.Quantity > 0 && indexOf(kept, it.Product.ID) < 0 {
			kept = append(kept, it)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = withTotals(kept)
	return nil
}
