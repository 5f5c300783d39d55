// Package cart is the client-side shopping cart: a pure reducer over line items
// plus a small container that holds the current state.
package cart

import "github.com/fanmerch/storefront/internal/core/domain"

// LineItem is one product in the cart. Quantity is always positive.
type LineItem struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// State is the whole cart. TotalCount and TotalPrice are derived from Items
// and recomputed by every action.
type State struct {
	Items      []LineItem `json:"items"`
	TotalCount int        `json:"totalCount"`
	TotalPrice int64      `json:"totalPrice"`
}

// Action is a cart command understood by Reduce.
type Action interface {
	apply(items []LineItem) []LineItem
}

// AddItem adds one unit of Product, appending a new line when absent.
type AddItem struct {
	Product domain.Product
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// RemoveItem drops a line. Absent ids are ignored.
type RemoveItem struct {
	ProductID string
}

// Clear empties the cart.
type Clear struct{}

// Reduce returns the state that results from applying a to s. It never
// mutates s.
func Reduce(s State, a Action) State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return withTotals(a.apply(items))
}

func (a AddItem) apply(items []LineItem) []LineItem {
	if i := indexOf(items, a.Product.ID); i >= 0 {
		items[i].Quantity++
		return items
	}
	return append(items, LineItem{Product: a.Product, Quantity: 1})
}

func (a UpdateQuantity) apply(items []LineItem) []LineItem {
	if a.Quantity <= 0 {
		return RemoveItem{ProductID: a.ProductID}.apply(items)
	}
	if i := indexOf(items, a.ProductID); i >= 0 {
		items[i].Quantity = a.Quantity
	}
	return items
}

func (a RemoveItem) apply(items []LineItem) []LineItem {
	i := indexOf(items, a.ProductID)
	if i < 0 {
		return items
	}
	return append(items[:i], items[i+1:]...)
}

func (Clear) apply([]LineItem) []LineItem {
	return nil
}

func withTotals(items []LineItem) State {
	s := State{Items: items}
	if s.Items == nil {
		s.Items = []LineItem{}
	}
	for _, it := range s.Items {
		s.TotalCount += it.Quantity
		s.TotalPrice += it.Product.Price * int64(it.Quantity)
	}
	return s
}

func indexOf(items []LineItem, productID string) int {
	for i, it := range items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}
