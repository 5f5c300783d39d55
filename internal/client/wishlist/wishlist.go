// Package wishlist mirrors the signed-in user's wishlist on the client. The
// mirror changes only after the server confirms a mutation, and is refetched
// on every sign-in.
package wishlist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/client/api"
	"github.com/fanmerch/storefront/internal/client/notify"
	"github.com/fanmerch/storefront/internal/core/domain"
)

// WishlistAPI is the part of the REST client the mirror uses.
type WishlistAPI interface {
	Wishlist(ctx context.Context, token string) ([]domain.Product, error)
	AddToWishlist(ctx context.Context, token, productID string) (domain.Product, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) error
	MoveToCart(ctx context.Context, token, productID string) (domain.Product, error)
}

// Credentials exposes the current session token.
type Credentials interface {
	IsAuthenticated() bool
	Token() string
}

type Client struct {
	api    WishlistAPI
	creds  Credentials
	notify notify.Notifier
	log    zerolog.Logger

	mu       sync.RWMutex
	items    []domain.Product
	inflight map[string]struct{}

	busy atomic.Int32
}

func New(wishlistAPI WishlistAPI, creds Credentials, n notify.Notifier, log zerolog.Logger) *Client {
	return &Client{
		api:      wishlistAPI,
		creds:    creds,
		notify:   n,
		log:      log,
		inflight: make(map[string]struct{}),
	}
}

// OnAuthChange clears the mirror and, on sign-in, refetches it for the new
// identity. A failed refetch leaves the mirror empty. Its signature matches
// session.Listener.
func (c *Client) OnAuthChange(ctx context.Context, authenticated bool) {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	if !authenticated {
		return
	}

	defer c.track()()
	items, err := c.api.Wishlist(ctx, c.creds.Token())
	if err != nil {
		c.log.Warn().Err(err).Msg("fetch wishlist")
		return
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// Add saves product on the server and then in the mirror. It reports false
// without calling the server when nobody is signed in or a call for the same
// product is already running.
func (c *Client) Add(ctx context.Context, product domain.Product) bool {
	if !c.creds.IsAuthenticated() {
		c.notify.Failure("Please sign in to use your wishlist")
		return false
	}
	release, ok := c.claim(product.ID)
	if !ok {
		return false
	}
	defer release()

	defer c.track()()
	if _, err := c.api.AddToWishlist(ctx, c.creds.Token(), product.ID); err != nil {
		c.notify.Failure(api.Message(err))
		return false
	}

	c.mu.Lock()
	c.items = append(without(c.items, product.ID), product)
	c.mu.Unlock()

	c.notify.Success("Added to wishlist")
	return true
}

// Remove deletes productID on the server and then from the mirror.
func (c *Client) Remove(ctx context.Context, productID string) bool {
	if !c.creds.IsAuthenticated() {
		return false
	}
	release, ok := c.claim(productID)
	if !ok {
		return false
	}
	defer release()

	defer c.track()()
	if err := c.api.RemoveFromWishlist(ctx, c.creds.Token(), productID); err != nil {
		c.notify.Failure(api.Message(err))
		return false
	}

	c.drop(productID)
	c.notify.Success("Removed from wishlist")
	return true
}

// MoveToCart removes productID from the wishlist and returns the product so
// the caller can add it to its cart. The cart itself is never touched here.
func (c *Client) MoveToCart(ctx context.Context, productID string) (domain.Product, bool) {
	if !c.creds.IsAuthenticated() {
		return domain.Product{}, false
	}
	release, ok := c.claim(productID)
	if !ok {
		return domain.Product{}, false
	}
	defer release()

	defer c.track()()
	product, err := c.api.MoveToCart(ctx, c.creds.Token(), productID)
	if err != nil {
		c.notify.Failure(api.Message(err))
		return domain.Product{}, false
	}

	c.drop(productID)
	c.notify.Success("Moved to cart")
	return product, true
}

// Contains checks the mirror only. It can be stale with respect to changes
// made from another session.
func (c *Client) Contains(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the mirror in insertion order.
func (c *Client) Items() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Product{}, c.items...)
}

// Busy reports whether a call to the server is outstanding.
func (c *Client) Busy() bool {
	return c.busy.Load() > 0
}

func (c *Client) claim(productID string) (release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.inflight[productID]; taken {
		return nil, false
	}
	c.inflight[productID] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inflight, productID)
		c.mu.Unlock()
	}, true
}

func (c *Client) drop(productID string) {
	c.mu.Lock()
	c.items = without(c.items, productID)
	c.mu.Unlock()
}

func (c *Client) track() func() {
	c.busy.Add(1)
	return func() { c.busy.Add(-1) }
}

func without(items []domain.Product, productID string) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}
