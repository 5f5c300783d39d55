// Package cli is the interactive storefront client: a read-eval-print loop
// over the session, wishlist and cart components.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/client/api"
	"github.com/fanmerch/storefront/internal/client/cart"
	"github.com/fanmerch/storefront/internal/client/localstore"
	"github.com/fanmerch/storefront/internal/client/notify"
	"github.com/fanmerch/storefront/internal/client/session"
	"github.com/fanmerch/storefront/internal/client/wishlist"
	"github.com/fanmerch/storefront/internal/core/domain"
	"github.com/fanmerch/storefront/internal/core/ports"
)

var errUsage = errors.New("usage")

// Newsletter is the part of the REST client used for subscriptions.
type Newsletter interface {
	Subscribe(ctx context.Context, token, email string, preferences map[string]bool) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, token string) error
}

// Deps are the components an App drives. They are built by the caller so
// tests can swap any of them.
type Deps struct {
	Session    *session.Session
	Wishlist   *wishlist.Client
	Cart       *cart.Cart
	Newsletter Newsletter
	Store      localstore.Store
	Catalog    ports.Catalog
	Notices    *notify.Recorder
	Log        zerolog.Logger
}

type App struct {
	Deps
	out io.Writer
}

func NewApp(d Deps, out io.Writer) *App {
	return &App{Deps: d, out: out}
}

// Start restores the cart snapshot and the stored session.
func (a *App) Start(ctx context.Context) {
	if raw, err := a.Store.Get(ctx, localstore.KeyCart); err != nil {
		a.Log.Warn().Err(err).Msg("read cart snapshot")
	} else if len(raw) > 0 {
		if err := a.Cart.Restore(raw); err != nil {
			a.Log.Warn().Err(err).Msg("discarding unreadable cart snapshot")
		}
	}
	a.Session.Init(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.Session.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.Session.User(); u != nil {
		return fmt.Sprintf("%s | cart %d", u.Email, a.Cart.State().TotalCount)
	}
	return fmt.Sprintf("guest | cart %d", a.Cart.State().TotalCount)
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format+"\n", args...)
}

// flushNotices prints what the components reported during the last command
// and returns how many notices there were.
func (a *App) flushNotices() int {
	if a.Notices == nil {
		return 0
	}
	msgs := a.Notices.Drain()
	for _, m := range msgs {
		if m.OK {
			a.printf("ok: %s", m.Text)
		} else {
			a.printf("error: %s", m.Text)
		}
	}
	return len(msgs)
}

func (a *App) Signup(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: signup <email> <password> <name>", errUsage)
	}
	if err := a.Session.Signup(ctx, args[0], args[1], strings.Join(args[2:], " ")); err != nil {
		return err
	}
	a.printf("Welcome, %s!", a.Session.User().Name)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: login <email> <password>", errUsage)
	}
	if err := a.Session.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	a.printf("Signed in as %s", a.Session.User().Email)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.Session.Logout(ctx)
	a.printf("Signed out")
	return nil
}

func (a *App) Me(_ context.Context, _ []string) error {
	u := a.Session.User()
	if u == nil {
		return session.ErrNotAuthenticated
	}
	a.printf("%s <%s>", u.Name, u.Email)
	if u.Phone != "" {
		a.printf("phone: %s", u.Phone)
	}
	if addr := formatAddress(u.Address); addr != "" {
		a.printf("address: %s", addr)
	}
	a.printf("newsletter: %t", u.IsSubscribed)
	return nil
}

// Profile takes key=value pairs: name, phone, street, city, state, zip, country.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: profile key=value... (name phone street city state zip country)", errUsage)
	}

	var update domain.ProfileUpdate
	var addr domain.AddressUpdate
	touchedAddr := false
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", errUsage, arg)
		}
		v := value
		switch key {
		case "name":
			update.Name = &v
		case "phone":
			update.Phone = &v
		case "street":
			addr.Street, touchedAddr = &v, true
		case "city":
			addr.City, touchedAddr = &v, true
		case "state":
			addr.State, touchedAddr = &v, true
		case "zip":
			addr.ZipCode, touchedAddr = &v, true
		case "country":
			addr.Country, touchedAddr = &v, true
		default:
			return fmt.Errorf("%w: unknown profile field %q", errUsage, key)
		}
	}
	if touchedAddr {
		update.Address = &addr
	}

	return a.Session.UpdateProfile(ctx, update)
}

func (a *App) ShowWishlist(_ context.Context, _ []string) error {
	if !a.isLoggedIn() {
		return session.ErrNotAuthenticated
	}
	items := a.Wishlist.Items()
	if len(items) == 0 {
		a.printf("Your wishlist is empty")
		return nil
	}
	for _, p := range items {
		a.printf("%-12s %-32s %6d  %s", p.ID, p.Name, p.Price, p.Brand)
	}
	return nil
}

func (a *App) Wish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: wish <product-id>", errUsage)
	}
	p, err := a.Catalog.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	a.Wishlist.Add(ctx, p)
	return nil
}

func (a *App) Unwish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: unwish <product-id>", errUsage)
	}
	if !a.isLoggedIn() {
		return session.ErrNotAuthenticated
	}
	a.Wishlist.Remove(ctx, args[0])
	return nil
}

func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: move <product-id>", errUsage)
	}
	if !a.isLoggedIn() {
		return session.ErrNotAuthenticated
	}
	p, ok := a.Wishlist.MoveToCart(ctx, args[0])
	if !ok {
		return nil
	}
	return a.dispatch(ctx, cart.AddItem{Product: p})
}

func (a *App) ShowCart(_ context.Context, _ []string) error {
	s := a.Cart.State()
	if len(s.Items) == 0 {
		a.printf("Your cart is empty")
		return nil
	}
	for _, it := range s.Items {
		a.printf("%-12s %-32s %3d x %6d", it.Product.ID, it.Product.Name, it.Quantity, it.Product.Price)
	}
	a.printf("%d item(s), total %d", s.TotalCount, s.TotalPrice)
	return nil
}

// AddToCart adds one unit. The price defaults to the catalog's.
func (a *App) AddToCart(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: add <product-id> [price]", errUsage)
	}
	p, err := a.Catalog.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		price, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || price < 0 {
			return fmt.Errorf("%w: price must be a whole non-negative number", errUsage)
		}
		p.Price = price
	}
	return a.dispatch(ctx, cart.AddItem{Product: p})
}

func (a *App) Quantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: qty <product-id> <n>", errUsage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: quantity must be a number", errUsage)
	}
	return a.dispatch(ctx, cart.UpdateQuantity{ProductID: args[0], Quantity: n})
}

func (a *App) RemoveFromCart(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: rm <product-id>", errUsage)
	}
	return a.dispatch(ctx, cart.RemoveItem{ProductID: args[0]})
}

func (a *App) ClearCart(ctx context.Context, _ []string) error {
	return a.dispatch(ctx, cart.Clear{})
}

func (a *App) Subscribe(ctx context.Context, args []string) error {
	token := a.Session.Token()
	if token == "" {
		return session.ErrNotAuthenticated
	}
	var email string
	if len(args) > 0 {
		email = args[0]
	}

	sub, err := a.Newsletter.Subscribe(ctx, token, email, nil)
	if err != nil {
		return err
	}
	if err := a.Session.Refresh(ctx); err != nil {
		a.Log.Debug().Err(err).Msg("refresh profile")
	}
	a.printf("Subscribed %s to the newsletter", sub.Email)
	return nil
}

func (a *App) Unsubscribe(ctx context.Context, _ []string) error {
	token := a.Session.Token()
	if token == "" {
		return session.ErrNotAuthenticated
	}
	if err := a.Newsletter.Unsubscribe(ctx, token); err != nil {
		return err
	}
	if err := a.Session.Refresh(ctx); err != nil {
		a.Log.Debug().Err(err).Msg("refresh profile")
	}
	a.printf("Unsubscribed from the newsletter")
	return nil
}

// dispatch applies a cart action and persists the result.
func (a *App) dispatch(ctx context.Context, action cart.Action) error {
	s := a.Cart.Dispatch(action)
	snapshot, err := a.Cart.Snapshot()
	if err != nil {
		return err
	}
	if err := a.Store.Set(ctx, localstore.KeyCart, snapshot); err != nil {
		a.Log.Warn().Err(err).Msg("save cart snapshot")
	}
	a.printf("Cart: %d item(s), total %d", s.TotalCount, s.TotalPrice)
	return nil
}

// report prints a command error unless a notice already described it.
func (a *App) report(err error, noticed bool) {
	if err == nil {
		return
	}
	var de *domain.Error
	switch {
	case errors.Is(err, errUsage):
		a.printf("%s", err)
	case noticed:
	case errors.As(err, &de):
		a.printf("error: %s", de.Message)
	default:
		a.printf("error: %s", api.Message(err))
		a.Log.Debug().Err(err).Msg("command failed")
	}
}

func formatAddress(addr domain.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
