package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	server "github.com/fanmerch/storefront/internal/api"
	"github.com/fanmerch/storefront/internal/client/api"
	"github.com/fanmerch/storefront/internal/client/cart"
	"github.com/fanmerch/storefront/internal/client/localstore"
	"github.com/fanmerch/storefront/internal/client/notify"
	"github.com/fanmerch/storefront/internal/client/session"
	"github.com/fanmerch/storefront/internal/client/wishlist"
	"github.com/fanmerch/storefront/internal/core/service"
	"github.com/fanmerch/storefront/internal/infrastructure/db/memory"
	"github.com/fanmerch/storefront/internal/infrastructure/lock"
	"github.com/fanmerch/storefront/internal/infrastructure/security"
)

func newAPI(t *testing.T) *api.Client {
	t.Helper()

	users := memory.NewUserRepository()
	locker := lock.NewMemoryLocker()
	log := zerolog.Nop()

	e := server.NewRouter(server.Dependencies{
		Auth:          service.NewAuthService(users, security.NewBcryptHasher(4), security.NewJWTSigner("cli-test", time.Hour), locker, log),
		Wishlist:      service.NewWishlistService(memory.NewWishlistRepository(), service.NewSyntheticCatalog(), locker, log),
		Subscriptions: service.NewSubscriptionService(memory.NewSubscriptionRepository(), users, locker, log),
		Logger:        log,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return api.New(srv.URL, api.WithHTTPClient(srv.Client()))
}

func newApp(c *api.Client, store localstore.Store, out *bytes.Buffer) *App {
	rec := &notify.Recorder{}
	log := zerolog.Nop()
	sess := session.New(c, store, rec, log)
	wl := wishlist.New(c, sess, rec, log)
	sess.OnChange(wl.OnAuthChange)

	return NewApp(Deps{
		Session:    sess,
		Wishlist:   wl,
		Cart:       cart.New(),
		Newsletter: c,
		Store:      store,
		Catalog:    service.NewSyntheticCatalog(),
		Notices:    rec,
		Log:        log,
	}, out)
}

func run(t *testing.T, a *App, lines ...string) string {
	t.Helper()
	out := a.out.(*bytes.Buffer)
	out.Reset()
	a.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"))
	return out.String()
}

func TestREPL_GuestCart(t *testing.T) {
	store := localstore.NewMemoryStore()
	a := newApp(newAPI(t), store, &bytes.Buffer{})

	out := run(t, a,
		"wish p1",
		"add p1 1000",
		"add p1",
		"add p2 250",
		"qty p2 3",
		"cart",
	)
	require.Contains(t, out, "error: Please sign in to use your wishlist")
	require.Contains(t, out, "5 item(s), total 2750")
	require.True(t, a.Cart.Contains("p1"))

	snapshot, err := store.Get(context.Background(), localstore.KeyCart)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot)

	restored := newApp(newAPI(t), store, &bytes.Buffer{})
	restored.Start(context.Background())
	require.Equal(t, a.Cart.State(), restored.Cart.State())

	out = run(t, a, "rm p1", "clear", "cart")
	require.Contains(t, out, "Cart: 3 item(s), total 750")
	require.Contains(t, out, "Your cart is empty")
}

func TestREPL_WishlistToCart(t *testing.T) {
	a := newApp(newAPI(t), localstore.NewMemoryStore(), &bytes.Buffer{})

	out := run(t, a,
		"signup ann@x.com secret Ann Lee",
		"wish p7",
		"wish p7",
		"wishlist",
		"move p7",
		"wishlist",
		"cart",
	)
	require.Contains(t, out, "Welcome, Ann Lee!")
	require.Contains(t, out, "ok: Added to wishlist")
	require.Contains(t, out, "error: product already in wishlist")
	require.Contains(t, out, "ok: Moved to cart")
	require.Contains(t, out, "Your wishlist is empty")
	require.Contains(t, out, "Product p7")
	require.True(t, a.Cart.Contains("p7"))
	require.False(t, a.Wishlist.Contains("p7"))
}

func TestREPL_SessionSurvivesRestart(t *testing.T) {
	c := newAPI(t)
	store := localstore.NewMemoryStore()

	first := newApp(c, store, &bytes.Buffer{})
	run(t, first, "signup bea@x.com pw Bea", "wish p3")

	second := newApp(c, store, &bytes.Buffer{})
	second.Start(context.Background())
	require.True(t, second.Session.IsAuthenticated())
	require.True(t, second.Wishlist.Contains("p3"))

	out := run(t, second, "logout", "wishlist", "me")
	require.Contains(t, out, "Signed out")
	require.Contains(t, out, "error: please sign in first")
	require.False(t, second.Wishlist.Contains("p3"))
}

func TestREPL_ProfileAndNewsletter(t *testing.T) {
	a := newApp(newAPI(t), localstore.NewMemoryStore(), &bytes.Buffer{})

	out := run(t, a,
		"login nobody@x.com pw",
		"signup cat@x.com pw Cat",
		"profile phone=555-0100 city=Lima country=PE",
		"profile email=x@y.com",
		"subscribe",
		"me",
		"unsubscribe",
		"me",
	)
	require.Contains(t, out, "error: invalid credentials")
	require.Contains(t, out, "ok: Profile updated")
	require.Contains(t, out, `usage: unknown profile field "email"`)
	require.Contains(t, out, "Subscribed cat@x.com to the newsletter")
	require.Contains(t, out, "phone: 555-0100")
	require.Contains(t, out, "address: Lima, PE")
	require.Contains(t, out, "newsletter: true")
	require.Contains(t, out, "newsletter: false")
	require.Equal(t, "cat@x.com", a.Session.User().Email)
}

func TestREPL_Dispatch(t *testing.T) {
	a := newApp(newAPI(t), localstore.NewMemoryStore(), &bytes.Buffer{})

	out := run(t, a, "", "bogus", "help", "qty p1", "add p1 -5", "exit", "cart")
	require.Contains(t, out, "Unknown command: bogus")
	require.Contains(t, out, "Account:")
	require.Contains(t, out, "usage: qty <product-id> <n>")
	require.Contains(t, out, "usage: price must be a whole non-negative number")
	require.Contains(t, out, "Bye!")
	require.NotContains(t, out, "Your cart is empty", "nothing runs after exit")
	require.Contains(t, out, "storefront [guest | cart 0]> ")
}

func TestREPL_StopsWhenContextDone(t *testing.T) {
	a := newApp(newAPI(t), localstore.NewMemoryStore(), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a.Run(ctx, strings.NewReader("cart\n"))
	require.Empty(t, a.out.(*bytes.Buffer).String())
}
