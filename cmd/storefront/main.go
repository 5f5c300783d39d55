// Command storefront is an interactive client for the storefront API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/client/api"
	"github.com/fanmerch/storefront/internal/client/cart"
	"github.com/fanmerch/storefront/internal/client/cli"
	"github.com/fanmerch/storefront/internal/client/config"
	"github.com/fanmerch/storefront/internal/client/localstore"
	"github.com/fanmerch/storefront/internal/client/notify"
	"github.com/fanmerch/storefront/internal/client/session"
	"github.com/fanmerch/storefront/internal/client/wishlist"
	"github.com/fanmerch/storefront/internal/core/service"
	"github.com/fanmerch/storefront/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		l := zerolog.New(os.Stderr)
		l.Error().Err(err).Msg("storefront")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "storefront-cli"})

	store, err := localstore.OpenSQLite(ctx, cfg.DataPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close local store")
		}
	}()

	client := api.New(cfg.APIURL, api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	if err := client.Health(ctx); err != nil {
		log.Warn().Err(err).Str("url", cfg.APIURL).Msg("API unreachable, continuing offline")
	}

	notices := &notify.Recorder{}
	n := notify.Multi{notices, notify.NewLogNotifier(logger.Component(log, "notify"))}
	sess := session.New(client, store, n, logger.Component(log, "session"))
	wl := wishlist.New(client, sess, n, logger.Component(log, "wishlist"))
	sess.OnChange(wl.OnAuthChange)

	app := cli.NewApp(cli.Deps{
		Session:    sess,
		Wishlist:   wl,
		Cart:       cart.New(),
		Newsletter: client,
		Store:      store,
		Catalog:    service.NewSyntheticCatalog(),
		Notices:    notices,
		Log:        log,
	}, os.Stdout)

	app.Start(ctx)
	fmt.Println("Fan merchandise storefront. Type help for commands.")
	app.Run(ctx, os.Stdin)
	return nil
}
