// Command api serves the storefront REST API.
//
//	@title						Storefront API
//	@version					1.0
//	@description				Accounts, wishlists and newsletter subscriptions for the fan merchandise storefront.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fanmerch/storefront/internal/api"
	"github.com/fanmerch/storefront/internal/api/handler"
	"github.com/fanmerch/storefront/internal/core/ports"
	"github.com/fanmerch/storefront/internal/core/service"
	"github.com/fanmerch/storefront/internal/infrastructure/db/memory"
	mongodb "github.com/fanmerch/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/fanmerch/storefront/internal/infrastructure/db/redis"
	"github.com/fanmerch/storefront/internal/infrastructure/lock"
	"github.com/fanmerch/storefront/internal/infrastructure/security"
	"github.com/fanmerch/storefront/internal/pkg/config"
	"github.com/fanmerch/storefront/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	lockPrefix      = "storefront:"
)

func main() {
	if err := run(); err != nil {
		l := zerolog.New(os.Stderr)
		l.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}

// storage is what the services need from a storage driver.
type storage struct {
	users         ports.UserRepository
	wishlists     ports.WishlistRepository
	subscriptions ports.SubscriptionRepository
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})
	log.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.StorageDriver).
		Str("lock", cfg.LockDriver).
		Msg("starting application")

	var (
		closers []func(context.Context) error
		checks  = map[string]handler.Check{}
		store   storage
		locker  ports.Locker
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				log.Error().Err(err).Msg("close error")
			}
		}
	}()

	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		closers = append(closers, client.Disconnect)
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		repos := mongodb.NewRepositories(db)
		if err := repos.EnsureIndexes(ctx); err != nil {
			return err
		}
		store = storage{users: repos.Users, wishlists: repos.Wishlists, subscriptions: repos.Subscriptions}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	default:
		store = storage{
			users:         memory.NewUserRepository(),
			wishlists:     memory.NewWishlistRepository(),
			subscriptions: memory.NewSubscriptionRepository(),
		}
		log.Warn().Msg("using in-memory storage; data is lost on restart")
	}

	switch cfg.LockDriver {
	case config.DriverRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		locker = lock.NewRedisLocker(rdb, lockPrefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	default:
		locker = lock.NewMemoryLocker()
	}

	authService := service.NewAuthService(
		store.users,
		security.NewBcryptHasher(cfg.BcryptCost),
		security.NewJWTSigner(cfg.JWTSecret, cfg.TokenTTL),
		locker,
		logger.Component(log, "auth"),
	)
	wishlistService := service.NewWishlistService(store.wishlists, service.NewSyntheticCatalog(), locker, logger.Component(log, "wishlist"))
	subscriptionService := service.NewSubscriptionService(store.subscriptions, store.users, locker, logger.Component(log, "subscriptions"))

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Wishlist:      wishlistService,
		Subscriptions: subscriptionService,
		AdminEmails:   cfg.AdminEmails,
		Checks:        checks,
		Logger:        logger.Component(log, "http"),
	})

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("application stopped")
	return nil
}
