// @title                       Auth Backend API
// @version                     1.0
// @description                 User registration, login and profile maintenance with short-lived JWT bearer tokens.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/authlab/auth-backend/internal/api"
	"github.com/authlab/auth-backend/internal/core/ports"
	"github.com/authlab/auth-backend/internal/core/service"
	"github.com/authlab/auth-backend/internal/infrastructure/db/mongo"
	"github.com/authlab/auth-backend/internal/infrastructure/db/postgres"
	"github.com/authlab/auth-backend/internal/infrastructure/security"
	"github.com/authlab/auth-backend/internal/pkg/config"
	"github.com/authlab/auth-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// JWT_SECRET is mandatory; refuse to start without it.
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-backend",
	})

	if err := run(ctx, cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	repo, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens := security.NewJWTIssuer(cfg.JWTSecret)
	authService := service.NewAuthService(repo, hasher, tokens, log)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Tokens:      tokens,
		Store:       repo,
		StoreDriver: cfg.Store.Driver,
		Logger:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store.Driver).
			Int("bcrypt_cost", hasher.Cost()).
			Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), api.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the configured credential store and returns it with its closer.
func openStore(ctx context.Context, cfg config.StoreConfig) (ports.UserRepository, func(context.Context) error, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		store, err := mongo.Open(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return nil, nil, err
		}
		return store.Users, store.Close, nil
	default:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.DatabaseURL, MaxOpenConns: cfg.MaxOpenConns})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), func(context.Context) error { return db.Close() }, nil
	}
}
