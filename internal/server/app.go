// Package server initializes and runs the application: it loads
// configuration, wires the database, the authentication core, and the HTTP
// surface together, and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"authcore/internal/logging"
	"authcore/internal/server/auth"
	"authcore/internal/server/config"
	"authcore/internal/server/db"
	"authcore/internal/server/httpapi"
	"authcore/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	dbm    db.Manager
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// The signing key is the one piece of configuration the server refuses
	// to guess. Its value is never logged.
	if cfg.SigningKey == "" {
		return nil, errors.New("signing key is required (set -s or signing_key in the config file)")
	}

	lifetime, err := config.ParseLifetime(cfg.TokenLifetime)
	if err != nil {
		if !errors.Is(err, config.ErrUnknownLifetimeUnit) {
			return nil, fmt.Errorf("invalid token lifetime: %w", err)
		}
		logger.Warn(ctx, "unknown token lifetime unit, value interpreted as seconds",
			"lifetime", cfg.TokenLifetime, "effective", lifetime.String())
	}

	dbm, err := db.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	codec, err := auth.NewCodec(cfg.SigningKey, lifetime, logger)
	if err != nil {
		return nil, err
	}

	hasher := auth.NewHasher(cfg.HashCost, cfg.HashWorkers)
	resolver := auth.NewResolver(codec, dbm.Accounts(), cfg.LookupTimeout, logger)
	gate := httpapi.NewGate(resolver, logger)
	accountService := services.NewAccountService(dbm.Accounts(), hasher, codec, logger)
	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, gate, accountService, logger)

	return &App{config: cfg, logger: logger, dbm: dbm, server: httpServer}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.dbm.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
}
