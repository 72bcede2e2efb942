// Command server runs the clinic administration front end.
//
//	@title			Vet Admin
//	@version		1.0
//	@description	Session API of the veterinary clinic administration front end.
//	@BasePath		/
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

	"github.com/salvaclients/vet-admin/internal/api"
	"github.com/salvaclients/vet-admin/internal/api/middleware"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/core/service"
	"github.com/salvaclients/vet-admin/internal/infrastructure/db/memory"
	mongostore "github.com/salvaclients/vet-admin/internal/infrastructure/db/mongo"
	redisstore "github.com/salvaclients/vet-admin/internal/infrastructure/db/redis"
	"github.com/salvaclients/vet-admin/internal/infrastructure/gateway"
	"github.com/salvaclients/vet-admin/internal/infrastructure/http/handlers"
	"github.com/salvaclients/vet-admin/internal/pkg/config"
	"github.com/salvaclients/vet-admin/internal/pkg/seal"
	"github.com/salvaclients/vet-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "vet-admin"})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("session store unavailable")
	}
	defer closeStore()

	checks := map[string]handlers.Pinger{}
	if p, ok := store.(handlers.Pinger); ok {
		checks["session_store"] = p
	}

	if cfg.Session.Secret != "" {
		sealer, err := seal.New(cfg.Session.Secret)
		if err != nil {
			log.Fatal().Err(err).Msg("session sealing")
		}
		store = seal.NewStore(store, sealer)
	}

	gw := gateway.New(cfg.Backend.URL, store, log)
	checks["backend"] = handlers.PingFunc(gw.Ping)

	e := api.NewRouter(api.Dependencies{
		Sessions: service.NewSessionService(store, gw, log.With().Str("component", "session").Logger()),
		Records:  service.NewRecordsService(gw, log.With().Str("component", "records").Logger()),
		Checks:   checks,
		Cookie: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     cfg.Session.TTL,
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore connects the configured session backend. The returned func
// releases its connection.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store connected")
		return redisstore.NewCredentialStore(client, cfg.Session.TTL), func() { _ = client.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewCredentialStore(db, cfg.Session.TTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo session store connected")
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		log.Warn().Msg("in-memory session store: sessions are lost on restart")
		return memory.NewCredentialStore(), func() {}, nil
	}
}
