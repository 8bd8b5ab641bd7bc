package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/unityscripts/script-library/internal/api"
	"github.com/unityscripts/script-library/internal/api/handler"
	"github.com/unityscripts/script-library/internal/api/middleware"
	"github.com/unityscripts/script-library/internal/core/ports"
	"github.com/unityscripts/script-library/internal/core/service"
	dbmemory "github.com/unityscripts/script-library/internal/infrastructure/db/memory"
	mongostore "github.com/unityscripts/script-library/internal/infrastructure/db/mongo"
	redisstore "github.com/unityscripts/script-library/internal/infrastructure/db/redis"
	sessionmemory "github.com/unityscripts/script-library/internal/infrastructure/session/memory"
	"github.com/unityscripts/script-library/internal/pkg/config"
)

type dataStore interface {
	ports.UserRepository
	ports.ScriptRepository
}

// mongoStore joins the two Mongo repositories into one Data Store.
type mongoStore struct {
	*mongostore.UserRepository
	*mongostore.ScriptRepository
}

// app is the wired process: the HTTP server plus the backends it must close.
type app struct {
	server   *http.Server
	store    dataStore
	sessions ports.SessionStore
	closers  []func(context.Context) error
}

// newApp connects the configured backends, seeds the admin and builds the
// router. A nil registry means the global Prometheus registry.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, registry *prometheus.Registry) (*app, error) {
	component := func(name string) zerolog.Logger {
		return log.With().Str("component", name).Logger()
	}

	a := &app{}
	readiness := make(map[string]handler.PingFunc)

	// --- Data Store ---
	switch cfg.StoreDriver {
	case config.DriverMongo:
		backend, err := mongostore.Open(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, backend.Close)
		if err := backend.EnsureIndexes(ctx); err != nil {
			_ = a.shutdown(ctx)
			return nil, err
		}
		a.store = mongoStore{
			UserRepository:   mongostore.NewUserRepository(backend.Database()),
			ScriptRepository: mongostore.NewScriptRepository(backend.Database()),
		}
		readiness["mongodb"] = backend.Ping
	default:
		a.store = dbmemory.NewStore()
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("data store ready")

	// --- Session Store ---
	switch cfg.Session.Driver {
	case config.DriverRedis:
		rdb, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = a.shutdown(ctx)
			return nil, err
		}
		redisSessions := redisstore.NewSessionStore(rdb)
		a.sessions = redisSessions
		readiness["redis"] = redisSessions.Ping
		a.closers = append(a.closers, func(context.Context) error { return redisSessions.Close() })
	default:
		mem := sessionmemory.NewStore()
		mem.StartPruner(ctx, cfg.Session.CheckPeriod, component("session-pruner"))
		a.sessions = mem
	}
	log.Info().Str("driver", cfg.Session.Driver).Dur("ttl", cfg.Session.TTL).Msg("session store ready")

	// --- Admin account ---
	adminHash := cfg.Admin.PasswordHash
	if adminHash == "" {
		hash, err := service.HashPassword(cfg.Admin.Password)
		if err != nil {
			_ = a.shutdown(ctx)
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		adminHash = hash
	}
	if _, err := service.SeedAdmin(ctx, a.store, cfg.Admin.Username, adminHash); err != nil {
		_ = a.shutdown(ctx)
		return nil, err
	}

	secret, err := sessionSecret(cfg, log)
	if err != nil {
		_ = a.shutdown(ctx)
		return nil, err
	}

	// --- Services & router ---
	deps := api.Dependencies{
		Auth: service.NewAuthService(a.store, a.sessions, service.AuthConfig{
			AdminUsername:     cfg.Admin.Username,
			AdminPasswordHash: adminHash,
			SessionTTL:        cfg.Session.TTL,
		}, component("auth")),
		Scripts: service.NewScriptService(a.store, component("scripts")),
		Cookie: middleware.NewSessionCookie(middleware.CookieConfig{
			Secret: secret,
			Secure: cfg.IsProduction(),
			MaxAge: cfg.Session.TTL,
		}),
		Readiness: readiness,
		Logger:    component("http"),
	}
	if registry != nil {
		deps.Registerer = registry
		deps.Gatherer = registry
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// shutdown stops the HTTP server, then closes the backends.
func (a *app) shutdown(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// sessionSecret returns the cookie signing key. Outside production an unset
// SESSION_SECRET gets a random key, so sessions do not survive a restart.
func sessionSecret(cfg *config.Config, log zerolog.Logger) ([]byte, error) {
	if cfg.Session.Secret != "" {
		return []byte(cfg.Session.Secret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	log.Warn().Msg("SESSION_SECRET not set, using a random per-process key")
	return secret, nil
}
