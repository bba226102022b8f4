package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	adminhandler "eventreg/internal/admin/handler"
	adminservice "eventreg/internal/admin/service"
	httpapi "eventreg/internal/http"
	jwttoken "eventreg/internal/jwt_token"
	"eventreg/internal/platform/config"
	"eventreg/internal/platform/database"
	platformmetrics "eventreg/internal/platform/metrics"
	"eventreg/internal/platform/migrations"
	platformredis "eventreg/internal/platform/redis"
	reghandler "eventreg/internal/registration/handler"
	regmetrics "eventreg/internal/registration/metrics"
	regservice "eventreg/internal/registration/service"
	"eventreg/internal/registration/store"
	"eventreg/internal/session/adapters"
	sessionhandler "eventreg/internal/session/handler"
	sessionservice "eventreg/internal/session/service"
	"eventreg/internal/session/store/revocation"
	authmw "eventreg/pkg/platform/middleware/auth"
)

// recordStore is everything the services and health check need from a store.
type recordStore interface {
	regservice.Store
	adminservice.Store
	Ping(ctx context.Context) error
}

// app is the wired HTTP surface plus the resources it holds open.
type app struct {
	router  http.Handler
	closers []func() error
}

// newApp wires stores, services and handlers from cfg. Metrics register on reg
// and /metrics serves gatherer.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{}

	records, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	healthChecks := map[string]httpapi.HealthCheck{"store": records.Ping}

	var trl sessionservice.RevocationList
	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if rc != nil {
		a.closers = append(a.closers, rc.Close)
		trl = revocation.NewRedisTRL(rc.Client)
		healthChecks["redis"] = rc.Health
	} else {
		log.InfoContext(ctx, "redis.url not set; token revocation is kept in memory")
		trl = revocation.NewInMemoryTRL()
	}

	router, err := buildRouter(cfg, log, reg, gatherer, records, trl, healthChecks)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.router = router
	return a, nil
}

func buildRouter(
	cfg *config.Config,
	log *slog.Logger,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
	records recordStore,
	trl sessionservice.RevocationList,
	healthChecks map[string]httpapi.HealthCheck,
) (http.Handler, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	registration, err := regservice.New(records,
		regservice.WithLogger(log),
		regservice.WithMetrics(regmetrics.New(reg)),
	)
	if err != nil {
		return nil, err
	}
	admin, err := adminservice.New(records,
		adminservice.WithLogger(log),
		adminservice.WithLocation(loc),
		adminservice.WithTicketSize(cfg.App.TicketSize),
	)
	if err != nil {
		return nil, err
	}
	sessions, err := sessionservice.New(
		sessionservice.Credentials{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		jwttoken.NewJWTService(cfg.Session.SigningKey, cfg.Session.Issuer, cfg.Session.Audience),
		trl,
		sessionservice.WithLogger(log),
		sessionservice.WithSessionTTL(cfg.Session.TTL),
	)
	if err != nil {
		return nil, err
	}

	requireSession := authmw.RequireSession(adapters.NewAuthorizer(sessions), log)
	return httpapi.NewRouter(httpapi.RouterConfig{
		Logger:         log,
		Metrics:        platformmetrics.New(reg),
		Gatherer:       gatherer,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   healthChecks,
		Handlers: []httpapi.Registrar{
			reghandler.New(registration, log),
			sessionhandler.New(sessions, requireSession, log),
			adminhandler.New(admin, requireSession, log),
		},
	}), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// openStore returns the configured record store and a close func. SQL stores
// are migrated first when database.migrate_on_start is set.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (recordStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.WarnContext(ctx, "using in-memory record store; registrations are lost on restart")
		return store.NewInMemory(), noop, nil

	case config.DriverPostgres:
		if cfg.Database.MigrateOnStart {
			if err := migrations.Up(migrations.DriverPostgres, cfg.Database.URL); err != nil {
				return nil, nil, err
			}
		}
		db, err := database.OpenPostgres(ctx, cfg.Database.URL, database.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(db), db.Close, nil

	case config.DriverSQLite:
		if cfg.Database.MigrateOnStart {
			if err := migrations.Up(migrations.DriverSQLite, cfg.Database.URL); err != nil {
				return nil, nil, err
			}
		}
		db, err := database.OpenSQLite(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewSQLite(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// migrationDriver maps the configured database driver onto a migrations driver.
func migrationDriver(cfg *config.Config) (string, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return migrations.DriverPostgres, nil
	case config.DriverSQLite:
		return migrations.DriverSQLite, nil
	}
	return "", errors.New("migrations need database.driver postgres or sqlite")
}
