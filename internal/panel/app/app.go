// Package app wires the panel together and exposes it as the `panel`
// command line.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/service"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/session"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage"
	"github.com/bedirhantong/renart-vendor-panel/internal/panel/storage/drivers/sqlite"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/time/rate"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the panel's explicit context objects and the services
// built on them.
type Application struct {
	cfg    Config
	logger *slog.Logger

	kv       storage.KV
	registry *prometheus.Registry
	client   *panelsdk.Client

	Session     *session.Store
	Preferences *session.Preferences
	Guard       *service.Guard

	Auth      *service.AuthService
	Profile   *service.ProfileService
	Dashboard *service.DashboardService
	Products  *service.ProductService
}

// New opens storage, rehydrates the session and preferences and builds the
// services. nav receives redirects; logs go to logOut.
func New(ctx context.Context, cfg Config, nav service.Navigator, logOut io.Writer) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "renart-panel",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  logOut,
		}),
		registry: prometheus.NewRegistry(),
	}
	ctx = slogx.WithContext(ctx, app.logger)

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	app.Session = session.NewStore(app.kv)
	app.Preferences = session.NewPreferences(app.kv)
	if err := app.Session.Load(ctx); err != nil {
		_ = app.kv.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := app.Preferences.Load(ctx); err != nil {
		_ = app.kv.Close()
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	app.initClient()
	app.initServices(nav)
	return app, nil
}

func (app *Application) initStorage() error {
	if app.cfg.DatabaseFile != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(app.cfg.DatabaseFile), 0o700); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}
	app.kv = db

	if app.cfg.StorageKey != "" {
		sealed, err := storage.NewSealed(db, app.cfg.StorageKey)
		if err != nil {
			_ = db.Close()
			return err
		}
		app.kv = sealed
	}

	app.logger.Debug("storage ready", "file", app.cfg.DatabaseFile, "sealed", app.cfg.StorageKey != "")
	return nil
}

func (app *Application) initClient() {
	c := panelsdk.NewClient(app.cfg.APIURL)
	c.HTTPClient = &http.Client{
		Timeout:   app.cfg.HTTPTimeout,
		Transport: slogx.NewTransport(nil, app.logger),
	}
	c.Tokens = app.Session
	c.Limiter = rate.NewLimiter(rate.Limit(app.cfg.APIRPS), app.cfg.APIBurst)
	c.Metrics = panelsdk.NewMetrics(app.registry)
	app.client = c
}

func (app *Application) initServices(nav service.Navigator) {
	app.Guard = &service.Guard{Session: app.Session, Navigate: nav}
	app.Auth = &service.AuthService{API: app.client, Session: app.Session, Guard: app.Guard}
	app.Profile = &service.ProfileService{API: app.client, Session: app.Session, Guard: app.Guard}
	app.Dashboard = &service.DashboardService{API: app.client, Guard: app.Guard}
	app.Products = &service.ProductService{API: app.client, Guard: app.Guard}
}

// Context returns ctx carrying the application logger.
func (app *Application) Context(ctx context.Context) context.Context {
	return slogx.WithContext(ctx, app.logger)
}

func (app *Application) Logger() *slog.Logger { return app.logger }

func (app *Application) Config() Config { return app.cfg }

// Watcher builds a session watcher using the configured interval.
func (app *Application) Watcher() *service.SessionWatcher {
	return service.NewSessionWatcher(app.Auth, app.logger, app.cfg.WatchInterval)
}

// WriteMetrics dumps the client metrics in Prometheus text format.
func (app *Application) WriteMetrics(w io.Writer) error {
	families, err := app.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Close releases storage.
func (app *Application) Close() error {
	if err := app.kv.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}
