// Package vendorapi is an in-memory implementation of the RENART vendor
// backend. It serves the same routes and envelopes as the real service and
// backs the panel's integration and end-to-end tests.
package vendorapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/cryptox"
	"github.com/bedirhantong/renart-vendor-panel/pkg/httpx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/jwtx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
)

type Config struct {
	Issuer     string
	Secret     []byte // HS256 key, at least 32 bytes
	Pepper     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Version    string
	Seed       bool // create the demo vendor and catalogue
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cfg       Config
	tokens    *jwtx.HS256
	hasher    *cryptox.PasswordHasher
	data      *memStore
	logger    *slog.Logger
	startTime time.Time
	now       func() time.Time
}

// NewRouter builds a router with all routes registered.
func NewRouter(cfg Config, logger *slog.Logger) (*Router, error) {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = jwtx.DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "renart-vendor-api"
	}

	tokens, err := jwtx.NewHS256(cfg.Secret, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	r := &Router{
		Mux:       http.NewServeMux(),
		cfg:       cfg,
		tokens:    tokens,
		hasher:    cryptox.NewPasswordHasher(cfg.Pepper),
		data:      newMemStore(),
		logger:    logger,
		startTime: time.Now(),
		now:       time.Now,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	if cfg.Seed {
		if err := r.seed(); err != nil {
			return nil, err
		}
	}

	r.applyRoutes()
	return r, nil
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) applyRoutes() {
	r.registerAuth()
	r.registerVendor()
	r.registerProducts()
	r.registerSystem()
}

func (r *Router) registerAuth() {
	// Login is limited per IP and email to slow down credential stuffing.
	r.Mux.Handle("POST /api/v1/vendor-auth/login",
		httpx.Chain(http.HandlerFunc(r.handleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.LoginLimit, "email"),
		),
	)
	r.Mux.Handle("POST /api/v1/vendor-auth/register",
		httpx.Chain(http.HandlerFunc(r.handleRegister),
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
	r.Mux.Handle("POST /api/v1/vendor-auth/refresh",
		httpx.Chain(http.HandlerFunc(r.handleRefresh),
			httpx.RateLimitByIP(httpx.APILimit),
		),
	)
	r.Mux.Handle("POST /api/v1/vendor-auth/logout", r.secured(r.handleLogout))
	r.Mux.Handle("POST /api/v1/vendor-auth/change-password", r.secured(r.handleChangePassword))
}

func (r *Router) registerVendor() {
	r.Mux.Handle("GET /api/v1/vendor/profile", r.secured(r.handleGetProfile))
	r.Mux.Handle("PUT /api/v1/vendor/profile", r.secured(r.handleUpdateProfile))
	r.Mux.Handle("GET /api/v1/vendor/dashboard", r.secured(r.handleDashboard))
}

func (r *Router) registerProducts() {
	r.Mux.Handle("GET /api/v1/vendor/products", r.secured(r.handleListProducts))
	r.Mux.Handle("POST /api/v1/vendor/products", r.secured(r.handleCreateProduct))
	r.Mux.Handle("GET /api/v1/vendor/products/{id}", r.secured(r.handleGetProduct))
	r.Mux.Handle("PUT /api/v1/vendor/products/{id}", r.secured(r.handleUpdateProduct))
	r.Mux.Handle("DELETE /api/v1/vendor/products/{id}", r.secured(r.handleDeleteProduct))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.cfg.Version))
}

// secured requires a vendor access token, limited per vendor.
func (r *Router) secured(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.tokens),
		httpx.RateLimitByVendor(httpx.APILimit),
	)
}

// HealthResponse is the /livez body.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// LivezHandler reports that the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
