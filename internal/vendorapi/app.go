package vendorapi

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/slogx"
	"github.com/caarlos0/env/v11"
)

const BuildVersion = "v0.1.0"

// ServerConfig is read from the environment by LoadServerConfig.
type ServerConfig struct {
	Port                int           `env:"PORT" envDefault:"3002"`
	Issuer              string        `env:"VENDORAPI_ISSUER" envDefault:"renart-vendor-api"`
	JWTSecret           string        `env:"VENDORAPI_JWT_SECRET"` // Optional: random per process when unset
	Pepper              string        `env:"VENDORAPI_PEPPER"`
	AccessTTL           time.Duration `env:"VENDORAPI_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL          time.Duration `env:"VENDORAPI_REFRESH_TTL" envDefault:"168h"`
	Seed                bool          `env:"VENDORAPI_SEED" envDefault:"true"`
	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Server is the stub backend process.
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger
	server *http.Server
}

func NewServer(cfg ServerConfig) (*Server, error) {
	logger := slogx.New(slogx.Config{
		Service: "vendor-api",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		logger.Warn("VENDORAPI_JWT_SECRET not set, tokens will not survive a restart")
	}

	router, err := NewRouter(Config{
		Issuer:     cfg.Issuer,
		Secret:     secret,
		Pepper:     cfg.Pepper,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		Version:    BuildVersion,
		Seed:       cfg.Seed,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	s.logger.Info("vendor api starting", "port", s.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		s.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGracePeriod)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Error("graceful server shutdown failed", "error", err)
			_ = s.server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	s.logger.Info("vendor api stopped")
	return nil
}
