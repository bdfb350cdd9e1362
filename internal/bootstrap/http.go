package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reallifegames/localauth/config"
	"github.com/reallifegames/localauth/internal/apiclient"
	httpx "github.com/reallifegames/localauth/internal/http"
	"github.com/reallifegames/localauth/internal/observability/metrics"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router. The console, when enabled, reaches the API through
// CONSOLE_API_URL or, by default, this process's own listener.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	var console *apiclient.Client
	if appCfg.Console.Enabled {
		baseURL := appCfg.Console.APIBaseURL(appCfg.HTTP.Addr)
		c, err := apiclient.New(apiclient.Config{BaseURL: baseURL, Timeout: appCfg.Console.APITimeout})
		if err != nil {
			return nil, fmt.Errorf("console api client: %w", err)
		}
		console = c
		logger.Info("admin console enabled", "api_url", baseURL)
	}

	var m *metrics.Metrics
	if appCfg.HTTP.MetricsEnabled {
		m = metrics.New()
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
	}

	return httpx.NewRouter(httpx.RouterServices{
		Auth:             cfg.Services.Auth,
		Users:            cfg.Services.Users,
		Dash:             cfg.Services.Dash,
		Console:          console,
		CookieDomain:     appCfg.HTTP.CookieDomain,
		CORSOrigin:       appCfg.HTTP.CORSOrigin,
		TokenTTL:         appCfg.Auth.TokenTTL,
		Metrics:          m,
		Compression:      appCfg.HTTP.CompressionEnabled,
		CompressionLevel: appCfg.HTTP.CompressionLevel,
		IsDev:            appCfg.IsDev,
		Logger:           logger,
	}), nil
}

func newServer(addr string, handler http.Handler) *http.Server {
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// RunHTTPServer serves until ctx is canceled, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", cfg.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Config.HTTP.Addr, err)
	}
	return serve(ctx, newServer(cfg.Config.HTTP.Addr, handler), ln, logger)
}

// serve runs server on ln until ctx ends or the server fails.
func serve(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})
	return g.Wait()
}
