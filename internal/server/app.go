// Package server builds the application's dependencies from configuration
// and runs the HTTP service until it is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/wine-searcher-crawler/internal/api"
	"github.com/JakeFAU/wine-searcher-crawler/internal/clock/system"
	"github.com/JakeFAU/wine-searcher-crawler/internal/config"
	"github.com/JakeFAU/wine-searcher-crawler/internal/crawler"
	"github.com/JakeFAU/wine-searcher-crawler/internal/extractor"
	collyfetcher "github.com/JakeFAU/wine-searcher-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/wine-searcher-crawler/internal/fetcher/impersonate"
	"github.com/JakeFAU/wine-searcher-crawler/internal/metrics"
	"github.com/JakeFAU/wine-searcher-crawler/internal/search"
)

const shutdownTimeout = 10 * time.Second

// App contains the application's dependencies.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	apiServer *api.Server
}

// NewFetcher returns the fetch backend selected by cfg.Fetch.Backend.
func NewFetcher(cfg config.Config, logger *zap.Logger) (crawler.Fetcher, error) {
	switch cfg.Fetch.Backend {
	case config.BackendImpersonate:
		logger.Info("using impersonate fetcher", zap.String("binary_dir", cfg.Fetch.BinaryDir))
		return impersonate.New(impersonate.Config{
			BinaryDir:      cfg.Fetch.BinaryDir,
			MaxOutputBytes: cfg.Fetch.MaxOutputBytes,
		}, logger), nil
	case config.BackendColly:
		logger.Info("using colly fetcher")
		return collyfetcher.New(collyfetcher.Config{MaxBodyBytes: cfg.Fetch.MaxOutputBytes}, logger), nil
	default:
		return nil, fmt.Errorf("unknown fetch backend %q", cfg.Fetch.Backend)
	}
}

// NewSearchService wires fetcher, extractor and use case from cfg.
func NewSearchService(cfg config.Config, logger *zap.Logger) (*search.Service, error) {
	fetcher, err := NewFetcher(cfg, logger.Named("fetcher"))
	if err != nil {
		return nil, err
	}
	ex := extractor.New(cfg.Selectors, system.New(), logger.Named("extractor"))
	return search.NewService(fetcher, ex, cfg.SearchConfig(), logger.Named("search")), nil
}

// Build creates the application's dependencies.
func Build(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	logger.Info("building application dependencies",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("fetch_backend", cfg.Fetch.Backend),
		zap.String("browser_profile", cfg.Fetch.BrowserProfile),
		zap.Int("timeout_ms", cfg.Fetch.TimeoutMs),
		zap.String("site", cfg.Site.BaseURL),
	)

	service, err := NewSearchService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("search service init failed: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		apiServer: api.NewServer(service, system.New(), api.Config{
			RequestTimeout: cfg.RequestTimeout(),
		}, logger.Named("api")),
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run serves HTTP on the configured port until ctx is canceled or the
// process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(a.cfg.Server.Port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown initiated")
	case err := <-serveErr:
		if err != nil {
			a.logger.Error("http server error", zap.Error(err))
			runErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	a.Close()
	return runErr
}

// Close flushes the logger.
func (a *App) Close() {
	a.logger.Info("shutdown complete")
	_ = a.logger.Sync()
}
