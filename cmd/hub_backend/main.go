package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/handlers"
	"github.com/janezhang99/SEW-v5-sub002/internal/metrics"
	"github.com/janezhang99/SEW-v5-sub002/internal/middleware"
	"github.com/janezhang99/SEW-v5-sub002/internal/platform/config"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots"
)

// @title Community Hub API
// @version 1.0
// @description Record store for expenses, projects, events and tasks.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := domain.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	slotRepo, err := slots.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := slotRepo.Close(); cerr != nil {
			logger.Error("Error closing slot repository", slog.String("error", cerr.Error()))
		}
	}()

	recorder := metrics.New()
	container, err := services.NewServiceContainer(ctx, slotRepo, catalog,
		services.WithContainerLogger(logger),
		services.WithObserver(recorder),
		services.WithStrictWorkflow(cfg.StrictWorkflow()),
	)
	if err != nil {
		return err
	}

	rl, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
		recorder.Middleware(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, container, recorder, rl)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Change streams end when the signal context is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
