package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pkordes/fleet-dashboard/internal/config"
	"github.com/pkordes/fleet-dashboard/internal/handler"
	"github.com/pkordes/fleet-dashboard/internal/middleware"
	"github.com/pkordes/fleet-dashboard/internal/repo"
	"github.com/pkordes/fleet-dashboard/internal/service"
)

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  `serve starts the dashboard API and blocks until SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}
			return serve(cfg)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
	return cmd
}

func serve(cfg config.Config) error {
	// --- Logger -----------------------------------------------------------
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// --- Backend ----------------------------------------------------------
	client, err := newBackendClient(cfg, logger)
	if err != nil {
		return err
	}
	trips := repo.NewTripRepo(client)

	views := service.NewViewService(trips, service.ViewOptions{
		PageLimit: cfg.PageLimit,
		Logger:    logger,
	})
	defer views.CloseAll()

	srvHandler := handler.NewServer(
		views,
		service.NewExportService(trips, nil),
		service.NewStatisticsService(repo.NewStatisticsRepo(client)),
		service.NewInvoiceService(repo.NewInvoiceRepo(client)),
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → rate limit → body size → token.
	// Token runs last so rejected tokens are still logged with their request ID.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger).Handler)
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewTokenHandler(logger, time.Now))
	srvHandler.Routes(r)

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a slow backend plus export rendering.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
	case <-stop:
	}
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
