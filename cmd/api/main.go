// Package main is the entry point for the routing dashboard API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pkordes/routing-dashboard/internal/client"
	"github.com/pkordes/routing-dashboard/internal/config"
	"github.com/pkordes/routing-dashboard/internal/handler"
	"github.com/pkordes/routing-dashboard/internal/logging"
	"github.com/pkordes/routing-dashboard/internal/middleware"
	"github.com/pkordes/routing-dashboard/internal/repo"
	"github.com/pkordes/routing-dashboard/internal/selection"
	"github.com/pkordes/routing-dashboard/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment only")
	}
	cfg, err := config.Load()
	if err != nil {
		// Default logger until the configured one exists.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// --- Route history store ----------------------------------------------
	ctx := context.Background()
	store, closeStore, err := repo.OpenStore(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		slog.Error("failed to open route history store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("route history store ready", "driver", cfg.StoreDriver)

	// --- Services ---------------------------------------------------------
	sel := selection.NewManager(cfg.SelectionMode)
	httpClient := client.New(cfg.HTTPTimeout)
	locations := service.NewLocationService(httpClient, sel, cfg.XMLURL, logger)
	routes := service.NewRouteService(
		repo.NewRouteHistoryRepo(store), locations, sel, httpClient, cfg.RouteEndpoint, logger,
	)

	// Initial load. A fetch failure already falls back to the sample
	// document; only a parse error lands here and the server starts empty.
	if res, err := locations.Load(ctx, ""); err != nil {
		slog.Warn("initial location load failed", "url", cfg.XMLURL, "error", err)
	} else {
		slog.Info("locations loaded", "summary", res.Summary, "used_sample", res.UsedSample, "mode", cfg.SelectionMode)
	}

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(locations, sel, routes, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for one outbound request per handler.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
