package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/user/crawlweb-api/internal/bootstrap"
	"github.com/user/crawlweb-api/internal/delivery/http/handler"
	"github.com/user/crawlweb-api/internal/delivery/http/router"
	"github.com/user/crawlweb-api/internal/usecase"
	"github.com/user/crawlweb-api/pkg/config"
	"github.com/user/crawlweb-api/pkg/logger"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// --- Logger ---
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer l.Sync()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Storage ---
	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, m, l)
	if err != nil {
		l.Fatal("failed to open job store", zap.Error(err))
	}
	defer store.Close()

	// --- Use Cases ---
	catalog := usecase.NewJobCatalog(store.Repo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(catalog, cfg.RecentJobsLimit, store.HealthChecks(), m, l)
	httpRouter := router.New(apiHandler, router.Options{
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		Logger:         l,
		RequestTimeout: cfg.RequestTimeout(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("could not start server", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	l.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}

	l.Info("server exiting")
}
