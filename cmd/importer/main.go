package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/user/crawlweb-api/internal/bootstrap"
	"github.com/user/crawlweb-api/internal/usecase"
	"github.com/user/crawlweb-api/pkg/config"
	"github.com/user/crawlweb-api/pkg/logger"
	"github.com/user/crawlweb-api/pkg/metrics"
	"go.uber.org/zap"
)

// importer loads a crawler output file (a JSON array of job objects) into
// the configured job store.
func main() {
	envFile := flag.String("env", ".env", "optional env file")
	file := flag.String("file", "", "path to the crawler output JSON file (default stdin)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, metrics.New(prometheus.NewRegistry()), l)
	if err != nil {
		l.Fatal("failed to open job store", zap.Error(err))
	}
	defer store.Close()

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			l.Fatal("failed to open import file", zap.String("file", *file), zap.Error(err))
		}
		defer f.Close()
		in = f
	}

	importer := usecase.NewImporter(usecase.NewJobCatalog(store.Repo), l)
	res, err := importer.Import(ctx, in)
	if err != nil {
		l.Error("import aborted", zap.Error(err),
			zap.Int("inserted", res.Inserted), zap.Int("duplicates", res.Duplicates), zap.Int("invalid", res.Invalid))
		os.Exit(1)
	}

	l.Info("import finished",
		zap.Int("inserted", res.Inserted), zap.Int("duplicates", res.Duplicates), zap.Int("invalid", res.Invalid))
}
