// Package main wires together the ingest service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	gcpubsub "cloud.google.com/go/pubsub"

	"github.com/draftline-io/linkedin-ingest/internal/api"
	"github.com/draftline-io/linkedin-ingest/internal/archive/gcs"
	"github.com/draftline-io/linkedin-ingest/internal/archive/local"
	"github.com/draftline-io/linkedin-ingest/internal/clock/system"
	"github.com/draftline-io/linkedin-ingest/internal/config"
	collyfetch "github.com/draftline-io/linkedin-ingest/internal/fetch/colly"
	"github.com/draftline-io/linkedin-ingest/internal/hash/sha256"
	"github.com/draftline-io/linkedin-ingest/internal/id/uuid"
	"github.com/draftline-io/linkedin-ingest/internal/ingest"
	"github.com/draftline-io/linkedin-ingest/internal/logging"
	"github.com/draftline-io/linkedin-ingest/internal/phantom"
	pubsubpublisher "github.com/draftline-io/linkedin-ingest/internal/publisher/pubsub"
	memorystore "github.com/draftline-io/linkedin-ingest/internal/store/memory"
	"github.com/draftline-io/linkedin-ingest/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// .env is a developer convenience; absence is normal in production.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store ingest.Store
	if cfg.DB.DSN != "" {
		pgStore, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			logger.Fatal("postgres store init failed", zap.Error(err))
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		logger.Warn("db.dsn not set, using in-memory store")
		store = memorystore.New()
	}

	var archiver ingest.BlobStore
	switch {
	case cfg.Archive.GCSBucket != "":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			logger.Fatal("gcs client init failed", zap.Error(err))
		}
		archiver, err = gcs.New(ctx, client, gcs.Config{Bucket: cfg.Archive.GCSBucket})
		if err != nil {
			logger.Fatal("gcs archive init failed", zap.Error(err))
		}
	case cfg.Archive.BaseDir != "":
		archiver, err = local.New(local.Config{BaseDir: cfg.Archive.BaseDir})
		if err != nil {
			logger.Fatal("local archive init failed", zap.Error(err))
		}
	default:
		logger.Info("envelope archiving disabled")
	}

	var publisher ingest.Publisher
	if cfg.PubSub.ProjectID != "" && cfg.PubSub.TopicName != "" {
		client, err := gcpubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			logger.Fatal("pubsub client init failed", zap.Error(err))
		}
		publisher, err = pubsubpublisher.New(ctx, client, cfg.PubSub.TopicName)
		if err != nil {
			logger.Fatal("pubsub publisher init failed", zap.Error(err))
		}
	} else {
		logger.Info("batch summary publishing disabled")
	}

	fetcher := collyfetch.New(collyfetch.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})

	pipeline := ingest.NewPipeline(
		store,
		fetcher,
		archiver,
		publisher,
		sha256.New(),
		system.New(),
		uuid.New(),
		ingest.Config{
			Topic:         cfg.PubSub.TopicName,
			ArchivePrefix: cfg.Archive.Prefix,
		},
		logger.Named("ingest"),
	)

	var scraper api.Launcher
	if cfg.Phantom.APIKey != "" {
		client, err := phantom.New(phantom.Config{
			BaseURL:       cfg.Phantom.BaseURL,
			APIKey:        cfg.Phantom.APIKey,
			SessionCookie: cfg.Phantom.SessionCookie,
			Timeout:       cfg.PhantomTimeout(),
		})
		if err != nil {
			logger.Warn("scraping API client init failed", zap.Error(err))
		} else {
			scraper = client
		}
	}

	apiServer := api.NewServer(pipeline, store, scraper, system.New(), cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
