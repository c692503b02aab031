package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/config"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/db"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/logger"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/messaging"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/redis"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/services"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/storage"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/work"

	"github.com/rs/zerolog/log"

	"github.com/joho/godotenv"

	_ "github.com/LexiconIndonesia/datasource-catalog-service/docs"
)

// @title          Data Source Catalog API
// @version        1.0
// @description    Registers remote CSV files and stores their rows for preview and export.

// @host     localhost:8080
// @BasePath /v1
// @schemes  http https

// @securityDefinitions.apikey ApiKeyAuth
// @in                         header
// @name                       X-API-KEY

func main() {
	// INITIATE CONFIGURATION
	envErr := godotenv.Load()

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("Error loading .env file, using environment variables")
	}

	// Create a base context with cancel for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE DATABASES
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup database")
	}
	defer dbConn.Close()

	sources := services.NewDataSourceRepository(dbConn.Queries)
	rows := services.NewDataRowRepository(dbConn.Queries)

	pipeline := ingest.NewPipeline(
		ingest.NewHTTPFetcher(nil, cfg.Ingest.FetchTimeout),
		rows,
		ingest.WithBatchSize(int(cfg.Ingest.BatchSize)),
	)

	opts := []catalog.Option{
		catalog.WithPreviewLimit(int(cfg.Ingest.PreviewLimit)),
	}

	// LEASES
	var leases work.LeaseManager = work.NewMemoryLeaseManager()
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup Redis client")
		}
		defer redisClient.Close()

		leases, err = work.NewRedisLeaseManager(redisClient, "")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup Redis leases")
		}
		log.Info().Str("addr", cfg.Redis.Addr()).Msg("Refresh leases stored in Redis")
	}
	opts = append(opts, catalog.WithLeaseManager(leases, cfg.Ingest.LeaseTTL))

	// INITIATE NATS CLIENT
	var natsClient *messaging.NatsBroker
	var publisher *messaging.EventPublisher
	if cfg.Nats.Enabled {
		natsClient, err = messaging.SetupNatsBroker(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup NATS client")
		}
		defer natsClient.Close()

		publisher = messaging.NewEventPublisher(natsClient)
		opts = append(opts, catalog.WithNotifier(publisher))
	}

	// gcs
	if cfg.GCS.Enabled() {
		gcsStorage, err := storage.NewGCSStorage(ctx, storage.GCSConfig{
			ProjectID:       cfg.GCS.ProjectID,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to setup GCS storage")
		}
		defer gcsStorage.Close()

		store := storage.NewBucketStore(gcsStorage, cfg.GCS.Bucket, cfg.GCS.ArchivePrefix, cfg.GCS.SignedURLTTL)
		opts = append(opts, catalog.WithArchive(store))
	}

	coordinator := catalog.NewCoordinator(sources, rows, pipeline, opts...)

	if natsClient != nil {
		consumeCtx, err := messaging.NewRefreshConsumer(coordinator, cfg.Ingest.LeaseTTL).Start(ctx, natsClient)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start refresh consumer")
		}
		defer consumeCtx.Stop()
		log.Info().Msg("Refresh consumer started")
	}

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	server.SetDB(dbConn)
	server.SetCatalog(coordinator)
	if publisher != nil {
		server.SetRefreshQueue(publisher)
	}

	server.setupRoute()

	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")
	log.Info().Str("swagger", fmt.Sprintf("http://%s/swagger/index.html", cfg.Listen.Addr())).Msg("Swagger documentation available at")

	select {
	case <-shutdown:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
}
