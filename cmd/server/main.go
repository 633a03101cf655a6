// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/listing"
	"kuwait_portal_backend/internal/platform/database"
	platformES "kuwait_portal_backend/internal/platform/elasticsearch"
	"kuwait_portal_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	syncListingsCmd := flag.NewFlagSet("sync-listings", flag.ExitOnError)
	batchSize := syncListingsCmd.Int("batch-size", 100, "Batch size for syncing listings")

	if len(os.Args) > 1 && os.Args[1] == "sync-listings" {
		syncListingsCmd.Parse(os.Args[2:])
		runSyncListings(*batchSize)
		return
	}

	startServer()
}

// runSyncListings reindexes every visible listing into the search cluster.
func runSyncListings(batchSize int) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for sync: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for sync: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database for sync", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	esClient, err := platformES.NewClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Elasticsearch client for sync", zap.Error(err))
	}
	if esClient == nil {
		appLogger.Fatal("ELASTICSEARCH_URL must be set to run sync-listings")
	}
	if err := platformES.CreateListingsIndexIfNotExists(esClient, appLogger); err != nil {
		appLogger.Fatal("Failed to create/verify listings index before sync", zap.Error(err))
	}

	repo := listing.NewGORMRepository(db)
	indexer := listing.NewSearchIndexer(esClient, appLogger)

	ctx := context.Background()
	totalIndexed := 0
	totalRemoved := 0
	for offset := 0; ; offset += batchSize {
		batch, err := repo.FindBatch(ctx, offset, batchSize)
		if err != nil {
			appLogger.Fatal("Failed to fetch listing batch", zap.Int("offset", offset), zap.Error(err))
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			l := &batch[i]
			if l.IsVisible() {
				if err := indexer.Index(ctx, l); err != nil {
					appLogger.Warn("Failed to index listing", zap.String("listingID", l.ID.String()), zap.Error(err))
					continue
				}
				totalIndexed++
			} else {
				if err := indexer.Delete(ctx, l.ID); err != nil {
					appLogger.Warn("Failed to deindex listing", zap.String("listingID", l.ID.String()), zap.Error(err))
					continue
				}
				totalRemoved++
			}
		}
		if len(batch) < batchSize {
			break
		}
	}
	appLogger.Info("Listing synchronization completed",
		zap.Int("indexed", totalIndexed),
		zap.Int("removed", totalRemoved),
	)
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if server.ESClient != nil {
		if err := platformES.CreateListingsIndexIfNotExists(server.ESClient, server.AppLogger); err != nil {
			server.AppLogger.Error("Failed to create listings search index", zap.Error(err))
		}
	} else {
		server.AppLogger.Info("Search cluster not configured, skipping index creation.")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
