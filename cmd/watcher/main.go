package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jurko22/xml-import/config"
	"github.com/jurko22/xml-import/internal/api"
	"github.com/jurko22/xml-import/internal/broker"
	"github.com/jurko22/xml-import/internal/extract"
	"github.com/jurko22/xml-import/internal/feed"
	"github.com/jurko22/xml-import/internal/ingest"
	"github.com/jurko22/xml-import/internal/mailbox"
	"github.com/jurko22/xml-import/internal/reconcile"
	"github.com/jurko22/xml-import/internal/redisclient"
	"github.com/jurko22/xml-import/internal/store"
	"github.com/jurko22/xml-import/internal/util"
	"github.com/jurko22/xml-import/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting mailbox watcher")

	tp, err := util.InitTracer("xml-import-watcher", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	var cache reconcile.SnapshotCache
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvent)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	registry := extract.NewRegistry(extract.NewShoptetExtractor())
	ingestService := ingest.NewService(db, registry, eventPublisher)

	var syncService *reconcile.SyncService
	if cfg.Feed.URL != "" {
		fetcher := feed.NewFetcher(cfg.Feed.URL, feed.FetcherOptions{
			Timeout:     cfg.Feed.FetchTimeout,
			InsecureTLS: cfg.Feed.InsecureTLS,
		})
		reconciler := reconcile.NewReconciler(db, reconcile.Config{
			SingleTable: cfg.Feed.SingleTable,
		})

		var regenerator *reconcile.Regenerator
		if cfg.Feed.RegenerateFeed {
			regenerator = reconcile.NewRegenerator(db, reconcile.RegeneratorConfig{
				SingleTable:   cfg.Feed.SingleTable,
				WithOverrides: cfg.Feed.WithOverrides,
				OutputPath:    cfg.Feed.OutputPath,
			})
		}

		syncService = reconcile.NewSyncService(fetcher, reconciler, regenerator, cache, eventPublisher, cfg.Feed.URL)
	}

	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()

	mailWatcher := mailbox.NewWatcher(cfg.Mailbox)
	go func() {
		if err := mailWatcher.Run(watcherCtx, ingestService.HandleMessage); err != nil && err != context.Canceled {
			log.Fatalf("Mailbox watcher failed: %v", err)
		}
	}()

	var feedWorker *worker.FeedWorker
	if syncService != nil && cfg.Feed.SyncInterval > 0 {
		feedWorker = worker.NewFeedWorker(syncService, cfg.Feed.SyncInterval)
		go func() {
			if err := feedWorker.Start(watcherCtx); err != nil && err != context.Canceled {
				log.Printf("Feed worker error: %v", err)
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(db, syncService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	watcherCancel()
	if feedWorker != nil {
		feedWorker.Stop()
	}

	log.Println("Watcher exited")
}
