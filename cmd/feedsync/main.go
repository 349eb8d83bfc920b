package main

import (
	"context"
	"log"
	"time"

	"github.com/jurko22/xml-import/config"
	"github.com/jurko22/xml-import/internal/broker"
	"github.com/jurko22/xml-import/internal/feed"
	"github.com/jurko22/xml-import/internal/reconcile"
	"github.com/jurko22/xml-import/internal/redisclient"
	"github.com/jurko22/xml-import/internal/store"
	"github.com/jurko22/xml-import/internal/util"
)

// feedsync is the one-shot batch pipeline: fetch the feed, reconcile the
// store against it, optionally regenerate the output feed, exit.
func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	if cfg.Feed.URL == "" {
		log.Fatal("FEED_URL is required")
	}

	tp, err := util.InitTracer("xml-import-feedsync", cfg.Observ.JaegerEndpoint)
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

	eventPublisher := broker.NewEventPublisher(producer)

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

	syncService := reconcile.NewSyncService(fetcher, reconciler, regenerator, cache, eventPublisher, cfg.Feed.URL)

	summary, err := syncService.Run(context.Background())
	if err != nil {
		log.Fatalf("Feed sync failed: %v", err)
	}

	log.Printf("Feed sync done: inserted=%d updated=%d unchanged=%d failed=%d rejected=%d",
		summary.Inserted, summary.Updated, summary.Unchanged, summary.Failed, summary.Rejected)
}
