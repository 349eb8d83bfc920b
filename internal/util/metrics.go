package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedItemsSeenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_items_seen_total",
		Help: "Total number of feed items read from fetched documents",
	})

	FeedItemsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_items_skipped_total",
		Help: "Total number of feed items or variants rejected during normalization",
	}, []string{"reason"})

	FeedRowsInsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_rows_inserted_total",
		Help: "Total number of variant rows inserted by reconciliation",
	})

	FeedRowsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_rows_updated_total",
		Help: "Total number of variant rows updated by reconciliation",
	})

	FeedRowsUnchangedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_rows_unchanged_total",
		Help: "Total number of variant rows already up to date",
	})

	FeedRowsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_rows_failed_total",
		Help: "Total number of variant rows that failed to write",
	}, []string{"op"})

	FeedSyncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_sync_runs_total",
		Help: "Total number of feed sync runs",
	}, []string{"result"})

	FeedSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_sync_duration_seconds",
		Help:    "Duration of full feed sync runs",
		Buckets: prometheus.DefBuckets,
	})

	FeedRegenerationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_regenerations_total",
		Help: "Total number of output feed documents written",
	})

	MailReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mail_received_total",
		Help: "Total number of mailbox messages received",
	})

	MailRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_rejected_total",
		Help: "Total number of mailbox messages rejected by extraction",
	}, []string{"reason"})

	OrdersIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_ingested_total",
		Help: "Total number of orders extracted and stored",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of orders that failed to store",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
