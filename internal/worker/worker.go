package worker

import (
	"context"
	"time"

	"github.com/jurko22/xml-import/internal/reconcile"
	"github.com/jurko22/xml-import/internal/util"

	"go.uber.org/zap"
)

// SyncRunner runs one feed sync pass.
type SyncRunner interface {
	Run(ctx context.Context) (reconcile.Summary, error)
}

// FeedWorker runs the feed sync service on a fixed interval.
type FeedWorker struct {
	sync     SyncRunner
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
}

// NewFeedWorker creates a new periodic feed worker
func NewFeedWorker(sync SyncRunner, interval time.Duration) *FeedWorker {
	return &FeedWorker{
		sync:     sync,
		interval: interval,
		logger:   util.GetLogger(),
		stop:     make(chan struct{}),
	}
}

// Start runs the worker loop until the context is cancelled or Stop is
// called. Each tick is one independent sync run; a failed run is logged and
// the next tick proceeds.
func (w *FeedWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting feed worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Feed worker context cancelled, stopping")
			return ctx.Err()
		case <-w.stop:
			return nil
		case <-ticker.C:
			if _, err := w.sync.Run(ctx); err != nil {
				w.logger.Error("Scheduled feed sync failed", zap.Error(err))
			}
		}
	}
}

// Stop stops the worker
func (w *FeedWorker) Stop() {
	w.logger.Info("Stopping feed worker")
	close(w.stop)
}
