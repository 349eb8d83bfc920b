package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jurko22/xml-import/internal/reconcile"

	"github.com/stretchr/testify/assert"
)

type countingRunner struct {
	runs int32
	err  error
}

func (r *countingRunner) Run(ctx context.Context) (reconcile.Summary, error) {
	atomic.AddInt32(&r.runs, 1)
	return reconcile.Summary{}, r.err
}

func TestFeedWorkerRunsOnInterval(t *testing.T) {
	runner := &countingRunner{}
	w := NewFeedWorker(runner, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	time.Sleep(55 * time.Millisecond)
	w.Stop()

	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runner.runs), int32(2))
}

func TestFeedWorkerSurvivesFailedRuns(t *testing.T) {
	runner := &countingRunner{err: errors.New("fetch failed")}
	w := NewFeedWorker(runner, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	time.Sleep(35 * time.Millisecond)
	w.Stop()

	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&runner.runs), int32(1))
}

func TestFeedWorkerStopsOnContextCancel(t *testing.T) {
	runner := &countingRunner{}
	w := NewFeedWorker(runner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
