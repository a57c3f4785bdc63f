// internal/app/system/workers/notificationcleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/committeehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pruner deletes read notifications created before cutoff.
type Pruner interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanup is a background worker that prunes read
// notifications past their retention period.
type NotificationCleanup struct {
	store     Pruner
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewNotificationCleanup creates a new notification cleanup worker.
//
// Parameters:
//   - store: the notifications store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 hour)
//   - retention: how long a read notification is kept (e.g., 30 days)
func NewNotificationCleanup(store Pruner, logger *zap.Logger, interval, retention time.Duration) *NotificationCleanup {
	return &NotificationCleanup{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *NotificationCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("notification cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *NotificationCleanup) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("notification cleanup worker stopped")
	})
}

func (w *NotificationCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single prune pass.
func (w *NotificationCleanup) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	cutoff := w.now().Add(-w.retention)
	count, err := w.store.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to prune read notifications", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("pruned read notifications",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
	}
}
