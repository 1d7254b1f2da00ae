package worker

import (
	"context"
	"errors"
	"time"

	"touristhub/internal/metrics"
	"touristhub/internal/models"
	"touristhub/internal/report"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
)

// ReportSink receives the freshly built report. The Google Sheets
// service satisfies this.
type ReportSink interface {
	ReplaceReport(ctx context.Context, r *report.Report) error
}

type syncTask struct {
	Reason    string
	CreatedAt time.Time
}

// ReportSyncWorker consumes sync tasks and pushes the current report
// to the sink. Tasks carry no data of their own; the report is always
// rebuilt from the live mirrors, so a burst of bookings collapses into
// however many pushes the queue absorbed.
type ReportSyncWorker struct {
	store       *store.Store
	sink        ReportSink
	retryPolicy RetryPolicy
	queue       chan syncTask
	logger      *zerolog.Logger
}

// NewReportSyncWorker builds a worker with sane defaults.
func NewReportSyncWorker(st *store.Store, sink ReportSink, retry RetryPolicy, logger *zerolog.Logger) *ReportSyncWorker {
	retry = retry.normalized()

	return &ReportSyncWorker{
		store:       st,
		sink:        sink,
		retryPolicy: retry,
		queue:       make(chan syncTask, models.WorkerQueueSize),
		logger:      logger,
	}
}

// EnqueueReportSync schedules a report push. A full queue drops the
// task: the next successful push carries the same data anyway.
func (w *ReportSyncWorker) EnqueueReportSync(ctx context.Context, reason string) error {
	if reason == "" {
		return errors.New("sync reason is required")
	}

	select {
	case w.queue <- syncTask{Reason: reason, CreatedAt: time.Now()}:
		metrics.IncSyncTask("enqueued")
		return nil
	default:
		metrics.IncSyncTask("dropped")
		w.logger.Warn().Str("reason", reason).Msg("sync queue full, task dropped")
		return nil
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ReportSyncWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report sync worker started")
	defer w.logger.Info().Msg("report sync worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.processTask(ctx, task)
		}
	}
}

func (w *ReportSyncWorker) processTask(ctx context.Context, task syncTask) {
	snap := w.store.Snapshot()
	r := report.Build(snap.Bookings.Values(), snap.Users.Values(), snap.Tours.Values(), time.Now())

	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if lastErr = w.sink.ReplaceReport(ctx, r); lastErr == nil {
			metrics.IncSyncTask("success")
			w.logger.Debug().
				Str("reason", task.Reason).
				Int("attempt", attempt).
				Msg("report pushed")
			return
		}

		if attempt == w.retryPolicy.MaxRetries {
			break
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().
			Err(lastErr).
			Str("reason", task.Reason).
			Int("attempt", attempt).
			Dur("next_delay", delay).
			Msg("report push failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	metrics.IncSyncTask("failed")
	w.logger.Error().
		Err(lastErr).
		Str("reason", task.Reason).
		Int("retries", w.retryPolicy.MaxRetries).
		Msg("report push failed permanently")
}
