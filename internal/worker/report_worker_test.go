package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"touristhub/internal/models"
	"touristhub/internal/report"
	"touristhub/internal/shim"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 8*time.Second, policy.NextDelay(4))

	t.Run("clamped to max delay", func(t *testing.T) {
		assert.Equal(t, 10*time.Second, policy.NextDelay(10))
	})

	t.Run("attempt below one treated as first", func(t *testing.T) {
		assert.Equal(t, time.Second, policy.NextDelay(0))
	})

	t.Run("zero policy takes the worker defaults", func(t *testing.T) {
		var zero RetryPolicy
		assert.Equal(t, 2*time.Second, zero.NextDelay(1))
		assert.Equal(t, 4*time.Second, zero.NextDelay(2))
		assert.Equal(t, time.Minute, zero.NextDelay(20))

		defaulted := zero.normalized()
		assert.Equal(t, 5, defaulted.MaxRetries)
		assert.Equal(t, time.Minute, defaulted.MaxDelay)
	})
}

type recordingSink struct {
	mu       sync.Mutex
	reports  []*report.Report
	failures int
}

func (s *recordingSink) ReplaceReport(ctx context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("sink unavailable")
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func newWorkerFixture(t *testing.T, sink ReportSink) (*ReportSyncWorker, *store.Store) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st := store.New(
		store.InitialSnapshot(models.DefaultTours(), models.DefaultDestinations(), models.DefaultSettings()),
		shim.NewMemoryShim(),
		&logger,
	)
	retry := RetryPolicy{MaxRetries: 3, InitialDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond, BackoffFactor: 2}
	return NewReportSyncWorker(st, sink, retry, &logger), st
}

func TestReportSyncWorker(t *testing.T) {
	t.Run("pushes the current report", func(t *testing.T) {
		sink := &recordingSink{}
		w, st := newWorkerFixture(t, sink)

		action, err := store.NewAddBooking(models.Booking{
			ID:         "b1",
			TourName:   "Beach Paradise",
			Guests:     2,
			TotalPrice: 798,
			Status:     models.StatusPending,
		})
		assert.NoError(t, err)
		st.Dispatch(action)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Start(ctx)

		assert.NoError(t, w.EnqueueReportSync(ctx, "booking_created"))
		assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)

		sink.mu.Lock()
		pushed := sink.reports[0]
		sink.mu.Unlock()
		assert.Equal(t, 1, pushed.TotalBookings)
		assert.InDelta(t, 798.0, pushed.TotalRevenue, 0.001)
	})

	t.Run("retries transient sink failures", func(t *testing.T) {
		sink := &recordingSink{failures: 2}
		w, _ := newWorkerFixture(t, sink)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Start(ctx)

		assert.NoError(t, w.EnqueueReportSync(ctx, "status_confirmed"))
		assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		sink := &recordingSink{failures: 100}
		w, _ := newWorkerFixture(t, sink)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Start(ctx)

		assert.NoError(t, w.EnqueueReportSync(ctx, "booking_deleted"))
		time.Sleep(100 * time.Millisecond)
		assert.Zero(t, sink.count())
	})

	t.Run("empty reason is rejected", func(t *testing.T) {
		w, _ := newWorkerFixture(t, &recordingSink{})
		assert.Error(t, w.EnqueueReportSync(context.Background(), ""))
	})
}
