package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"touristhub/internal/domain"
	"touristhub/internal/metrics"
	"touristhub/internal/models"

	"github.com/rs/zerolog"
)

// Shim keys for the cached state sections.
const (
	KeySession      = "session"
	KeyBookings     = "bookings"
	KeyTours        = "tours"
	KeyDestinations = "destinations"
	KeyUsers        = "users"
	KeySettings     = "settings"
)

// Store is the process-wide application state container. Dispatch
// applies the pure transition function synchronously, re-persists the
// whole mirror to the shim after every change, notifies subscribers
// with the latest snapshot, and manages the single auto-expiring
// notification.
type Store struct {
	mu       sync.Mutex
	snapshot Snapshot
	shim     domain.Shim
	logger   *zerolog.Logger

	subsMu sync.RWMutex
	subs   []func(Snapshot)

	notifyTimer *time.Timer
	notifyGen   uint64

	notificationTTL time.Duration
}

func New(initial Snapshot, shim domain.Shim, logger *zerolog.Logger) *Store {
	return &Store{
		snapshot:        initial,
		shim:            shim,
		logger:          logger,
		notificationTTL: models.NotificationTTLSeconds * time.Second,
	}
}

// SetNotificationTTL overrides the notification expiry, used in tests.
func (s *Store) SetNotificationTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notificationTTL = ttl
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Subscribe registers an observer invoked with every new snapshot.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Dispatch applies an action. Sequential dispatches from one caller
// apply in issue order; the transition runs synchronously per call.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	next := s.applyLocked(action)
	s.mu.Unlock()

	s.fanOut(action, next)
}

// applyLocked runs the transition, re-arms the notification timer and
// persists. Callers must hold s.mu.
func (s *Store) applyLocked(action Action) Snapshot {
	prev := s.snapshot
	next := Reduce(prev, action)
	s.snapshot = next

	if next.Notification != prev.Notification {
		s.armNotificationTimer(next.Notification)
	}

	s.persist(next)
	return next
}

func (s *Store) fanOut(action Action, next Snapshot) {
	metrics.IncAction(action.Name())
	s.logger.Debug().Str("action", action.Name()).Msg("action dispatched")

	s.subsMu.RLock()
	subs := append([]func(Snapshot){}, s.subs...)
	s.subsMu.RUnlock()
	for _, fn := range subs {
		fn(next)
	}
}

// armNotificationTimer cancels any pending expiry and, when a
// notification was just set, schedules its auto-clear. A superseding
// notification re-arms the timer; the generation check and the clear
// happen under one lock hold, so a stale timer that fires while a
// newer notification is being set can never clear it.
func (s *Store) armNotificationTimer(notification *models.Notification) {
	if s.notifyTimer != nil {
		s.notifyTimer.Stop()
		s.notifyTimer = nil
	}
	s.notifyGen++

	if notification == nil {
		return
	}

	gen := s.notifyGen
	s.notifyTimer = time.AfterFunc(s.notificationTTL, func() {
		s.mu.Lock()
		if s.notifyGen != gen {
			s.mu.Unlock()
			return
		}
		next := s.applyLocked(ClearNotification{})
		s.mu.Unlock()
		s.fanOut(ClearNotification{}, next)
	})
}

// persist re-serializes every state section to the shim. The cache is
// advisory: failures are logged and the dispatch still succeeds.
func (s *Store) persist(snapshot Snapshot) {
	ctx := context.Background()

	sections := []struct {
		key   string
		value interface{}
	}{
		{KeySession, snapshot.Session},
		{KeyBookings, snapshot.Bookings.Values()},
		{KeyTours, snapshot.Tours.Values()},
		{KeyDestinations, snapshot.Destinations.Values()},
		{KeyUsers, snapshot.Users.Values()},
		{KeySettings, snapshot.Settings},
	}

	for _, section := range sections {
		data, err := json.Marshal(section.value)
		if err != nil {
			s.logger.Error().Err(err).Str("key", section.key).Msg("failed to serialize state section")
			continue
		}
		if err := s.shim.Set(ctx, section.key, string(data)); err != nil {
			s.logger.Warn().Err(err).Str("key", section.key).Msg("failed to persist state section")
		}
	}
}
