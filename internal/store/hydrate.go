package store

import (
	"context"
	"encoding/json"
	"sync"

	"touristhub/internal/domain"
	"touristhub/internal/models"
)

// Hydrate fills the mirror at startup. Bookings, users and
// destinations are fetched from the gateway in parallel; if all three
// succeed they become the mirror (bundled defaults stand in for an
// empty remote destination list). If any call fails, all three results
// are abandoned and every collection is read from the shim instead,
// with bundled defaults where nothing was cached. Tours, settings and
// the session live only in the shim, so they are read from it on both
// paths; the auth provider's session push supersedes the cached
// session once it arrives.
func (s *Store) Hydrate(ctx context.Context, gateway domain.Gateway) {
	var (
		wg           sync.WaitGroup
		bookings     []models.Booking
		users        []models.UserRecord
		destinations []models.Destination
		errs         [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		bookings, errs[0] = gateway.ListBookings(ctx)
	}()
	go func() {
		defer wg.Done()
		users, errs[1] = gateway.ListUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		destinations, errs[2] = gateway.ListDestinations(ctx)
	}()
	wg.Wait()

	load := BulkLoad{HasSession: true}
	load.Session = s.cachedSession(ctx)

	if errs[0] == nil && errs[1] == nil && errs[2] == nil {
		load.Bookings = emptyNotNil(bookings)
		load.Users = emptyNotNil(users)
		if len(destinations) == 0 {
			destinations = models.DefaultDestinations()
		}
		load.Destinations = destinations
		s.loadLocalSections(ctx, &load)
		s.logger.Info().
			Int("bookings", len(load.Bookings)).
			Int("users", len(load.Users)).
			Int("destinations", len(load.Destinations)).
			Msg("hydrated from gateway")
	} else {
		for _, err := range errs {
			if err != nil {
				s.logger.Warn().Err(err).Msg("gateway hydration failed, falling back to local cache")
				break
			}
		}
		s.loadFromShim(ctx, &load)
	}

	s.Dispatch(load)
}

// loadFromShim reads every cached collection, defaulting to the
// bundled lists (or the pre-hydration snapshot) where no value exists
// or the cached value does not parse.
func (s *Store) loadFromShim(ctx context.Context, load *BulkLoad) {
	current := s.Snapshot()

	bookings := []models.Booking{}
	s.readSection(ctx, KeyBookings, &bookings)
	load.Bookings = bookings

	destinations := current.Destinations.Values()
	s.readSection(ctx, KeyDestinations, &destinations)
	if len(destinations) == 0 {
		destinations = models.DefaultDestinations()
	}
	load.Destinations = destinations

	users := []models.UserRecord{}
	s.readSection(ctx, KeyUsers, &users)
	load.Users = users

	s.loadLocalSections(ctx, load)
}

// loadLocalSections reads the sections only the shim holds. Tours and
// settings are admin-editable and never served by the gateway, so a
// healthy restart must not revert them to the bundled defaults.
func (s *Store) loadLocalSections(ctx context.Context, load *BulkLoad) {
	current := s.Snapshot()

	tours := current.Tours.Values()
	s.readSection(ctx, KeyTours, &tours)
	load.Tours = emptyNotNil(tours)

	settings := current.Settings
	s.readSection(ctx, KeySettings, &settings)
	load.Settings = &settings
}

// cachedSession returns the shim-cached session, or nil when absent or
// unreadable.
func (s *Store) cachedSession(ctx context.Context) *models.Session {
	raw, ok, err := s.shim.Get(ctx, KeySession)
	if err != nil || !ok {
		return nil
	}
	var session *models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable cached session")
		return nil
	}
	return session
}

// readSection overwrites dst with the cached value for key when one
// exists and parses; otherwise dst keeps its prior (default) content.
func (s *Store) readSection(ctx context.Context, key string, dst interface{}) {
	raw, ok, err := s.shim.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("shim read failed")
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached section")
	}
}

func emptyNotNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
