package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"touristhub/internal/domain"
	"touristhub/internal/events"
	"touristhub/internal/models"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
)

var (
	ErrNotSignedIn       = errors.New("an active session is required to book")
	ErrDateRequired      = errors.New("a booking date is required")
	ErrUnknownTour       = errors.New("unknown tour")
	ErrTooManyGuests     = errors.New("guest count exceeds the configured maximum")
	ErrInvalidTransition = errors.New("booking status transition not allowed")
)

// SubmitRequest carries the customer booking form.
type SubmitRequest struct {
	TourID          string
	CustomerName    string
	CustomerEmail   string
	Guests          int
	Date            string
	SpecialRequests string
}

// BookingService owns the booking submission flow and the admin
// status transitions. Every mutation goes to the gateway first; the
// mirror only ever holds gateway-issued records.
type BookingService struct {
	gateway  domain.Gateway
	store    *store.Store
	eventBus domain.EventPublisher
	worker   domain.SyncWorker
	logger   *zerolog.Logger
}

func NewBookingService(gateway domain.Gateway, st *store.Store, eventBus domain.EventPublisher, worker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		gateway:  gateway,
		store:    st,
		eventBus: eventBus,
		worker:   worker,
		logger:   logger,
	}
}

// Submit creates a booking: status forced to pending, total price
// fixed at tour unit price × guest count. On gateway failure the
// mirror stays at its pre-call value; nothing was inserted, so
// nothing needs rolling back.
func (s *BookingService) Submit(ctx context.Context, req SubmitRequest) (*models.Booking, error) {
	snapshot := s.store.Snapshot()

	if snapshot.Session == nil {
		notify(s.store, models.NoticeError, "Please sign in to book a tour.")
		return nil, ErrNotSignedIn
	}
	if req.Date == "" {
		notify(s.store, models.NoticeError, "Please select a booking date.")
		return nil, ErrDateRequired
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		notify(s.store, models.NoticeError, "Invalid booking date.")
		return nil, fmt.Errorf("invalid booking date: %w", err)
	}

	tour, ok := snapshot.Tours.Get(req.TourID)
	if !ok {
		notify(s.store, models.NoticeError, "Selected tour is not available.")
		return nil, ErrUnknownTour
	}

	if req.Guests <= 0 {
		notify(s.store, models.NoticeError, "Guest count must be positive.")
		return nil, errors.New("guest count must be positive")
	}
	if max := snapshot.Settings.MaxGuests; max > 0 && req.Guests > max {
		notify(s.store, models.NoticeError, fmt.Sprintf("Bookings are limited to %d guests.", max))
		return nil, ErrTooManyGuests
	}

	customerName := req.CustomerName
	if customerName == "" {
		customerName = snapshot.Session.DisplayName
	}
	customerEmail := req.CustomerEmail
	if customerEmail == "" {
		customerEmail = snapshot.Session.Email
	}

	booking := &models.Booking{
		TourName:        tour.Name,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		Guests:          req.Guests,
		Date:            req.Date,
		SpecialRequests: req.SpecialRequests,
		TotalPrice:      tour.Price * float64(req.Guests),
		Status:          models.StatusPending,
	}

	created, err := s.gateway.CreateBooking(ctx, booking)
	if err != nil {
		s.logger.Error().Err(err).Str("tour", tour.Name).Msg("booking create failed")
		notify(s.store, models.NoticeError, "Booking failed. Please try again.")
		return nil, err
	}

	// The mirror only receives the record carrying the gateway-issued
	// identifier.
	action, err := store.NewAddBooking(*created)
	if err != nil {
		notify(s.store, models.NoticeError, "Booking could not be recorded.")
		return nil, err
	}
	s.store.Dispatch(action)
	notify(s.store, models.NoticeSuccess, "Booking created successfully!")

	s.publishEvent(events.EventBookingCreated, created, "customer")
	s.enqueueSync(ctx, "booking_created")
	return created, nil
}

// Confirm moves a pending booking to confirmed.
func (s *BookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusPending, models.StatusConfirmed, events.EventBookingConfirmed)
}

// Complete moves a confirmed booking to completed.
func (s *BookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.StatusConfirmed, models.StatusCompleted, events.EventBookingCompleted)
}

func (s *BookingService) transition(ctx context.Context, id, from, to, eventType string) error {
	snapshot := s.store.Snapshot()
	booking, ok := snapshot.Bookings.Get(id)
	if !ok {
		notify(s.store, models.NoticeError, "Booking not found.")
		return fmt.Errorf("booking %s not found", id)
	}
	if booking.Status != from {
		notify(s.store, models.NoticeError, fmt.Sprintf("Cannot move a %s booking to %s.", booking.Status, to))
		return ErrInvalidTransition
	}

	updated, err := s.gateway.UpdateBooking(ctx, id, map[string]interface{}{"status": to})
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Str("status", to).Msg("booking update failed")
		notify(s.store, models.NoticeError, "Failed to update booking.")
		return err
	}

	// Replace the whole mirror rather than patching one record, so
	// another admin's concurrent writes show up too.
	if err := s.refreshBookings(ctx); err != nil {
		return err
	}
	notify(s.store, models.NoticeSuccess, fmt.Sprintf("Booking %s.", to))

	s.publishEvent(eventType, updated, "admin")
	s.enqueueSync(ctx, "status_"+to)
	return nil
}

// Delete removes a booking from any status.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	snapshot := s.store.Snapshot()
	booking, ok := snapshot.Bookings.Get(id)
	if !ok {
		notify(s.store, models.NoticeError, "Booking not found.")
		return fmt.Errorf("booking %s not found", id)
	}

	if _, err := s.gateway.DeleteBooking(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("booking delete failed")
		notify(s.store, models.NoticeError, "Failed to delete booking.")
		return err
	}

	if err := s.refreshBookings(ctx); err != nil {
		return err
	}
	notify(s.store, models.NoticeInfo, "Booking deleted.")

	s.publishEvent(events.EventBookingDeleted, &booking, "admin")
	s.enqueueSync(ctx, "booking_deleted")
	return nil
}

// refreshBookings re-fetches the entire collection and swaps the
// mirror wholesale.
func (s *BookingService) refreshBookings(ctx context.Context) error {
	bookings, err := s.gateway.ListBookings(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("booking refetch failed")
		notify(s.store, models.NoticeError, "Failed to refresh bookings.")
		return err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	s.store.Dispatch(store.BulkLoad{Bookings: bookings})
	return nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		TourName:      booking.TourName,
		CustomerEmail: booking.CustomerEmail,
		Guests:        booking.Guests,
		TotalPrice:    booking.TotalPrice,
		Status:        booking.Status,
		Date:          booking.Date,
		ChangedBy:     changedBy,
		OccurredAt:    time.Now(),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, reason string) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueReportSync(ctx, reason); err != nil {
		s.logger.Error().Err(err).Str("reason", reason).Msg("report sync enqueue error")
	}
}
