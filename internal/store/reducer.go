package store

import "touristhub/internal/models"

// Snapshot is the complete application state at one point in time.
// The transition function never mutates a snapshot in place.
type Snapshot struct {
	Session      *models.Session
	Bookings     Collection[models.Booking]
	Tours        Collection[models.Tour]
	Destinations Collection[models.Destination]
	Users        Collection[models.UserRecord]
	Settings     models.Settings
	Notification *models.Notification
	Loading      bool
	AuthError    string
}

// InitialSnapshot builds the pre-hydration state: bundled catalog,
// configured settings, no session, no bookings.
func InitialSnapshot(tours []models.Tour, destinations []models.Destination, settings models.Settings) Snapshot {
	return Snapshot{
		Bookings:     NewCollection(nil, bookingID),
		Tours:        NewCollection(tours, tourID),
		Destinations: NewCollection(destinations, destinationID),
		Users:        NewCollection(nil, userID),
		Settings:     settings,
	}
}

func bookingID(b models.Booking) string         { return b.ID }
func tourID(t models.Tour) string               { return t.ID }
func destinationID(d models.Destination) string { return d.ID }
func userID(u models.UserRecord) string         { return u.ID }

// Reduce is the pure transition function: (snapshot, action) → next
// snapshot. Updates and deletes are keyed by identifier equality;
// unknown identifiers are no-ops rather than mirror corruption.
func Reduce(s Snapshot, action Action) Snapshot {
	switch a := action.(type) {
	case SetSession:
		s.Session = a.Session

	case ClearSession:
		s.Session = nil

	case LoginStart, RegisterStart:
		s.Loading = true
		s.AuthError = ""

	case LoginSuccess:
		s.Session = a.Session
		s.Loading = false
		s.AuthError = ""

	case RegisterSuccess:
		s.Session = a.Session
		s.Loading = false
		s.AuthError = ""

	case LoginError:
		s.Loading = false
		s.AuthError = a.Err

	case RegisterError:
		s.Loading = false
		s.AuthError = a.Err

	case AddBooking:
		bookings := s.Bookings.Clone()
		bookings.Put(a.Booking.ID, a.Booking)
		s.Bookings = bookings

	case UpdateBooking:
		if s.Bookings.Has(a.Booking.ID) {
			bookings := s.Bookings.Clone()
			bookings.Put(a.Booking.ID, a.Booking)
			s.Bookings = bookings
		}

	case DeleteBooking:
		bookings := s.Bookings.Clone()
		bookings.Delete(a.ID)
		s.Bookings = bookings

	case AddTour:
		tours := s.Tours.Clone()
		tours.Put(a.Tour.ID, a.Tour)
		s.Tours = tours

	case UpdateTour:
		if s.Tours.Has(a.Tour.ID) {
			tours := s.Tours.Clone()
			tours.Put(a.Tour.ID, a.Tour)
			s.Tours = tours
		}

	case DeleteTour:
		tours := s.Tours.Clone()
		tours.Delete(a.ID)
		s.Tours = tours

	case AddUser:
		users := s.Users.Clone()
		users.Put(a.User.ID, a.User)
		s.Users = users

	case UpdateUser:
		if s.Users.Has(a.User.ID) {
			users := s.Users.Clone()
			users.Put(a.User.ID, a.User)
			s.Users = users
		}

	case DeleteUser:
		users := s.Users.Clone()
		users.Delete(a.ID)
		s.Users = users

	case AddDestination:
		dests := s.Destinations.Clone()
		dests.Put(a.Destination.ID, a.Destination)
		s.Destinations = dests

	case UpdateDestination:
		if s.Destinations.Has(a.Destination.ID) {
			dests := s.Destinations.Clone()
			dests.Put(a.Destination.ID, a.Destination)
			s.Destinations = dests
		}

	case DeleteDestination:
		dests := s.Destinations.Clone()
		dests.Delete(a.ID)
		s.Destinations = dests

	case ReplaceSettings:
		settings := s.Settings
		if a.Patch.SiteName != nil {
			settings.SiteName = *a.Patch.SiteName
		}
		if a.Patch.SiteEmail != nil {
			settings.SiteEmail = *a.Patch.SiteEmail
		}
		if a.Patch.SitePhone != nil {
			settings.SitePhone = *a.Patch.SitePhone
		}
		if a.Patch.MaxGuests != nil {
			settings.MaxGuests = *a.Patch.MaxGuests
		}
		if a.Patch.AdvanceBooking != nil {
			settings.AdvanceBooking = *a.Patch.AdvanceBooking
		}
		s.Settings = settings

	case SetNotification:
		notification := a.Notification
		s.Notification = &notification

	case ClearNotification:
		s.Notification = nil

	case BulkLoad:
		if a.HasSession {
			s.Session = a.Session
		}
		if a.Bookings != nil {
			s.Bookings = NewCollection(a.Bookings, bookingID)
		}
		if a.Tours != nil {
			s.Tours = NewCollection(a.Tours, tourID)
		}
		if a.Destinations != nil {
			s.Destinations = NewCollection(a.Destinations, destinationID)
		}
		if a.Users != nil {
			s.Users = NewCollection(a.Users, userID)
		}
		if a.Settings != nil {
			s.Settings = *a.Settings
		}
	}

	return s
}
