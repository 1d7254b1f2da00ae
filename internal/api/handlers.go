package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"touristhub/internal/models"
	"touristhub/internal/report"
	"touristhub/internal/service"
	"touristhub/internal/store"
)

// --- auth ---

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := s.auth.Login(r.Context(), body.Email, body.Password); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": s.store.Snapshot().Session})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := s.auth.Register(r.Context(), body.FirstName, body.LastName, body.Email, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": s.store.Snapshot().Session})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.auth.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// --- state ---

// handleState returns the full container snapshot the front-end
// renders from.
func (s *HTTPServer) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"session":      snap.Session,
		"bookings":     snap.Bookings.Values(),
		"tours":        snap.Tours.Values(),
		"destinations": snap.Destinations.Values(),
		"users":        snap.Users.Values(),
		"settings":     snap.Settings,
		"notification": snap.Notification,
		"loading":      snap.Loading,
		"authError":    snap.AuthError,
	})
}

// --- bookings ---

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"bookings": s.store.Snapshot().Bookings.Values()})

	case http.MethodPost:
		var body struct {
			TourID          string `json:"tourId"`
			CustomerName    string `json:"customerName"`
			CustomerEmail   string `json:"customerEmail"`
			Guests          int    `json:"guests"`
			Date            string `json:"date"`
			SpecialRequests string `json:"specialRequests"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		created, err := s.bookings.Submit(r.Context(), service.SubmitRequest{
			TourID:          body.TourID,
			CustomerName:    body.CustomerName,
			CustomerEmail:   body.CustomerEmail,
			Guests:          body.Guests,
			Date:            body.Date,
			SpecialRequests: body.SpecialRequests,
		})
		if err != nil {
			writeError(w, bookingErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"booking": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDateRequired),
		errors.Is(err, service.ErrUnknownTour),
		errors.Is(err, service.ErrTooManyGuests):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// handleBookingByID routes /api/v1/bookings/{id}[/confirm|/complete].
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitIDAction(r.URL.Path, "/api/v1/bookings/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	if !s.requireAdmin(w) {
		return
	}

	switch {
	case action == "confirm" && r.Method == http.MethodPost:
		if err := s.bookings.Confirm(r.Context(), id); err != nil {
			writeError(w, bookingErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusConfirmed})

	case action == "complete" && r.Method == http.MethodPost:
		if err := s.bookings.Complete(r.Context(), id); err != nil {
			writeError(w, bookingErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusCompleted})

	case action == "" && r.Method == http.MethodDelete:
		if err := s.bookings.Delete(r.Context(), id); err != nil {
			writeError(w, bookingErrorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- tours ---

func (s *HTTPServer) handleTours(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"tours": s.store.Snapshot().Tours.Values()})

	case http.MethodPost:
		if !s.requireAdmin(w) {
			return
		}
		var tour models.Tour
		if !decodeBody(w, r, &tour) {
			return
		}
		created, err := s.catalog.AddTour(tour)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"tour": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTourByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitIDAction(r.URL.Path, "/api/v1/tours/")
	if id == "" || action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !s.requireAdmin(w) {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var tour models.Tour
		if !decodeBody(w, r, &tour) {
			return
		}
		tour.ID = id
		if err := s.catalog.UpdateTour(tour); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tour": tour})

	case http.MethodDelete:
		if err := s.catalog.DeleteTour(id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- destinations ---

func (s *HTTPServer) handleDestinations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"destinations": s.store.Snapshot().Destinations.Values()})

	case http.MethodPost:
		if !s.requireAdmin(w) {
			return
		}
		var dest models.Destination
		if !decodeBody(w, r, &dest) {
			return
		}
		created, err := s.catalog.AddDestination(r.Context(), dest)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"destination": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleDestinationByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitIDAction(r.URL.Path, "/api/v1/destinations/")
	if id == "" || action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !s.requireAdmin(w) {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var patch map[string]interface{}
		if !decodeBody(w, r, &patch) {
			return
		}
		if err := s.catalog.UpdateDestination(r.Context(), id, patch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})

	case http.MethodDelete:
		if err := s.catalog.DeleteDestination(r.Context(), id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- users ---

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"users": s.store.Snapshot().Users.Values()})

	case http.MethodPost:
		var user models.UserRecord
		if !decodeBody(w, r, &user) {
			return
		}
		if user.Email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}
		created, err := s.users.AddUser(r.Context(), user)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"user": created})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitIDAction(r.URL.Path, "/api/v1/users/")
	if id == "" || action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !s.requireAdmin(w) {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var patch map[string]interface{}
		if !decodeBody(w, r, &patch) {
			return
		}
		if err := s.users.UpdateUser(r.Context(), id, patch); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})

	case http.MethodDelete:
		if err := s.users.DeleteUser(r.Context(), id); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- settings ---

func (s *HTTPServer) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"settings": s.store.Snapshot().Settings})

	case http.MethodPut:
		if !s.requireAdmin(w) {
			return
		}
		var body struct {
			SiteName       *string `json:"siteName"`
			SiteEmail      *string `json:"siteEmail"`
			SitePhone      *string `json:"sitePhone"`
			MaxGuests      *int    `json:"maxGuests"`
			AdvanceBooking *int    `json:"advanceBooking"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.MaxGuests != nil && *body.MaxGuests < 0 {
			writeError(w, http.StatusBadRequest, "maxGuests must not be negative")
			return
		}
		if body.AdvanceBooking != nil && *body.AdvanceBooking < 0 {
			writeError(w, http.StatusBadRequest, "advanceBooking must not be negative")
			return
		}

		s.catalog.ReplaceSettings(store.SettingsPatch{
			SiteName:       body.SiteName,
			SiteEmail:      body.SiteEmail,
			SitePhone:      body.SitePhone,
			MaxGuests:      body.MaxGuests,
			AdvanceBooking: body.AdvanceBooking,
		})
		writeJSON(w, http.StatusOK, map[string]any{"settings": s.store.Snapshot().Settings})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// --- reports ---

func (s *HTTPServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w) {
		return
	}

	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, report.Build(snap.Bookings.Values(), snap.Users.Values(), snap.Tours.Values(), time.Now()))
}

func (s *HTTPServer) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w) {
		return
	}

	snap := s.store.Snapshot()
	rep := report.Build(snap.Bookings.Values(), snap.Users.Values(), snap.Tours.Values(), time.Now())

	filePath, err := report.ExportExcel(rep, s.cfg.Exports.Path)
	if err != nil {
		s.logger.Error().Err(err).Msg("report export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"file": filePath})
}

// --- health ---

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

// splitIDAction extracts "{id}" and an optional trailing "{action}"
// from a prefixed path.
func splitIDAction(path, prefix string) (id, action string) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	parts := strings.SplitN(rest, "/", 2)
	id = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		action = strings.TrimSpace(parts[1])
	}
	return id, action
}
