package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"touristhub/internal/config"
	"touristhub/internal/metrics"
	"touristhub/internal/service"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking front-end as a JSON API. Every view
// the handlers render comes from the state container; mutations go
// through the services, which keep the container and the remote
// gateway in step.
type HTTPServer struct {
	cfg      *config.Config
	store    *store.Store
	auth     *service.AuthService
	bookings *service.BookingService
	catalog  *service.CatalogService
	users    *service.UserService
	limiter  *rateLimiter
	server   *http.Server
	logger   *zerolog.Logger
}

func NewHTTPServer(
	cfg *config.Config,
	st *store.Store,
	auth *service.AuthService,
	bookings *service.BookingService,
	catalog *service.CatalogService,
	users *service.UserService,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		store:    st,
		auth:     auth,
		bookings: bookings,
		catalog:  catalog,
		users:    users,
		limiter:  newRateLimiter(cfg.Server.RateLimit),
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/auth/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/auth/logout", srv.handleLogout)

	mux.HandleFunc("/api/v1/state", srv.handleState)

	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)

	mux.HandleFunc("/api/v1/tours", srv.handleTours)
	mux.HandleFunc("/api/v1/tours/", srv.handleTourByID)

	mux.HandleFunc("/api/v1/destinations", srv.handleDestinations)
	mux.HandleFunc("/api/v1/destinations/", srv.handleDestinationByID)

	mux.HandleFunc("/api/v1/users", srv.handleUsers)
	mux.HandleFunc("/api/v1/users/", srv.handleUserByID)

	mux.HandleFunc("/api/v1/settings", srv.handleSettings)

	mux.HandleFunc("/api/v1/reports", srv.handleReport)
	mux.HandleFunc("/api/v1/reports/export", srv.handleReportExport)

	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates the admin console endpoints on the live session.
func (s *HTTPServer) requireAdmin(w http.ResponseWriter) bool {
	session := s.store.Snapshot().Session
	if session == nil {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return false
	}
	if session.Role != "admin" {
		writeError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
