package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"touristhub/internal/config"
	"touristhub/internal/events"
	"touristhub/internal/gateway"
	"touristhub/internal/models"
	"touristhub/internal/service"
	"touristhub/internal/shim"
	"touristhub/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fixture struct {
	server *HTTPServer
	store  *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.New(io.Discard)
	cfg := &config.Config{}
	cfg.App.Name = "touristhub"
	cfg.Exports.Path = t.TempDir()

	st := store.New(
		store.InitialSnapshot(models.DefaultTours(), models.DefaultDestinations(), models.DefaultSettings()),
		shim.NewMemoryShim(),
		&logger,
	)
	gw := gateway.NewMemoryGateway()
	bus := events.NewEventBus()

	srv := NewHTTPServer(
		cfg,
		st,
		service.NewAuthService(gw, st, bus, &logger),
		service.NewBookingService(gw, st, bus, nil, &logger),
		service.NewCatalogService(gw, st, &logger),
		service.NewUserService(gw, st, &logger),
		&logger,
	)
	return &fixture{server: srv, store: st}
}

func (f *fixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	rec := f.request(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    models.AdminEmail,
		"password": "admin123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.request(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("login round-trip", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)

		session := f.store.Snapshot().Session
		assert.NotNil(t, session)
		assert.Equal(t, models.RoleAdmin, session.Role)

		rec := f.request(t, http.MethodPost, "/api/v1/auth/logout", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, f.store.Snapshot().Session)
	})

	t.Run("bad credentials yield 401", func(t *testing.T) {
		f := newFixture(t)
		rec := f.request(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    models.AdminEmail,
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("register creates a session", func(t *testing.T) {
		f := newFixture(t)
		rec := f.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"firstName": "Jane",
			"lastName":  "Doe",
			"email":     "jane@example.com",
			"password":  "secret",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "jane@example.com", f.store.Snapshot().Session.Email)
	})

	t.Run("missing fields yield 400", func(t *testing.T) {
		f := newFixture(t)
		rec := f.request(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "x@y.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingEndpoints(t *testing.T) {
	submit := func(t *testing.T, f *fixture) string {
		rec := f.request(t, http.MethodPost, "/api/v1/bookings", map[string]any{
			"tourId": "tour-3",
			"guests": 3,
			"date":   "2026-10-01",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		booking := decode(t, rec)["booking"].(map[string]any)
		assert.Equal(t, "pending", booking["status"])
		assert.InDelta(t, 1197.0, booking["totalPrice"].(float64), 0.001)
		return booking["id"].(string)
	}

	t.Run("anonymous submission is rejected", func(t *testing.T) {
		f := newFixture(t)
		rec := f.request(t, http.MethodPost, "/api/v1/bookings", map[string]any{
			"tourId": "tour-1", "guests": 1, "date": "2026-10-01",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("full lifecycle", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)
		id := submit(t, f)

		rec := f.request(t, http.MethodPost, "/api/v1/bookings/"+id+"/confirm", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.request(t, http.MethodPost, "/api/v1/bookings/"+id+"/complete", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		got, _ := f.store.Snapshot().Bookings.Get(id)
		assert.Equal(t, models.StatusCompleted, got.Status)

		rec = f.request(t, http.MethodDelete, "/api/v1/bookings/"+id, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, f.store.Snapshot().Bookings.Has(id))
	})

	t.Run("skipping a step yields 409", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)
		id := submit(t, f)

		rec := f.request(t, http.MethodPost, "/api/v1/bookings/"+id+"/complete", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("non-admin cannot transition", func(t *testing.T) {
		f := newFixture(t)
		rec := f.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
			"email": "jane@example.com", "password": "secret",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		id := submit(t, f)

		rec = f.request(t, http.MethodPost, "/api/v1/bookings/"+id+"/confirm", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	t.Run("tours are public to read, admin to write", func(t *testing.T) {
		f := newFixture(t)

		rec := f.request(t, http.MethodGet, "/api/v1/tours", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["tours"], 3)

		rec = f.request(t, http.MethodPost, "/api/v1/tours", map[string]any{"name": "City Lights", "price": 250})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		f.loginAdmin(t)
		rec = f.request(t, http.MethodPost, "/api/v1/tours", map[string]any{"name": "City Lights", "price": 250})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 4, f.store.Snapshot().Tours.Len())
	})

	t.Run("destination crud", func(t *testing.T) {
		f := newFixture(t)
		f.loginAdmin(t)

		rec := f.request(t, http.MethodPost, "/api/v1/destinations", map[string]any{"name": "Fjords"})
		assert.Equal(t, http.StatusCreated, rec.Code)
		id := decode(t, rec)["destination"].(map[string]any)["id"].(string)

		rec = f.request(t, http.MethodPut, "/api/v1/destinations/"+id, map[string]any{"rating": 4.5})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.request(t, http.MethodDelete, "/api/v1/destinations/"+id, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, f.store.Snapshot().Destinations.Has(id))
	})
}

func TestSettingsEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/v1/settings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodPut, "/api/v1/settings", map[string]any{"maxGuests": 8})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.loginAdmin(t)
	rec = f.request(t, http.MethodPut, "/api/v1/settings", map[string]any{"maxGuests": 8})
	assert.Equal(t, http.StatusOK, rec.Code)

	snap := f.store.Snapshot()
	assert.Equal(t, 8, snap.Settings.MaxGuests)
	assert.Equal(t, "TouristHub", snap.Settings.SiteName)

	rec = f.request(t, http.MethodPut, "/api/v1/settings", map[string]any{"maxGuests": -3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.request(t, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.loginAdmin(t)

	rec = f.request(t, http.MethodPost, "/api/v1/users", map[string]any{
		"firstName": "Jane", "email": "jane@example.com",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["user"].(map[string]any)["id"].(string)

	rec = f.request(t, http.MethodPut, "/api/v1/users/"+id, map[string]any{"firstName": "Janet"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(t, http.MethodDelete, "/api/v1/users/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.store.Snapshot().Users.Has(id))
}

func TestReportEndpoints(t *testing.T) {
	f := newFixture(t)
	f.loginAdmin(t)

	rec := f.request(t, http.MethodPost, "/api/v1/bookings", map[string]any{
		"tourId": "tour-3", "guests": 2, "date": "2026-10-01",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/v1/reports", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["totalBookings"])
	assert.InDelta(t, 798.0, body["totalRevenue"].(float64), 0.001)

	rec = f.request(t, http.MethodPost, "/api/v1/reports/export", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["file"])
}

func TestStateEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.request(t, http.MethodGet, "/api/v1/state", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["tours"], 3)
	assert.Len(t, body["destinations"], 3)
	assert.Nil(t, body["session"])
}
