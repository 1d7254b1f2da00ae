package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"touristhub/internal/config"
	"touristhub/internal/models"
	"touristhub/internal/shim"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newHTTPGatewayFixture(t *testing.T, handler http.Handler) *HTTPGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zerolog.New(io.Discard)
	return NewHTTPGateway(server.URL, "test-key", time.Second, &logger)
}

func TestHTTPGatewayCollections(t *testing.T) {
	ctx := context.Background()

	t.Run("create posts the record with the api key", func(t *testing.T) {
		var gotKey string
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-Api-Key")
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/collections/bookings", r.URL.Path)

			var booking models.Booking
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&booking))
			booking.ID = "remote-1"
			_ = json.NewEncoder(w).Encode(booking)
		}))

		created, err := gw.CreateBooking(ctx, &models.Booking{TourName: "Beach Paradise", Guests: 2})
		assert.NoError(t, err)
		assert.Equal(t, "remote-1", created.ID)
		assert.Equal(t, "test-key", gotKey)
	})

	t.Run("error payloads surface the message", func(t *testing.T) {
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "booking ghost not found"})
		}))

		_, err := gw.UpdateBooking(ctx, "ghost", map[string]interface{}{"status": models.StatusConfirmed})
		assert.ErrorContains(t, err, "booking ghost not found")
	})

	t.Run("malformed id never reaches the wire", func(t *testing.T) {
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		}))

		_, err := gw.UpdateBooking(ctx, "   ", nil)
		assert.Error(t, err)
		_, err = gw.DeleteBooking(ctx, "")
		assert.Error(t, err)
	})

	t.Run("nil remote list comes back empty", func(t *testing.T) {
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		}))

		listed, err := gw.ListBookings(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, listed)
		assert.Empty(t, listed)
	})
}

func TestHTTPGatewayListCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := shim.NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	calls := 0
	gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method == http.MethodPost {
			var dest models.Destination
			_ = json.NewDecoder(r.Body).Decode(&dest)
			dest.ID = "d2"
			_ = json.NewEncoder(w).Encode(dest)
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Destination{{ID: "d1", Name: "Fjords"}})
	}))
	gw.UseRedisCache(client, time.Minute)

	first, err := gw.ListDestinations(ctx)
	assert.NoError(t, err)
	second, err := gw.ListDestinations(ctx)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second list must be served from cache")

	// A mutation drops the cached list.
	_, err = gw.CreateDestination(ctx, &models.Destination{Name: "Reef"})
	assert.NoError(t, err)

	_, err = gw.ListDestinations(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHTTPGatewayAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("sign-in applies the email role rule", func(t *testing.T) {
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/auth/signin", r.URL.Path)
			_ = json.NewEncoder(w).Encode(authResponse{
				Success: true,
				Session: &models.Session{UID: "u1", Email: models.AdminEmail},
			})
		}))

		session, err := gw.SignIn(ctx, models.AdminEmail, "admin123")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, session.Role)
	})

	t.Run("rejected sign-in returns the provider error", func(t *testing.T) {
		gw := newHTTPGatewayFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(authResponse{Success: false, Error: "invalid credentials"})
		}))

		_, err := gw.SignIn(ctx, "x@y.com", "bad")
		assert.ErrorContains(t, err, "invalid credentials")
	})
}
