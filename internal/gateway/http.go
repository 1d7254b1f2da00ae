package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"touristhub/internal/metrics"
	"touristhub/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// HTTPGateway talks JSON over HTTP to the managed document store and
// auth provider. There is deliberately no retry layer: every failed
// call is terminal for that one action and is surfaced to the caller.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration

	events       chan *models.Session
	pollInterval time.Duration
	lastUID      string
}

func NewHTTPGateway(baseURL, apiKey string, pollInterval time.Duration, logger *zerolog.Logger) *HTTPGateway {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &HTTPGateway{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
		events:       make(chan *models.Session, 16),
		pollInterval: pollInterval,
	}
}

// UseRedisCache configures optional read-through caching for list
// calls. Mutations invalidate the collection's cache entry.
func (g *HTTPGateway) UseRedisCache(client *redis.Client, ttl time.Duration) {
	g.redis = client
	g.cacheTTL = ttl
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("X-Api-Key", g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("gateway: %s", apiErr.Error)
		}
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *HTTPGateway) readCache(ctx context.Context, key string, out interface{}) bool {
	if g.redis == nil {
		return false
	}
	raw, err := g.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (g *HTTPGateway) writeCache(ctx context.Context, key string, value interface{}) {
	if g.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := g.redis.Set(ctx, key, raw, g.cacheTTL).Err(); err != nil {
		g.logger.Debug().Err(err).Str("key", key).Msg("cache write skipped")
	}
}

func (g *HTTPGateway) dropCache(ctx context.Context, key string) {
	if g.redis == nil {
		return
	}
	_ = g.redis.Del(ctx, key).Err()
}

// create/list/update/remove implement the per-collection contract once;
// the typed methods below bind them to their record types.

func create[T any](g *HTTPGateway, ctx context.Context, collection string, record *T) (*T, error) {
	var created T
	err := g.do(ctx, http.MethodPost, "/api/v1/collections/"+collection, record, &created)
	g.count(collection, "create", err)
	if err != nil {
		return nil, err
	}
	g.dropCache(ctx, "gateway:"+collection)
	return &created, nil
}

func list[T any](g *HTTPGateway, ctx context.Context, collection string) ([]T, error) {
	cacheKey := "gateway:" + collection
	var records []T
	if g.readCache(ctx, cacheKey, &records) {
		return records, nil
	}

	err := g.do(ctx, http.MethodGet, "/api/v1/collections/"+collection, nil, &records)
	g.count(collection, "list", err)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	g.writeCache(ctx, cacheKey, records)
	return records, nil
}

func update[T any](g *HTTPGateway, ctx context.Context, collection, id string, patch map[string]interface{}) (*T, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var merged T
	err := g.do(ctx, http.MethodPatch, "/api/v1/collections/"+collection+"/"+url.PathEscape(id), patch, &merged)
	g.count(collection, "update", err)
	if err != nil {
		return nil, err
	}
	g.dropCache(ctx, "gateway:"+collection)
	return &merged, nil
}

func remove(g *HTTPGateway, ctx context.Context, collection, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	err := g.do(ctx, http.MethodDelete, "/api/v1/collections/"+collection+"/"+url.PathEscape(id), nil, nil)
	g.count(collection, "delete", err)
	if err != nil {
		return "", err
	}
	g.dropCache(ctx, "gateway:"+collection)
	return id, nil
}

func (g *HTTPGateway) count(collection, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.IncGateway(collection, operation, outcome)
}

func (g *HTTPGateway) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	return create(g, ctx, "bookings", booking)
}

func (g *HTTPGateway) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return list[models.Booking](g, ctx, "bookings")
}

func (g *HTTPGateway) UpdateBooking(ctx context.Context, id string, patch map[string]interface{}) (*models.Booking, error) {
	return update[models.Booking](g, ctx, "bookings", id, patch)
}

func (g *HTTPGateway) DeleteBooking(ctx context.Context, id string) (string, error) {
	return remove(g, ctx, "bookings", id)
}

func (g *HTTPGateway) CreateUser(ctx context.Context, user *models.UserRecord) (*models.UserRecord, error) {
	return create(g, ctx, "users", user)
}

func (g *HTTPGateway) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	return list[models.UserRecord](g, ctx, "users")
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, id string, patch map[string]interface{}) (*models.UserRecord, error) {
	return update[models.UserRecord](g, ctx, "users", id, patch)
}

func (g *HTTPGateway) DeleteUser(ctx context.Context, id string) (string, error) {
	return remove(g, ctx, "users", id)
}

func (g *HTTPGateway) CreateDestination(ctx context.Context, dest *models.Destination) (*models.Destination, error) {
	return create(g, ctx, "destinations", dest)
}

func (g *HTTPGateway) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	return list[models.Destination](g, ctx, "destinations")
}

func (g *HTTPGateway) UpdateDestination(ctx context.Context, id string, patch map[string]interface{}) (*models.Destination, error) {
	return update[models.Destination](g, ctx, "destinations", id, patch)
}

func (g *HTTPGateway) DeleteDestination(ctx context.Context, id string) (string, error) {
	return remove(g, ctx, "destinations", id)
}

// --- auth ---

type authRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type authResponse struct {
	Success bool            `json:"success"`
	Session *models.Session `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (g *HTTPGateway) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var resp authResponse
	if err := g.do(ctx, http.MethodPost, "/api/v1/auth/signin", authRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Session == nil {
		return nil, fmt.Errorf("sign-in rejected: %s", resp.Error)
	}
	resp.Session.Role = models.RoleForEmail(resp.Session.Email)
	return resp.Session, nil
}

func (g *HTTPGateway) SignUp(ctx context.Context, email, password, firstName, lastName string) (*models.Session, error) {
	req := authRequest{Email: email, Password: password, FirstName: firstName, LastName: lastName}
	var resp authResponse
	if err := g.do(ctx, http.MethodPost, "/api/v1/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Session == nil {
		return nil, fmt.Errorf("sign-up rejected: %s", resp.Error)
	}
	resp.Session.Role = models.RoleForEmail(resp.Session.Email)
	return resp.Session, nil
}

func (g *HTTPGateway) SignOut(ctx context.Context) error {
	var resp authResponse
	if err := g.do(ctx, http.MethodPost, "/api/v1/auth/signout", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("sign-out rejected: %s", resp.Error)
	}
	return nil
}

func (g *HTTPGateway) SessionEvents() <-chan *models.Session {
	return g.events
}

// StartSessionWatch polls the provider's session endpoint and turns
// changes into push events. The provider has no streaming surface, so
// polling stands in for its onAuthStateChanged subscription.
func (g *HTTPGateway) StartSessionWatch(ctx context.Context) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.pollSession(ctx)
		}
	}
}

func (g *HTTPGateway) pollSession(ctx context.Context) {
	var session *models.Session
	if err := g.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &session); err != nil {
		g.logger.Debug().Err(err).Msg("session poll failed")
		return
	}

	uid := ""
	if session != nil {
		session.Role = models.RoleForEmail(session.Email)
		uid = session.UID
	}
	if uid == g.lastUID {
		return
	}
	g.lastUID = uid

	select {
	case g.events <- session:
	default:
	}
}
