package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"touristhub/internal/models"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process document store and auth provider,
// used in local mode and in tests. Identifiers are opaque UUIDs
// assigned on create; lists come back newest-created first, matching
// the remote contract.
type MemoryGateway struct {
	mu           sync.RWMutex
	bookings     []models.Booking
	users        []models.UserRecord
	destinations []models.Destination
	accounts     map[string]account
	session      *models.Session
	events       chan *models.Session
}

type account struct {
	password  string
	firstName string
	lastName  string
}

func NewMemoryGateway() *MemoryGateway {
	g := &MemoryGateway{
		accounts: make(map[string]account),
		events:   make(chan *models.Session, 16),
	}

	// The managed backend ships with one admin account.
	g.accounts[models.AdminEmail] = account{password: "admin123", firstName: "Admin", lastName: "User"}
	g.users = append(g.users, models.UserRecord{
		ID:        uuid.NewString(),
		FirstName: "Admin",
		LastName:  "User",
		Email:     models.AdminEmail,
		Role:      models.RoleAdmin,
		JoinDate:  time.Now().Format("2006-01-02"),
		CreatedAt: time.Now(),
	})

	return g
}

// applyPatch merges a partial record into an existing one through
// JSON, mirroring how the document store merges update payloads.
func applyPatch(record interface{}, patch map[string]interface{}) error {
	base, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var merged map[string]interface{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return err
	}
	for key, value := range patch {
		merged[key] = value
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, record)
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("malformed identifier: %q", id)
	}
	return nil
}

// newestFirst returns a reversed copy: records are stored in creation
// order, listed newest first.
func newestFirst[T any](records []T) []T {
	out := make([]T, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		out = append(out, records[i])
	}
	return out
}

// --- bookings ---

func (g *MemoryGateway) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	created := *booking
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	g.bookings = append(g.bookings, created)
	return &created, nil
}

func (g *MemoryGateway) ListBookings(ctx context.Context) ([]models.Booking, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return newestFirst(g.bookings), nil
}

func (g *MemoryGateway) UpdateBooking(ctx context.Context, id string, patch map[string]interface{}) (*models.Booking, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.bookings {
		if g.bookings[i].ID == id {
			if err := applyPatch(&g.bookings[i], patch); err != nil {
				return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
			}
			g.bookings[i].ID = id
			g.bookings[i].UpdatedAt = time.Now()
			merged := g.bookings[i]
			return &merged, nil
		}
	}
	return nil, fmt.Errorf("booking %s not found", id)
}

func (g *MemoryGateway) DeleteBooking(ctx context.Context, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.bookings {
		if g.bookings[i].ID == id {
			g.bookings = append(g.bookings[:i], g.bookings[i+1:]...)
			return id, nil
		}
	}
	return "", fmt.Errorf("booking %s not found", id)
}

// --- users ---

func (g *MemoryGateway) CreateUser(ctx context.Context, user *models.UserRecord) (*models.UserRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createUserLocked(user), nil
}

func (g *MemoryGateway) createUserLocked(user *models.UserRecord) *models.UserRecord {
	created := *user
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	g.users = append(g.users, created)
	return &created
}

func (g *MemoryGateway) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return newestFirst(g.users), nil
}

func (g *MemoryGateway) UpdateUser(ctx context.Context, id string, patch map[string]interface{}) (*models.UserRecord, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.users {
		if g.users[i].ID == id {
			if err := applyPatch(&g.users[i], patch); err != nil {
				return nil, fmt.Errorf("failed to update user %s: %w", id, err)
			}
			g.users[i].ID = id
			g.users[i].UpdatedAt = time.Now()
			merged := g.users[i]
			return &merged, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", id)
}

func (g *MemoryGateway) DeleteUser(ctx context.Context, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.users {
		if g.users[i].ID == id {
			g.users = append(g.users[:i], g.users[i+1:]...)
			return id, nil
		}
	}
	return "", fmt.Errorf("user %s not found", id)
}

// --- destinations ---

func (g *MemoryGateway) CreateDestination(ctx context.Context, dest *models.Destination) (*models.Destination, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	created := *dest
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	g.destinations = append(g.destinations, created)
	return &created, nil
}

func (g *MemoryGateway) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return newestFirst(g.destinations), nil
}

func (g *MemoryGateway) UpdateDestination(ctx context.Context, id string, patch map[string]interface{}) (*models.Destination, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.destinations {
		if g.destinations[i].ID == id {
			if err := applyPatch(&g.destinations[i], patch); err != nil {
				return nil, fmt.Errorf("failed to update destination %s: %w", id, err)
			}
			g.destinations[i].ID = id
			g.destinations[i].UpdatedAt = time.Now()
			merged := g.destinations[i]
			return &merged, nil
		}
	}
	return nil, fmt.Errorf("destination %s not found", id)
}

func (g *MemoryGateway) DeleteDestination(ctx context.Context, id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.destinations {
		if g.destinations[i].ID == id {
			g.destinations = append(g.destinations[:i], g.destinations[i+1:]...)
			return id, nil
		}
	}
	return "", fmt.Errorf("destination %s not found", id)
}

// --- auth ---

func (g *MemoryGateway) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, ok := g.accounts[email]
	if !ok || acc.password != password {
		return nil, fmt.Errorf("invalid email or password")
	}

	session := &models.Session{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(acc.firstName + " " + acc.lastName),
		FirstName:   acc.firstName,
		LastName:    acc.lastName,
		Role:        models.RoleForEmail(email),
	}
	g.session = session
	g.pushSessionLocked(session)
	return session, nil
}

func (g *MemoryGateway) SignUp(ctx context.Context, email, password, firstName, lastName string) (*models.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.accounts[email]; exists {
		return nil, fmt.Errorf("account already exists for %s", email)
	}
	g.accounts[email] = account{password: password, firstName: firstName, lastName: lastName}

	// Ensure exactly one directory record per authenticated email.
	found := false
	for _, user := range g.users {
		if user.Email == email {
			found = true
			break
		}
	}
	if !found {
		g.createUserLocked(&models.UserRecord{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Role:      models.RoleForEmail(email),
			JoinDate:  time.Now().Format("2006-01-02"),
		})
	}

	session := &models.Session{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(firstName + " " + lastName),
		FirstName:   firstName,
		LastName:    lastName,
		Role:        models.RoleForEmail(email),
	}
	g.session = session
	g.pushSessionLocked(session)
	return session, nil
}

func (g *MemoryGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = nil
	g.pushSessionLocked(nil)
	return nil
}

// SessionEvents delivers the current identity (or nil) after every
// auth state change.
func (g *MemoryGateway) SessionEvents() <-chan *models.Session {
	return g.events
}

func (g *MemoryGateway) pushSessionLocked(session *models.Session) {
	select {
	case g.events <- session:
	default:
		// A slow consumer drops intermediate events; only the latest
		// session matters.
	}
}
