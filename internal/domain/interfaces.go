package domain

import (
	"context"

	"touristhub/internal/models"
)

// Gateway is the remote document store: per-collection CRUD with
// Gateway-assigned string identifiers. List returns newest-created
// first. Update applies a partial record and returns the merged
// result; Update and Delete fail with a descriptive error when the
// identifier is absent or malformed.
type Gateway interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id string, patch map[string]interface{}) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id string) (string, error)

	CreateUser(ctx context.Context, user *models.UserRecord) (*models.UserRecord, error)
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
	UpdateUser(ctx context.Context, id string, patch map[string]interface{}) (*models.UserRecord, error)
	DeleteUser(ctx context.Context, id string) (string, error)

	CreateDestination(ctx context.Context, dest *models.Destination) (*models.Destination, error)
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	UpdateDestination(ctx context.Context, id string, patch map[string]interface{}) (*models.Destination, error)
	DeleteDestination(ctx context.Context, id string) (string, error)
}

// AuthGateway is the external authentication provider. SignUp also
// ensures a directory UserRecord exists for the email. SessionEvents
// delivers the current identity, or nil on sign-out, push-style.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*models.Session, error)
	SignOut(ctx context.Context) error
	SessionEvents() <-chan *models.Session
}

// Shim is the local key/value fallback cache. It is advisory only:
// consulted at startup when the Gateway is unreachable, overwritten on
// every state change, never the source of truth.
type Shim interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// EventPublisher publishes JSON domain events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker schedules background pushes of the current report to the
// configured sink.
type SyncWorker interface {
	EnqueueReportSync(ctx context.Context, reason string) error
}
