package store

import (
	"errors"
	"fmt"

	"touristhub/internal/models"
)

// Action is a named, loggable state-transition event. Entity actions
// are built through constructors that validate identifier and field
// presence, so a malformed action can never reach the mirror.
type Action interface {
	Name() string
}

// --- session ---

type SetSession struct{ Session *models.Session }
type ClearSession struct{}
type LoginStart struct{}
type LoginSuccess struct{ Session *models.Session }
type LoginError struct{ Err string }
type RegisterStart struct{}
type RegisterSuccess struct{ Session *models.Session }
type RegisterError struct{ Err string }

func (SetSession) Name() string      { return "set_session" }
func (ClearSession) Name() string    { return "clear_session" }
func (LoginStart) Name() string      { return "login_start" }
func (LoginSuccess) Name() string    { return "login_success" }
func (LoginError) Name() string      { return "login_error" }
func (RegisterStart) Name() string   { return "register_start" }
func (RegisterSuccess) Name() string { return "register_success" }
func (RegisterError) Name() string   { return "register_error" }

// --- bookings ---

type AddBooking struct{ Booking models.Booking }
type UpdateBooking struct{ Booking models.Booking }
type DeleteBooking struct{ ID string }

func (AddBooking) Name() string    { return "add_booking" }
func (UpdateBooking) Name() string { return "update_booking" }
func (DeleteBooking) Name() string { return "delete_booking" }

func validateBooking(b models.Booking) error {
	if b.ID == "" {
		return errors.New("booking id is required")
	}
	if b.TourName == "" {
		return errors.New("booking tour name is required")
	}
	if b.Guests <= 0 {
		return errors.New("booking guests must be positive")
	}
	if !models.ValidStatus(b.Status) {
		return fmt.Errorf("unknown booking status: %q", b.Status)
	}
	return nil
}

// NewAddBooking validates the gateway-issued record before it may
// enter the mirror.
func NewAddBooking(b models.Booking) (AddBooking, error) {
	if err := validateBooking(b); err != nil {
		return AddBooking{}, err
	}
	return AddBooking{Booking: b}, nil
}

func NewUpdateBooking(b models.Booking) (UpdateBooking, error) {
	if err := validateBooking(b); err != nil {
		return UpdateBooking{}, err
	}
	return UpdateBooking{Booking: b}, nil
}

func NewDeleteBooking(id string) (DeleteBooking, error) {
	if id == "" {
		return DeleteBooking{}, errors.New("booking id is required")
	}
	return DeleteBooking{ID: id}, nil
}

// --- tours ---

type AddTour struct{ Tour models.Tour }
type UpdateTour struct{ Tour models.Tour }
type DeleteTour struct{ ID string }

func (AddTour) Name() string    { return "add_tour" }
func (UpdateTour) Name() string { return "update_tour" }
func (DeleteTour) Name() string { return "delete_tour" }

func validateTour(t models.Tour) error {
	if t.ID == "" {
		return errors.New("tour id is required")
	}
	if t.Name == "" {
		return errors.New("tour name is required")
	}
	if t.Price < 0 {
		return errors.New("tour price must not be negative")
	}
	return nil
}

func NewAddTour(t models.Tour) (AddTour, error) {
	if err := validateTour(t); err != nil {
		return AddTour{}, err
	}
	return AddTour{Tour: t}, nil
}

func NewUpdateTour(t models.Tour) (UpdateTour, error) {
	if err := validateTour(t); err != nil {
		return UpdateTour{}, err
	}
	return UpdateTour{Tour: t}, nil
}

func NewDeleteTour(id string) (DeleteTour, error) {
	if id == "" {
		return DeleteTour{}, errors.New("tour id is required")
	}
	return DeleteTour{ID: id}, nil
}

// --- users ---

type AddUser struct{ User models.UserRecord }
type UpdateUser struct{ User models.UserRecord }
type DeleteUser struct{ ID string }

func (AddUser) Name() string    { return "add_user" }
func (UpdateUser) Name() string { return "update_user" }
func (DeleteUser) Name() string { return "delete_user" }

func validateUser(u models.UserRecord) error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	if u.Email == "" {
		return errors.New("user email is required")
	}
	return nil
}

func NewAddUser(u models.UserRecord) (AddUser, error) {
	if err := validateUser(u); err != nil {
		return AddUser{}, err
	}
	return AddUser{User: u}, nil
}

func NewUpdateUser(u models.UserRecord) (UpdateUser, error) {
	if err := validateUser(u); err != nil {
		return UpdateUser{}, err
	}
	return UpdateUser{User: u}, nil
}

func NewDeleteUser(id string) (DeleteUser, error) {
	if id == "" {
		return DeleteUser{}, errors.New("user id is required")
	}
	return DeleteUser{ID: id}, nil
}

// --- destinations ---

type AddDestination struct{ Destination models.Destination }
type UpdateDestination struct{ Destination models.Destination }
type DeleteDestination struct{ ID string }

func (AddDestination) Name() string    { return "add_destination" }
func (UpdateDestination) Name() string { return "update_destination" }
func (DeleteDestination) Name() string { return "delete_destination" }

func validateDestination(d models.Destination) error {
	if d.ID == "" {
		return errors.New("destination id is required")
	}
	if d.Name == "" {
		return errors.New("destination name is required")
	}
	return nil
}

func NewAddDestination(d models.Destination) (AddDestination, error) {
	if err := validateDestination(d); err != nil {
		return AddDestination{}, err
	}
	return AddDestination{Destination: d}, nil
}

func NewUpdateDestination(d models.Destination) (UpdateDestination, error) {
	if err := validateDestination(d); err != nil {
		return UpdateDestination{}, err
	}
	return UpdateDestination{Destination: d}, nil
}

func NewDeleteDestination(id string) (DeleteDestination, error) {
	if id == "" {
		return DeleteDestination{}, errors.New("destination id is required")
	}
	return DeleteDestination{ID: id}, nil
}

// --- settings and notifications ---

// SettingsPatch is a shallow merge into the settings singleton; nil
// fields leave the current value untouched.
type SettingsPatch struct {
	SiteName       *string
	SiteEmail      *string
	SitePhone      *string
	MaxGuests      *int
	AdvanceBooking *int
}

type ReplaceSettings struct{ Patch SettingsPatch }

func (ReplaceSettings) Name() string { return "replace_settings" }

type SetNotification struct{ Notification models.Notification }
type ClearNotification struct{}

func (SetNotification) Name() string   { return "set_notification" }
func (ClearNotification) Name() string { return "clear_notification" }

func NewSetNotification(kind, text string) (SetNotification, error) {
	switch kind {
	case models.NoticeInfo, models.NoticeSuccess, models.NoticeError:
	default:
		return SetNotification{}, fmt.Errorf("unknown notification kind: %q", kind)
	}
	if text == "" {
		return SetNotification{}, errors.New("notification text is required")
	}
	return SetNotification{Notification: models.Notification{Kind: kind, Text: text}}, nil
}

// --- bulk load ---

// BulkLoad shallow-merges a subset of top-level snapshot fields; nil
// fields leave the mirror untouched. Used for hydration and for
// wholesale collection replacement after admin mutations.
type BulkLoad struct {
	Session      *models.Session
	HasSession   bool // distinguishes "leave session alone" from "signed out"
	Bookings     []models.Booking
	Tours        []models.Tour
	Destinations []models.Destination
	Users        []models.UserRecord
	Settings     *models.Settings
}

func (BulkLoad) Name() string { return "bulk_load" }
