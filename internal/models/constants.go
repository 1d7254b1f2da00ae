package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeError   = "error"
)

const (
	// AdminEmail is the one account the auth provider treats as admin.
	AdminEmail = "admin@touristhub.com"

	// NotificationTTLSeconds lifetime of a notification before auto-clear
	NotificationTTLSeconds = 5

	// DefaultMaxGuests maximum guests on a single booking
	DefaultMaxGuests = 20

	// DefaultAdvanceBookingDays advance-booking window
	DefaultAdvanceBookingDays = 30

	// WorkerQueueSize report sync worker queue size
	WorkerQueueSize = 1000
)

// RoleForEmail derives the session role from the account email.
func RoleForEmail(email string) string {
	if email == AdminEmail {
		return RoleAdmin
	}
	return RoleUser
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
