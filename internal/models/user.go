package models

import "time"

// UserRecord is a directory entry in the remote users collection,
// distinct from the live Session credential. The system keeps one
// record per authenticated email.
type UserRecord struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"` // user, admin
	JoinDate  string    `json:"joinDate"` // YYYY-MM-DD
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Session is the current authenticated identity. Exactly one Session
// exists per running process; nil means signed out.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        string `json:"role"`
}
