package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleAgent    = "agent"
	RoleReferrer = "referrer"
	RoleUser     = "user"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAgent, RoleReferrer, RoleUser:
		return true
	}
	return false
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("username already exists")
var ErrSelfDelete = errors.New("cannot delete the currently authenticated user")
var ErrAdminDeletesAdmin = errors.New("an admin cannot delete another admin")

// ReferencedError is returned when a user still owns properties or clients.
// It carries the title/name of the first entity blocking the deletion.
type ReferencedError struct {
	Kind     string // "property" or "client"
	Blocking string
}

func (e *ReferencedError) Error() string {
	return "user is still assigned to " + e.Kind + " \"" + e.Blocking + "\""
}

// User models an account in the system: back-office admins, sales agents,
// external referrers, and plain portal users.
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Username       string    `json:"username" bson:"username"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	Role           string    `json:"role" bson:"role"`
	Name           string    `json:"name" bson:"name"`
	CommissionRate float64   `json:"commission_rate,omitempty" bson:"commission_rate,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// Session is the password-stripped projection of a User representing the
// currently authenticated actor. It never carries password material.
type Session struct {
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	CommissionRate float64   `json:"commission_rate,omitempty"`
	LoggedInAt     time.Time `json:"logged_in_at"`
}

// NewSession derives the session record for a user.
func NewSession(u *User, at time.Time) *Session {
	return &Session{
		UserID:         u.ID,
		Username:       u.Username,
		Role:           u.Role,
		Name:           u.Name,
		CommissionRate: u.CommissionRate,
		LoggedInAt:     at,
	}
}
