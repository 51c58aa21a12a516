package auth

import (
	"errors"
	"time"
)

// User is a persisted account record. The senha field is stored and compared
// in plain text: this is a local demo without real credentials, and the
// persisted shape is part of the product contract.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Password  string    `json:"senha"`
	CreatedAt time.Time `json:"createdAt"`
	LoggedIn  bool      `json:"logado"`
}

// SessionUser is the slimmed record kept in the session namespace; it never
// carries the password.
type SessionUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"nome"`
	LastLogin time.Time `json:"lastLogin"`
}

// Status is the session state machine. Login and Register run synchronously
// inside one call, so there is no observable in-flight state between
// logged_out and logged_in / login_failed.
type Status string

const (
	StatusLoggedOut   Status = "logged_out"
	StatusLoggedIn    Status = "logged_in"
	StatusLoginFailed Status = "login_failed"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)
