// Package auth manages the current-user session and the persisted user
// table. Login against an unknown email can auto-register the account, a
// deliberate frictionless-signup behaviour of the product; it is gated by
// Config.AutoRegister rather than hard-coded.
package auth

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"musicbox/internal/kvstore"
)

const (
	usersKey        = "usuarios"
	sessionUserKey  = "user"
	lastLoginKey    = "lastLogin"
	lastPlaylistKey = "lastPlaylist"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Config struct {
	// AutoRegister makes Login create an account when the email is unknown.
	AutoRegister bool
}

type Store struct {
	persistent kvstore.Store
	session    kvstore.Store
	cfg        Config

	mu      sync.Mutex
	status  Status
	user    *SessionUser
	lastErr string
}

// NewStore builds the auth store and restores any user the session
// namespace still holds from a previous page load.
func NewStore(persistent, session kvstore.Store, cfg Config) *Store {
	s := &Store{
		persistent: persistent,
		session:    session,
		cfg:        cfg,
		status:     StatusLoggedOut,
	}
	var u SessionUser
	if session.Get(context.Background(), sessionUserKey, &u) {
		s.user = &u
		s.status = StatusLoggedIn
	}
	return s
}

// Login validates the credentials locally, then checks the persisted user
// table. Unknown emails are auto-registered when configured. Exactly one
// persisted user ends up with logado=true.
func (s *Store) Login(ctx context.Context, email, password string) (SessionUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validate(email, password); err != nil {
		return SessionUser{}, s.fail(err)
	}

	var users []User
	s.persistent.Get(ctx, usersKey, &users)

	idx := findByEmail(users, email)
	if idx == -1 {
		if !s.cfg.AutoRegister {
			return SessionUser{}, s.fail(ErrUserNotFound)
		}
		return s.createAndLogin(ctx, users, email, password, localPart(email))
	}

	if users[idx].Password != password {
		return SessionUser{}, s.fail(ErrIncorrectPassword)
	}

	for i := range users {
		users[i].LoggedIn = i == idx
	}
	s.persistent.Set(ctx, usersKey, users)

	return s.openSession(ctx, users[idx])
}

// Register creates an account explicitly; duplicate emails are rejected.
func (s *Store) Register(ctx context.Context, email, password, name string) (SessionUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validate(email, password); err != nil {
		return SessionUser{}, s.fail(err)
	}

	var users []User
	s.persistent.Get(ctx, usersKey, &users)

	if findByEmail(users, email) != -1 {
		return SessionUser{}, s.fail(ErrEmailAlreadyExists)
	}

	if name == "" {
		name = localPart(email)
	}
	return s.createAndLogin(ctx, users, email, password, name)
}

// Logout clears the session namespace keys and flips logado=false on every
// persisted user record.
func (s *Store) Logout(ctx context.Context) {
	s.session.Remove(ctx, sessionUserKey)
	s.session.Remove(ctx, lastPlaylistKey)
	s.session.Remove(ctx, lastLoginKey)

	var users []User
	if s.persistent.Get(ctx, usersKey, &users) {
		for i := range users {
			users[i].LoggedIn = false
		}
		s.persistent.Set(ctx, usersKey, users)
	}

	s.mu.Lock()
	s.status = StatusLoggedOut
	s.user = nil
	s.lastErr = ""
	s.mu.Unlock()
}

// Current returns the session user, if any.
func (s *Store) Current() (SessionUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return SessionUser{}, false
	}
	return *s.user, true
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError is the reason of the most recent failed login attempt, empty
// after a successful one.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetLastPlaylist remembers the playlist the user was on, session-scoped.
func (s *Store) SetLastPlaylist(ctx context.Context, playlistID string) {
	s.session.Set(ctx, lastPlaylistKey, playlistID)
}

func (s *Store) LastPlaylist(ctx context.Context) (string, bool) {
	var id string
	ok := s.session.Get(ctx, lastPlaylistKey, &id)
	return id, ok
}

func (s *Store) createAndLogin(ctx context.Context, users []User, email, password, name string) (SessionUser, error) {
	now := time.Now().UTC()
	newUser := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		LoggedIn:  true,
	}
	for i := range users {
		users[i].LoggedIn = false
	}
	users = append(users, newUser)
	s.persistent.Set(ctx, usersKey, users)

	return s.openSession(ctx, newUser)
}

func (s *Store) openSession(ctx context.Context, u User) (SessionUser, error) {
	now := time.Now().UTC()
	su := SessionUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		LastLogin: now,
	}

	// a fresh login must not inherit the previous user's selection
	s.session.Remove(ctx, lastPlaylistKey)
	s.session.Set(ctx, sessionUserKey, su)
	s.session.Set(ctx, lastLoginKey, now.Format(time.RFC3339))

	s.mu.Lock()
	s.status = StatusLoggedIn
	s.user = &su
	s.lastErr = ""
	s.mu.Unlock()
	return su, nil
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.status = StatusLoginFailed
	s.lastErr = err.Error()
	s.mu.Unlock()
	return err
}

func validate(email, password string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}

func findByEmail(users []User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
