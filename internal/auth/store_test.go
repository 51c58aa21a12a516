package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musicbox/internal/kvstore"
)

func newTestStore(autoRegister bool) (*Store, *kvstore.MemoryStore, *kvstore.MemoryStore) {
	persistent := kvstore.NewMemoryStore()
	session := kvstore.NewMemoryStore()
	return NewStore(persistent, session, Config{AutoRegister: autoRegister}), persistent, session
}

func persistedUsers(t *testing.T, persistent kvstore.Store) []User {
	t.Helper()
	var users []User
	persistent.Get(context.Background(), usersKey, &users)
	return users
}

func TestLoginAutoRegistersUnknownEmail(t *testing.T) {
	ctx := context.Background()
	s, persistent, session := newTestStore(true)

	su, err := s.Login(ctx, "a@b.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "a", su.Name, "name derives from the email local part")
	assert.Equal(t, StatusLoggedIn, s.Status())

	users := persistedUsers(t, persistent)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.com", users[0].Email)
	assert.Equal(t, "secret1", users[0].Password)
	assert.True(t, users[0].LoggedIn)

	var stored SessionUser
	assert.True(t, session.Get(ctx, sessionUserKey, &stored))
	assert.Equal(t, su.ID, stored.ID)
}

func TestLoginAutoRegisterDisabled(t *testing.T) {
	ctx := context.Background()
	s, persistent, _ := newTestStore(false)

	_, err := s.Login(ctx, "a@b.com", "secret1")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, StatusLoginFailed, s.Status())
	assert.Empty(t, persistedUsers(t, persistent), "no mutation on failed login")
}

func TestLoginExistingUser(t *testing.T) {
	ctx := context.Background()
	s, persistent, _ := newTestStore(true)

	_, err := s.Register(ctx, "ana@b.com", "secret1", "Ana")
	require.NoError(t, err)
	s.Logout(ctx)

	su, err := s.Login(ctx, "ana@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", su.Name)

	users := persistedUsers(t, persistent)
	require.Len(t, users, 1)
	assert.True(t, users[0].LoggedIn)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	s, persistent, _ := newTestStore(true)

	_, err := s.Register(ctx, "ana@b.com", "secret1", "Ana")
	require.NoError(t, err)
	s.Logout(ctx)

	_, err = s.Login(ctx, "ana@b.com", "wrong12")

	assert.ErrorIs(t, err, ErrIncorrectPassword)
	assert.Equal(t, StatusLoginFailed, s.Status())
	assert.Equal(t, ErrIncorrectPassword.Error(), s.LastError())

	users := persistedUsers(t, persistent)
	assert.False(t, users[0].LoggedIn, "failed login must not mark the user")
}

func TestLoginValidationFailsFast(t *testing.T) {
	ctx := context.Background()
	s, persistent, _ := newTestStore(true)

	_, err := s.Login(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = s.Login(ctx, "a@b.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	assert.Empty(t, persistedUsers(t, persistent), "validation failures never touch storage")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(true)

	_, err := s.Register(ctx, "ana@b.com", "secret1", "Ana")
	require.NoError(t, err)

	_, err = s.Register(ctx, "ana@b.com", "other66", "Clone")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAtMostOneUserLoggedIn(t *testing.T) {
	ctx := context.Background()
	s, persistent, _ := newTestStore(true)

	_, err := s.Login(ctx, "first@b.com", "secret1")
	require.NoError(t, err)
	_, err = s.Login(ctx, "second@b.com", "secret2")
	require.NoError(t, err)
	_, err = s.Login(ctx, "first@b.com", "secret1")
	require.NoError(t, err)

	logged := 0
	for _, u := range persistedUsers(t, persistent) {
		if u.LoggedIn {
			logged++
		}
	}
	assert.Equal(t, 1, logged)
}

func TestLogoutClearsSessionAndFlags(t *testing.T) {
	ctx := context.Background()
	s, persistent, session := newTestStore(true)

	_, err := s.Login(ctx, "ana@b.com", "secret1")
	require.NoError(t, err)
	s.SetLastPlaylist(ctx, "pl-1")

	s.Logout(ctx)

	assert.Equal(t, StatusLoggedOut, s.Status())
	_, ok := s.Current()
	assert.False(t, ok)

	var v any
	assert.False(t, session.Get(ctx, sessionUserKey, &v))
	assert.False(t, session.Get(ctx, lastPlaylistKey, &v))
	assert.False(t, session.Get(ctx, lastLoginKey, &v))

	for _, u := range persistedUsers(t, persistent) {
		assert.False(t, u.LoggedIn)
	}
}

func TestFreshLoginResetsLastPlaylist(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(true)

	_, err := s.Login(ctx, "ana@b.com", "secret1")
	require.NoError(t, err)
	s.SetLastPlaylist(ctx, "pl-9")

	_, err = s.Login(ctx, "bob@b.com", "secret2")
	require.NoError(t, err)

	_, ok := s.LastPlaylist(ctx)
	assert.False(t, ok, "a new login must not see the previous user's playlist")
}

func TestSessionRestoredOnStartup(t *testing.T) {
	ctx := context.Background()
	persistent := kvstore.NewMemoryStore()
	session := kvstore.NewMemoryStore()

	first := NewStore(persistent, session, Config{AutoRegister: true})
	_, err := first.Login(ctx, "ana@b.com", "secret1")
	require.NoError(t, err)

	// new process, same session namespace
	second := NewStore(persistent, session, Config{AutoRegister: true})
	su, ok := second.Current()
	assert.True(t, ok)
	assert.Equal(t, "ana@b.com", su.Email)
	assert.Equal(t, StatusLoggedIn, second.Status())
}
