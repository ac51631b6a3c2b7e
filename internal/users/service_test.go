package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-notification-service/internal/apperr"
	"github.com/i474232898/weather-notification-service/internal/auth"
	"github.com/i474232898/weather-notification-service/internal/store"
)

func newTestService(t *testing.T) (*Service, *memStore, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", "HS256", 30*time.Minute, nil)
	require.NoError(t, err)
	st := newMemStore()
	return NewService(st, tokens), st, tokens
}

func signup(t *testing.T, svc *Service, name string) *store.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupInput{Username: name, Email: name + "@x.com", Password: "password123"})
	require.NoError(t, err)
	return u
}

func TestSignupHashesPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	u := signup(t, svc, "alice")

	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, auth.CheckPassword("password123", u.PasswordHash))
	assert.Nil(t, u.Location)
}

func TestSignupDuplicateEmailIsConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Username: "alice2", Email: "a@x.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "User already existing", apperr.Message(err, ""))
}

func TestSignupDuplicateUsernameIsConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	signup(t, svc, "alice")
	_, err := svc.Signup(ctx, SignupInput{Username: "alice", Email: "other@x.com", Password: "password123"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()
	signup(t, svc, "alice")

	_, err := svc.Login(ctx, "alice", "wrong-password")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, err = svc.Login(ctx, "nobody", "password123")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	sub, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestAuthenticate(t *testing.T) {
	svc, _, tokens := newTestService(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")

	token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	ghost, err := tokens.IssueDefault("ghost")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestUpdateLocation(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")

	require.NoError(t, svc.UpdateLocation(ctx, alice, alice.ID, 6.5244, 3.3792))

	stored, err := st.ByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Location)
	assert.Equal(t, "lat:6.5244,lon:3.3792", *stored.Location)
	assert.Equal(t, "lat:6.5244,lon:3.3792", *alice.Location)
}

func TestUpdateLocationOfAnotherUserIsUnauthorized(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	alice := signup(t, svc, "alice")
	bobby := signup(t, svc, "bobby")

	err := svc.UpdateLocation(ctx, alice, bobby.ID, 1, 2)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	stored, err := st.ByID(ctx, bobby.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Location)
}

func TestUpdateLocationUnknownUserIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	alice := signup(t, svc, "alice")

	err := svc.UpdateLocation(context.Background(), alice, 999, 1, 2)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
