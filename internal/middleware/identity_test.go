package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/repository"
	"github.com/moviestack/movie-catalog/internal/utils"
)

const testSecret = "test-secret"

type fakeUsers struct {
	users map[string]model.User
	err   error // injected store failure
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeRevocations struct{ revoked map[string]bool }

func (f *fakeRevocations) IsRevoked(_ context.Context, raw string) bool { return f.revoked[raw] }

func runIdentity(t *testing.T, authHeader string, users UserLookup, tokens RevocationChecker) (model.Identity, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Identity
	reached := false
	mw := Identity(testSecret, users, tokens)
	err := mw(func(c echo.Context) error {
		reached = true
		got = CurrentIdentity(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return got, rec, reached
}

func activeUser() model.User {
	return model.User{UID: "u1", Username: "someuser", EmailID: "test@example.com", IsActive: true}
}

func issue(t *testing.T, ttlMin int) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, "test@example.com", ttlMin)
	require.NoError(t, err)
	return at.Token
}

func TestIdentity_NoHeaderIsAnonymous(t *testing.T) {
	ident, _, reached := runIdentity(t, "", &fakeUsers{}, nil)
	assert.True(t, reached)
	assert.False(t, ident.Authenticated)
}

func TestIdentity_ValidToken(t *testing.T) {
	users := &fakeUsers{users: map[string]model.User{"test@example.com": activeUser()}}
	ident, _, reached := runIdentity(t, "Bearer "+issue(t, 30), users, nil)
	assert.True(t, reached)
	assert.True(t, ident.Authenticated)
	assert.Equal(t, "someuser", ident.User.Username)
}

func TestIdentity_ExpiredTokenIsAnonymous(t *testing.T) {
	users := &fakeUsers{users: map[string]model.User{"test@example.com": activeUser()}}
	ident, rec, reached := runIdentity(t, "Bearer "+issue(t, -1), users, nil)
	assert.True(t, reached, "expired credentials must not hard-fail")
	assert.False(t, ident.Authenticated)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentity_TamperedTokenIsRejected(t *testing.T) {
	users := &fakeUsers{users: map[string]model.User{"test@example.com": activeUser()}}
	_, rec, reached := runIdentity(t, "Bearer "+issue(t, 30)+"x", users, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentity_RevokedTokenIsAnonymous(t *testing.T) {
	tok := issue(t, 30)
	users := &fakeUsers{users: map[string]model.User{"test@example.com": activeUser()}}
	tokens := &fakeRevocations{revoked: map[string]bool{tok: true}}
	ident, _, reached := runIdentity(t, "Bearer "+tok, users, tokens)
	assert.True(t, reached)
	assert.False(t, ident.Authenticated)
}

func TestIdentity_StoreFailureIsNotAnAuthFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("store unavailable")}
	_, rec, reached := runIdentity(t, "Bearer "+issue(t, 30), users, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdentity_UnknownSubjectIsRejected(t *testing.T) {
	_, rec, reached := runIdentity(t, "Bearer "+issue(t, 30), &fakeUsers{}, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()

	run := func(ident *model.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/movies", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if ident != nil {
			c.Set(identityKey, *ident)
		}
		err := RequireAuth(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		require.NoError(t, err)
		return rec
	}

	rec := run(nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	inactive := model.Identity{Authenticated: true, User: model.User{IsActive: false}}
	rec = run(&inactive)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	active := model.Identity{Authenticated: true, User: activeUser()}
	rec = run(&active)
	assert.Equal(t, http.StatusOK, rec.Code)
}
