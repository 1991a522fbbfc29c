// Package middleware contains reusable HTTP middleware: bearer-token
// identity resolution and the Redis token-bucket rate limiter.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/repository"
	"github.com/moviestack/movie-catalog/internal/utils"
)

const (
	identityKey = "identity"
	tokenKey    = "access_token"
	tokenExpKey = "access_token_exp"
)

// UserLookup resolves a token subject to an account.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// RevocationChecker reports whether a raw token has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, raw string) bool
}

// Identity resolves the caller for every request. The ladder:
//
//	no Authorization header  -> anonymous
//	expired token            -> anonymous (stale credentials are treated
//	                            as no credentials, not as an attack)
//	revoked token            -> anonymous
//	malformed/tampered token -> 401
//	subject with no account  -> 401
//	otherwise                -> authenticated identity in context
//
// Protected routes additionally wrap RequireAuth.
func Identity(secret string, users UserLookup, tokens RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				c.Set(identityKey, model.Anonymous())
				return next(c)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sub, exp, err := utils.ParseAccessToken(secret, raw)
			if errors.Is(err, utils.ErrTokenExpired) {
				c.Set(identityKey, model.Anonymous())
				return next(c)
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx := c.Request().Context()
			if tokens != nil && tokens.IsRevoked(ctx, raw) {
				c.Set(identityKey, model.Anonymous())
				return next(c)
			}

			user, err := users.GetByEmail(ctx, sub)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "could not validate credentials"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup user failed"})
			}

			c.Set(identityKey, model.Identity{Authenticated: true, User: user})
			c.Set(tokenKey, raw)
			c.Set(tokenExpKey, exp)
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with 401 and inactive accounts
// with 400. It must run after Identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident := CurrentIdentity(c)
		if !ident.Authenticated {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		if !ident.User.IsActive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "inactive user"})
		}
		return next(c)
	}
}

// CurrentIdentity returns the identity stored by the Identity
// middleware, or the anonymous identity when none is present.
func CurrentIdentity(c echo.Context) model.Identity {
	if v, ok := c.Get(identityKey).(model.Identity); ok {
		return v
	}
	return model.Anonymous()
}

// BearerToken returns the validated raw token and its expiry for the
// current request. ok is false for anonymous callers.
func BearerToken(c echo.Context) (raw string, exp time.Time, ok bool) {
	raw, rok := c.Get(tokenKey).(string)
	exp, eok := c.Get(tokenExpKey).(time.Time)
	return raw, exp, rok && eok
}
