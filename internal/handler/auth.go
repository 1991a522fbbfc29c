package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/config"
	"github.com/moviestack/movie-catalog/internal/middleware"
	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/repository"
	"github.com/moviestack/movie-catalog/internal/utils"
)

// UserStore is the account persistence surface. Satisfied by
// *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u model.User, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenRevoker denylists access tokens on logout. Satisfied by
// *repository.TokenRepo.
type TokenRevoker interface {
	Revoke(ctx context.Context, raw string, ttl time.Duration) error
}

// AuthHandler bundles dependencies for registration, token issuance and
// logout.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenRevoker
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenRevoker) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Username  string `json:"username"`
	EmailID   string `json:"email_id"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type tokenReq struct {
	EmailID  string `json:"email_id"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account. Duplicate email_id answers 400 and the
// stored password is a bcrypt hash; the response is the public
// projection (the hash never serializes).
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EmailID == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email_id and password cannot be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, model.User{
		Username:  req.Username,
		EmailID:   req.EmailID,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Token verifies credentials and issues a bearer access token. Bad
// credentials are indistinguishable from an unknown account.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.EmailID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup user failed"})
	}
	if err != nil || !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "incorrect email or password"})
	}

	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.EmailID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: at.Token, TokenType: "bearer"})
}

// Logout revokes the presented access token for the rest of its
// lifetime. The route is protected, so by the time we get here the
// token has already been validated.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, exp, ok := middleware.BearerToken(c)
	if ok && h.Tokens != nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		if err := h.Tokens.Revoke(ctx, raw, time.Until(exp)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	return c.JSON(http.StatusOK, "ok")
}
