// Package utils provides helper functions for token creation and hashing.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired marks a token that was valid once but is past its
// expiry. Callers treat the bearer as anonymous rather than rejecting
// the request outright.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid marks a token that is malformed, tampered with, or
// signed with the wrong key or algorithm. This is a hard failure.
var ErrTokenInvalid = errors.New("token invalid")

// AccessToken is a signed HS256 JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 JWT whose subject identifies
// the account (the email_id). ttlMin controls the token lifetime.
func NewAccessToken(secret, subject string, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates a raw token and returns its subject and
// expiry. Expired tokens return ErrTokenExpired; every other validation
// failure returns ErrTokenInvalid so a tampered token is never mistaken
// for a merely stale one.
func ParseAccessToken(secret, raw string) (string, time.Time, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, ErrTokenExpired
		}
		return "", time.Time{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", time.Time{}, ErrTokenInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	return sub, exp.Time, nil
}
