package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo holds the access-token denylist in Redis. Logout revokes the
// presented token for its remaining lifetime; after that the entry
// expires on its own since the token is dead anyway. A nil Redis client
// disables revocation and both methods become no-ops.
type TokenRepo struct{ rdb *redis.Client }

func NewTokenRepo(rdb *redis.Client) *TokenRepo { return &TokenRepo{rdb: rdb} }

// Revoke denylists the raw token until ttl elapses. Only a SHA-256 of
// the token is stored.
func (r *TokenRepo) Revoke(ctx context.Context, raw string, ttl time.Duration) error {
	if r.rdb == nil || ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokeKey(raw), "1", ttl).Err()
}

// IsRevoked reports whether the raw token has been denylisted. Redis
// failures degrade to "not revoked" so a cache outage cannot lock every
// caller out.
func (r *TokenRepo) IsRevoked(ctx context.Context, raw string) bool {
	if r.rdb == nil {
		return false
	}
	n, err := r.rdb.Exists(ctx, revokeKey(raw)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func revokeKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "revoked:" + hex.EncodeToString(sum[:])
}
