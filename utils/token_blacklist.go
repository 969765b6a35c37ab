package utils

import (
	"context"
	"time"

	"github.com/altvik/plume/cache"
)

const blacklistPrefix = "jwt:blacklist:"

// BlacklistToken revokes a token until its natural expiration so that
// logout takes effect immediately.
func BlacklistToken(store cache.Store, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	store.Set(context.Background(), blacklistPrefix+token, []byte("1"), ttl)
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(store cache.Store, token string) bool {
	_, ok := store.Get(context.Background(), blacklistPrefix+token)
	return ok
}
