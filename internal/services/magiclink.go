package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/jesterfour4/higher-ground-care/internal/database"
)

const (
	// MagicLinkDuration is how long a sign-in link stays valid
	MagicLinkDuration = 15 * time.Minute
	// MagicLinkKeyPrefix is the Redis key prefix for magic-link tokens
	MagicLinkKeyPrefix = "magiclink:"
)

// CreateMagicLinkToken stores a one-time token -> email mapping in Redis
// and returns the token.
func CreateMagicLinkToken(email string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	ctx := context.Background()
	err := database.RedisClient.Set(ctx, MagicLinkKeyPrefix+token, email, MagicLinkDuration).Err()
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeMagicLinkToken resolves a token to the email it was issued for and
// deletes it, so each link works exactly once. An unknown or expired token
// reports ok=false. GETDEL keeps the read-and-invalidate atomic; two
// verifications racing on the same token can't both win.
func ConsumeMagicLinkToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	ctx := context.Background()
	email, err := database.RedisClient.GetDel(ctx, MagicLinkKeyPrefix+token).Result()
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}
