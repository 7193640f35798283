package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agendafacil/auth-service/internal/core/ports"
)

var _ ports.TokenRevoker = (*RevocationList)(nil)

// RevocationList records revoked token identifiers in Redis. Entries carry a
// TTL equal to the token's remaining lifetime, so the list never outgrows the
// set of tokens that could still be replayed.
// Key format: revoked:<jti>
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marks the token identifier as revoked for ttl.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token identifier has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(tokenID string) string {
	return "revoked:" + tokenID
}
