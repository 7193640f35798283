package ports

import (
	"context"
	"time"
)

// TokenRevoker records revoked token identifiers until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
