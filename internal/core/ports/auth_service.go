package ports

import (
	"context"
	"time"

	"github.com/agendafacil/auth-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role defaults to
// client when empty.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	Phone       string
}

// AuthResult is returned by Register and Login: a signed access token plus
// the stripped user view.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// MeResult reports whether an identity resolves to a live account.
type MeResult struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
}

// HealthStatus is the constant-time liveness payload.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes the presented token by its jti until it would have
	// expired anyway. An empty tokenID is a no-op acknowledgment.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) (string, error)
	// Me never fails for a missing or unknown identity: it is a query, not
	// an assertion.
	Me(ctx context.Context, userID string) (*MeResult, error)
	HealthCheck() HealthStatus
}
