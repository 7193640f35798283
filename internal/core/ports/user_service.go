package ports

import (
	"context"

	"github.com/agendafacil/auth-service/internal/core/domain"
)

// UpdateProfileInput carries the mutable profile fields. The password is
// deliberately absent: changes go through ChangePassword so a re-hash can
// never be skipped.
type UpdateProfileInput struct {
	DisplayName *string
	Phone       *string
	Avatar      *string
	Role        *string
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id, newPassword string) error
	Deactivate(ctx context.Context, id string) error
}
