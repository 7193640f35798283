package ports

import (
	"context"

	"github.com/agendafacil/auth-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
// Deactivate is a soft delete; rows are never physically removed.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}
