package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/ports"
)

// UserService implements account administration: listing, profile updates,
// password changes and deactivation.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// List returns all users with the password hash never populated.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile mutates profile fields only. The password is not part of the
// input type, so a profile update can never persist a plaintext password.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidRole
		}
		user.Role = role
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("profile updated")
	return updated.Stripped(), nil
}

// ChangePassword re-hashes unconditionally before persisting.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if _, err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("password changed")
	return nil
}

// Deactivate soft-deletes the account. The row stays queryable by id/email;
// login and identity lookups reject it from then on.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("account deactivated")
	return nil
}
