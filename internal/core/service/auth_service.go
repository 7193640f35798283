package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/ports"
)

// AuthService implements registration, login, logout and identity lookup.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	revoker   ports.TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, revoker ports.TokenRevoker, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register creates an account and returns it with a signed access token.
// Email uniqueness is enforced by the store; a duplicate surfaces as
// domain.ErrEmailTaken regardless of interleaved registrations.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         role,
		IsActive:     true,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	return &ports.AuthResult{Token: token, User: created.Stripped()}, nil
}

// Login verifies credentials. Unknown email and wrong password both return
// domain.ErrInvalidCredentials so callers cannot enumerate accounts; only a
// correct password against a deactivated account yields ErrInactiveAccount.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("login succeeded")

	return &ports.AuthResult{Token: token, User: user.Stripped()}, nil
}

// Logout revokes the presented token until its natural expiry. Without a
// token there is no server-side state to tear down, so the call is a plain
// acknowledgment.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) (string, error) {
	if tokenID == "" {
		return "logged out", nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return "logged out", nil
	}
	if err := s.revoker.Revoke(ctx, tokenID, ttl); err != nil {
		return "", err
	}

	s.logger.Info().Str("jti", tokenID).Msg("token revoked")
	return "logged out", nil
}

// Me resolves an already-authenticated identity to its live account. Missing,
// unknown and deactivated identities all report unauthenticated without error.
func (s *AuthService) Me(ctx context.Context, userID string) (*ports.MeResult, error) {
	if userID == "" {
		return &ports.MeResult{Authenticated: false}, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &ports.MeResult{Authenticated: false}, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return &ports.MeResult{Authenticated: false}, nil
	}

	return &ports.MeResult{Authenticated: true, User: user.Stripped()}, nil
}

// HealthCheck is a constant-time liveness probe; no dependency is touched.
func (s *AuthService) HealthCheck() ports.HealthStatus {
	return ports.HealthStatus{Status: "ok", Timestamp: time.Now().UTC()}
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
