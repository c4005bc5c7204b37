// Package service — authentication business logic.
//
// AuthService sits between the token-issuance handler and the
// repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (credential rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/repository"
)

// AuthService exchanges stored credentials for signed access tokens.
type AuthService struct {
	store     repository.Store
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	store repository.Store,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies a username/password pair and returns a signed JWT for the
// account. Unknown usernames, wrong passwords, and deactivated accounts all
// produce the same unauthorized error — the response never reveals which
// part failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return "", apperror.Unauthorized("invalid credentials")
		}
		return "", fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if !user.IsActive {
		s.logger.Warn("login attempt for deactivated account",
			slog.String("userID", user.ID),
		)
		return "", apperror.Unauthorized("invalid credentials")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("token issued",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return token, nil
}
