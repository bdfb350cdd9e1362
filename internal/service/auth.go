package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users  *UserService
	Tokens *TokenService
	Logger *slog.Logger
}

// AuthService ties credential checks to token issuance and revocation.
type AuthService struct {
	users  *UserService
	tokens *TokenService
	logger *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: opts.Users, tokens: opts.Tokens, logger: logger.With("component", "auth_service")}
}

// TokenTTL returns the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration { return s.tokens.TTL() }

// Login verifies credentials and issues a signed token.
// Unknown, inactive and mismatched accounts all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domainauth.Session, error) {
	username = domainauth.NormalizeUsername(username)
	if username == "" || password == "" {
		return "", domainauth.Session{}, apperrors.Validation("username and password are required")
	}

	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", domainauth.Session{}, err
	}

	token, sess, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", domainauth.Session{}, fmt.Errorf("issue token: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged in",
		"username", user.Username,
		"role", user.Role(),
		"jti", sess.TokenID,
	)
	return token, sess, nil
}

// Session resolves a token into the session it carries.
func (s *AuthService) Session(ctx context.Context, token string) (domainauth.Session, error) {
	return s.tokens.Parse(ctx, token)
}

// RequireAdmin returns the session when the token is valid and belongs to an admin.
// A valid token of a non-admin yields a Forbidden error.
func (s *AuthService) RequireAdmin(ctx context.Context, token string) (domainauth.Session, error) {
	sess, err := s.tokens.Parse(ctx, token)
	if err != nil {
		return domainauth.Session{}, err
	}
	admin, err := s.users.IsAdmin(ctx, sess.Username)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("check admin status: %w", err)
	}
	if !admin {
		return domainauth.Session{}, apperrors.Forbidden("admin privileges required")
	}
	return sess, nil
}

// Logout revokes token. Invalid or already revoked tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.tokens.Parse(ctx, token)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			return nil
		}
		return err
	}
	if err := s.tokens.Revoke(ctx, sess); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user logged out", "username", sess.Username, "jti", sess.TokenID)
	return nil
}
