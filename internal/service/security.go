package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
	"github.com/reallifegames/localauth/internal/ports"
)

// Claims is the JWT payload carried in the authToken cookie.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenServiceOptions groups dependencies for TokenService.
type TokenServiceOptions struct {
	Secret   []byte
	TTL      time.Duration
	Denylist ports.TokenDenylist
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService issues and verifies HS256 tokens.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	denylist ports.TokenDenylist
	now      func() time.Time
}

// NewTokenService constructs a TokenService. The secret must be non-empty.
func NewTokenService(opts TokenServiceOptions) (*TokenService, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: opts.Secret, ttl: opts.TTL, denylist: opts.Denylist, now: now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a new token for username.
func (s *TokenService) Issue(username string) (string, domainauth.Session, error) {
	now := s.now().Truncate(time.Second)
	sess := domainauth.Session{
		Username:  username,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.TokenID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domainauth.Session{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, sess, nil
}

// Parse verifies signature, expiry and revocation, returning the session the token describes.
// Every rejection is an Unauthorized AppError.
func (s *TokenService) Parse(ctx context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, apperrors.Unauthorized("missing token")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid token")
	}
	if claims.Username == "" {
		return domainauth.Session{}, apperrors.Unauthorized("token has no username claim")
	}

	sess := domainauth.Session{
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}

	if s.denylist != nil && sess.TokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, sess.TokenID)
		if err != nil {
			return domainauth.Session{}, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return domainauth.Session{}, apperrors.Unauthorized("token revoked")
		}
	}
	return sess, nil
}

// Revoke denylists the session's token until it expires. Expired sessions need no entry.
func (s *TokenService) Revoke(ctx context.Context, sess domainauth.Session) error {
	if s.denylist == nil || sess.TokenID == "" || sess.Expired(s.now()) {
		return nil
	}
	if err := s.denylist.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.ValidationField("password", "password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Matches reports whether password matches hash.
func (h PasswordHasher) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
