package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
	"github.com/reallifegames/localauth/internal/ports"
)

// ErrInvalidCredentials is returned for unknown users, inactive users and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo   ports.UserRepository
	Hasher PasswordHasher
	Logger *slog.Logger
}

// UserService manages local accounts.
type UserService struct {
	repo   ports.UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: opts.Repo, hasher: opts.Hasher, logger: logger.With("component", "user_service")}
}

// Authenticate checks username and password against the stored account.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domainauth.User, error) {
	user, err := s.repo.Get(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.User{}, ErrInvalidCredentials
		}
		return domainauth.User{}, fmt.Errorf("load user: %w", err)
	}
	if !user.CanLogin() || !s.hasher.Matches(user.PasswordHash, password) {
		s.logger.DebugContext(ctx, "login rejected", "username", username, "active", user.Active)
		return domainauth.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// List returns all usernames.
func (s *UserService) List(ctx context.Context) ([]string, error) {
	return s.repo.ListUsernames(ctx)
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, username string) (domainauth.User, error) {
	return s.repo.Get(ctx, username)
}

// IsAdmin reports whether username exists and carries the admin flag.
func (s *UserService) IsAdmin(ctx context.Context, username string) (bool, error) {
	user, err := s.repo.Get(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.Admin, nil
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Username string
	Password string
	Admin    bool
	Active   bool
}

// Validate checks the username and password are present and fit the schema.
func (in CreateUserInput) Validate() error {
	if in.Username == "" {
		return apperrors.ValidationField("username", "username is required")
	}
	if in.Password == "" {
		return apperrors.ValidationField("password", "password is required")
	}
	if domainauth.UsernameTooLong(in.Username) {
		return apperrors.ValidationField("username", "username must be at most 25 characters")
	}
	return nil
}

// Create stores a new account. An existing username yields a Conflict error.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) error {
	in.Username = domainauth.NormalizeUsername(in.Username)
	if err := in.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, in.Username)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return apperrors.Conflictf("user %q already exists", in.Username)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, domainauth.User{
		Username:     in.Username,
		PasswordHash: hash,
		Admin:        in.Admin,
		Active:       in.Active,
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user created", "username", in.Username, "admin", in.Admin, "active", in.Active)
	return nil
}

// UpdateFlags sets the admin and active flags of an existing account.
func (s *UserService) UpdateFlags(ctx context.Context, username string, admin, active bool) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperrors.ValidationField("updateUsername", "username is required")
	}
	if err := s.repo.UpdateFlags(ctx, username, admin, active); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user updated", "username", username, "admin", admin, "active", active)
	return nil
}
