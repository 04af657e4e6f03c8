package service

import (
	"context"
	"fmt"

	"github.com/jellydator/validation"
	"go.uber.org/zap"

	"taskmaster/internal/auth"
	"taskmaster/internal/errors"
	"taskmaster/internal/metrics"
	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Credentials is a username/password pair as submitted by a client.
type Credentials struct {
	Username string
	Password string
}

// Validate implements validation.Validatable.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required, validation.RuneLength(1, 191)),
		validation.Field(&c.Password, validation.Required),
	)
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	logger    *zap.SugaredLogger
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(logger *zap.SugaredLogger, users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) (AuthService, error) {
	// compared against on unknown usernames so both login failures cost one bcrypt run
	dummy, err := hasher.Hash("taskmaster-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &authService{
		logger:    logger,
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

// Register creates a new user with the default role. Uniqueness is enforced
// by the store, so concurrent registrations of one name yield one success.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	creds := Credentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			metrics.Registrations.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("%w: password: %v", errors.ErrInvalidInput, err)
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errors.ErrUsernameTaken) {
			metrics.Registrations.WithLabelValues("taken").Inc()
			return nil, err
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register user: %w", err)
	}

	metrics.Registrations.WithLabelValues("created").Inc()
	s.logger.Infow("user registered", "username", username, "role", user.Role)
	return user, nil
}

// Login verifies the credentials and issues a bearer token. An unknown user
// and a wrong password produce the same error.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		s.hasher.Verify(password, s.dummyHash)
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", errors.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, errors.ErrUserNotFound):
		s.hasher.Verify(password, s.dummyHash)
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		s.logger.Infow("login failed", "username", username)
		return "", errors.ErrInvalidCredentials
	case err != nil:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		s.logger.Infow("login failed", "username", username)
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, nil
}
