// Package adminauth implements admin authentication: login with password
// verification, token validation, and bootstrap of the initial account.
package adminauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ezbjus/bariwikiemerg/internal/config"
	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// adminRepo defines the admin repository interface needed by adminauth service.
type adminRepo interface {
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Create(ctx context.Context, a *domain.Admin) error
}

// tokenManager defines the token operations needed by adminauth service.
type tokenManager interface {
	GenerateToken(username string) (string, error)
	ValidateToken(token string) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token    string
	Username string
}

// Service implements admin authentication operations.
type Service struct {
	log    *slog.Logger
	admins adminRepo
	tokens tokenManager
	cfg    config.AuthConfig
}

// NewService creates a new adminauth service instance.
func NewService(logger *slog.Logger, admins adminRepo, tokens tokenManager, cfg config.AuthConfig) *Service {
	return &Service{
		log:    logger.With("service", "adminauth"),
		admins: admins,
		tokens: tokens,
		cfg:    cfg,
	}
}

// Login verifies credentials and issues an access token. A wrong username
// and a wrong password both come back as domain.ErrUnauthorized; the caller
// cannot tell which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("missing credentials: %w", domain.ErrUnauthorized)
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn("login failed", "username", username, "reason", "unknown user")
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("fetch admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", "username", username, "reason", "wrong password")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(admin.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("admin logged in", "username", admin.Username)
	return &Session{Token: token, Username: admin.Username}, nil
}

// ValidateToken checks an access token and confirms the subject still maps
// to an existing admin account. Returns the username on success.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	username, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", fmt.Errorf("validate token: %w", domain.ErrUnauthorized)
	}

	if _, err := s.admins.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("admin %q no longer exists: %w", username, domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("fetch admin: %w", err)
	}

	return username, nil
}

// Bootstrap ensures the configured admin account exists, creating it with a
// bcrypt-hashed password on first run. Called once at startup; an existing
// account is left untouched, so password changes in config do not propagate
// to an already created account.
func (s *Service) Bootstrap(ctx context.Context) error {
	_, err := s.admins.GetByUsername(ctx, s.cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check admin: %w", err)
	}

	if s.cfg.AdminPassword == "" {
		return fmt.Errorf("admin account %q does not exist and no password is configured", s.cfg.AdminUsername)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &domain.Admin{
		ID:           uuid.New(),
		Username:     s.cfg.AdminUsername,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("admin account created", "username", admin.Username)
	return nil
}
