package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/auth"
	"github.com/deniz/regdesk/internal/pkg/logger"
	"github.com/deniz/regdesk/internal/pkg/session"
)

// userStore is the subset of the user repository the service needs.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService handles account registration and session lifecycle
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

type authService struct {
	users      userStore
	sessions   session.Store
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users userStore, sessions session.Store, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new dashboard account with a bcrypt hashed password.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

// Login verifies credentials and opens a new session. Both an unknown email
// and a wrong password surface as invalid credentials.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *session.Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return user, sess, nil
}

// Logout terminates a session. An already gone session is not an error.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return err
	}
	return nil
}

// CurrentUser resolves a session ID to its user.
func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		// Session outlived the account.
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, apperrors.ErrSessionNotFound
	}

	return user, nil
}
