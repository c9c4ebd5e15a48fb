package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/user"
	"retailpos/pkg/logger"
)

// PasswordMinLength applies to new and changed passwords.
const PasswordMinLength = 6

// Credentials carries a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a successful login result.
type Session struct {
	Token     string     `json:"token"`
	TokenType string     `json:"tokenType"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

// CreateUserInput carries an admin's new-operator request.
type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Service authenticates operators and manages their accounts.
type Service struct {
	users      user.Repository
	txManager  tx.Manager
	jwtService *JWTService
}

// NewService creates the auth service.
func NewService(users user.Repository, txManager tx.Manager, jwtService *JWTService) *Service {
	return &Service{users: users, txManager: txManager, jwtService: jwtService}
}

// Login verifies credentials and issues a token. Unknown usernames and
// wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	u, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwtService.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID, "username", u.Username)
	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      u,
	}, nil
}

// ValidateToken parses a bearer token into the operator context.
func (s *Service) ValidateToken(token string) (*appctx.UserContext, error) {
	return s.jwtService.ValidateToken(token)
}

// CreateUser registers a new operator account.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	u := user.New(in.Username)
	u.FullName = in.FullName
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := u.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, u.Username)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("user", "username", u.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, u)
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// ChangePassword sets a new password for the account. Admins may change
// anyone's; others only their own, and only with the current password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !appctx.IsAdmin(ctx) {
		if callerID := appctx.GetUserID(ctx); callerID == nil || *callerID != userID {
			return apperror.NewForbidden("cannot change another user's password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
			return apperror.NewUnauthorized("current password is incorrect")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Touch()

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.users.Update(ctx, u)
	}); err != nil {
		return err
	}

	logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// SetActive enables or disables an operator account.
func (s *Service) SetActive(ctx context.Context, userID int64, active bool) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.users.SetActive(ctx, userID, active)
	})
}

// GetUser retrieves one operator account.
func (s *Service) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers lists operator accounts.
func (s *Service) ListUsers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*user.User], error) {
	return s.users.List(ctx, filter)
}

func validatePassword(password string) error {
	if len(password) < PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", PasswordMinLength),
		).WithDetail("field", "password")
	}
	return nil
}
