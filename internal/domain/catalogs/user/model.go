// Package user provides the User catalog for terminal operators.
package user

import (
	"context"
	"strings"

	"retailpos/internal/core/appctx"
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
)

// User represents a terminal operator account.
type User struct {
	entity.BaseCatalog

	Username string `db:"username" json:"username"`

	// PasswordHash is a bcrypt hash, never serialized to clients
	PasswordHash string `db:"password_hash" json:"-"`

	FullName string `db:"full_name" json:"fullName,omitempty"`

	// Role is either admin or cashier
	Role string `db:"role" json:"role"`
}

// New creates a new User with the cashier role.
func New(username string) *User {
	return &User{
		BaseCatalog: entity.NewBaseCatalog(),
		Username:    strings.TrimSpace(username),
		Role:        appctx.RoleCashier,
	}
}

// Validate implements entity.Validatable.
func (u *User) Validate(_ context.Context) error {
	if strings.TrimSpace(u.Username) == "" {
		return apperror.NewValidation("username is required").
			WithDetail("field", "username")
	}
	if u.Role != appctx.RoleAdmin && u.Role != appctx.RoleCashier {
		return apperror.NewValidation("unknown role").
			WithDetail("role", u.Role)
	}
	return nil
}
