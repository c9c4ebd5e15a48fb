package user

import (
	"context"

	"retailpos/internal/domain"
)

// Repository defines the interface for User persistence.
type Repository interface {
	domain.CatalogRepository[*User]

	// FindByUsername retrieves a user by username (case-insensitive).
	FindByUsername(ctx context.Context, username string) (*User, error)
}
