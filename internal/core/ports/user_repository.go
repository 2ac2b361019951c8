package ports

import (
	"context"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update persists changed user fields. A duplicate email is reported
	// as domain.ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error
}
