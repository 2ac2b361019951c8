package ports

import (
	"context"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// CustomerRecord joins a customer with its owning user, which every read
// path needs for ownership checks and response shaping.
type CustomerRecord struct {
	Customer domain.Customer
	User     domain.User
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	// CreateWithUser persists the user and its customer as an atomic pair.
	// A duplicate email is reported as domain.ErrEmailExists and leaves
	// no partial state behind.
	CreateWithUser(ctx context.Context, user *domain.User, customer *domain.Customer) error
	FindByID(ctx context.Context, id string) (*CustomerRecord, error)
	FindByUserID(ctx context.Context, userID string) (*CustomerRecord, error)
	List(ctx context.Context, page PageRequest) ([]CustomerRecord, int64, error)
	Update(ctx context.Context, customer *domain.Customer) error
}
