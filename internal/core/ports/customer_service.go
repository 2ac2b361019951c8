package ports

import (
	"context"
	"time"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

// CustomerView is the client-visible shape of a customer and its account.
type CustomerView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterCustomerInput carries signup data. Password arrives in plain
// text and is hashed before it touches storage.
type RegisterCustomerInput struct {
	FullName string
	Email    string
	Password string
}

// UpdateCustomerInput is the full-replace update (PUT).
type UpdateCustomerInput struct {
	FullName string
	Email    string
	Active   bool
}

// PatchCustomerInput is the partial update (PATCH); nil fields are left
// untouched.
type PatchCustomerInput struct {
	FullName *string
	Email    *string
	Active   *bool
}

// CustomerService defines use-case operations for customers. Operations
// acting on a single customer take the caller's Identity and enforce the
// ownership guard with an Admin override.
type CustomerService interface {
	Register(ctx context.Context, input RegisterCustomerInput) (result.Result[CustomerView], error)
	List(ctx context.Context, page PageRequest) (result.Result[PagedResult[CustomerView]], error)
	GetByID(ctx context.Context, caller domain.Identity, customerID string) (result.Result[CustomerView], error)
	Update(ctx context.Context, caller domain.Identity, customerID string, input UpdateCustomerInput) (result.Result[CustomerView], error)
	Patch(ctx context.Context, caller domain.Identity, customerID string, input PatchCustomerInput) (result.Result[CustomerView], error)
}
