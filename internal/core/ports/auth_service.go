package ports

import (
	"context"
	"time"

	"github.com/portfoliotracker/backoffice-api/internal/core/result"
)

// UserView is the client-visible shape of a user account.
type UserView struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Role     string        `json:"role"`
	Active   bool          `json:"active"`
	Customer *CustomerView `json:"customer,omitempty"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

// AuthService authenticates users and issues tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (result.Result[LoginResult], error)
}
