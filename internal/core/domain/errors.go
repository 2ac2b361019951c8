package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrDuplicatePortfolio = errors.New("portfolio already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrForbidden          = errors.New("access denied")
)
