package domain

import "time"

// Customer is a tenant record linked 1:1 to the User that owns it.
// A Customer is only ever created together with a new User (atomic pair).
type Customer struct {
	ID        string
	UserID    string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
