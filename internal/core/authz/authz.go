// Package authz answers role and ownership questions for an explicit
// caller Identity. All functions are pure: they read only their arguments,
// so a decision is always scoped to the single request that produced the
// Identity and can never leak across requests.
package authz

import (
	"net/http"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

// HasRole reports an exact role match. False when the identity carries no
// valid role.
func HasRole(id domain.Identity, role domain.Role) bool {
	return id.Role.Valid() && id.Role == role
}

// HasAnyRole reports whether the identity holds one of the given roles.
func HasAnyRole(id domain.Identity, roles ...domain.Role) bool {
	for _, r := range roles {
		if HasRole(id, r) {
			return true
		}
	}
	return false
}

// IsAtLeast reports whether the identity's role ranks at or above min.
func IsAtLeast(id domain.Identity, min domain.Role) bool {
	return id.Role.AtLeast(min)
}

// Decision is the outcome of an ownership check. Status is the HTTP status
// hint carried alongside a denial.
type Decision struct {
	Allowed bool
	Reason  string
	Status  int
}

// Allow is the positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a negative decision with a caller-visible reason.
func Deny(reason string, status int) Decision {
	return Decision{Reason: reason, Status: status}
}

// Authorize decides whether the caller may act on a resource owned by
// ownerUserID. Roles at or above override bypass the ownership match;
// otherwise the caller must be the owner. Callers are expected to have
// verified the resource exists before asking — absence is reported as
// not-found upstream, never as a denial.
func Authorize(id domain.Identity, ownerUserID string, override domain.Role) Decision {
	if IsAtLeast(id, override) {
		return Allow()
	}
	if id.UserID != "" && id.UserID == ownerUserID {
		return Allow()
	}
	return Deny("Access denied", http.StatusForbidden)
}
