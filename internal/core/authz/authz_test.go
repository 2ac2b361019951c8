package authz

import (
	"net/http"
	"testing"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
)

func customer(userID string) domain.Identity {
	return domain.Identity{UserID: userID, Role: domain.RoleCustomer}
}

func admin(userID string) domain.Identity {
	return domain.Identity{UserID: userID, Role: domain.RoleAdmin}
}

func TestHasRole_ExactMatchOnly(t *testing.T) {
	id := admin("u1")
	if !HasRole(id, domain.RoleAdmin) {
		t.Error("admin identity must match admin")
	}
	if HasRole(id, domain.RoleSuperAdmin) {
		t.Error("admin identity must not match superadmin")
	}
	if HasRole(domain.Identity{}, domain.RoleUnknown) {
		t.Error("unknown role must never match, even against itself")
	}
}

func TestHasAnyRole(t *testing.T) {
	id := customer("u1")
	if !HasAnyRole(id, domain.RoleAdmin, domain.RoleCustomer) {
		t.Error("customer must match a set containing customer")
	}
	if HasAnyRole(id, domain.RoleAdmin, domain.RoleSuperAdmin) {
		t.Error("customer must not match a staff-only set")
	}
	if HasAnyRole(id) {
		t.Error("empty role set must match nothing")
	}
}

func TestAuthorize_OwnerAllowed(t *testing.T) {
	d := Authorize(customer("u1"), "u1", domain.RoleAdmin)
	if !d.Allowed {
		t.Errorf("owner must be allowed, got denial: %q", d.Reason)
	}
}

func TestAuthorize_StrangerDenied(t *testing.T) {
	d := Authorize(customer("u2"), "u1", domain.RoleAdmin)
	if d.Allowed {
		t.Fatal("non-owner customer must be denied")
	}
	if d.Reason != "Access denied" {
		t.Errorf("expected reason %q, got %q", "Access denied", d.Reason)
	}
	if d.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", d.Status)
	}
}

func TestAuthorize_AdminOverridesOwnership(t *testing.T) {
	d := Authorize(admin("staff1"), "u1", domain.RoleAdmin)
	if !d.Allowed {
		t.Error("admin must bypass the ownership match")
	}
}

func TestAuthorize_SuperAdminOverridesAdminFloor(t *testing.T) {
	id := domain.Identity{UserID: "staff9", Role: domain.RoleSuperAdmin}
	d := Authorize(id, "u1", domain.RoleAdmin)
	if !d.Allowed {
		t.Error("superadmin must satisfy an admin override floor")
	}
}

func TestAuthorize_UnauthenticatedDenied(t *testing.T) {
	d := Authorize(domain.Identity{}, "u1", domain.RoleAdmin)
	if d.Allowed {
		t.Error("zero identity must be denied")
	}
}

func TestAuthorize_EmptyOwnerNeverMatchesEmptyCaller(t *testing.T) {
	// A record with no recorded owner must not be claimable by an
	// identity with an empty user id.
	d := Authorize(domain.Identity{Role: domain.RoleCustomer}, "", domain.RoleAdmin)
	if d.Allowed {
		t.Error("empty caller id must not match empty owner id")
	}
}

func TestAuthorize_ForgedRoleDenied(t *testing.T) {
	id := domain.Identity{UserID: "u2", Role: domain.Role(99)}
	d := Authorize(id, "u1", domain.RoleAdmin)
	if d.Allowed {
		t.Error("out-of-range role must not be treated as privileged")
	}
}
