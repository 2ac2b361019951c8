package domain

// Identity is the authenticated caller as captured from the request's JWT
// claims. It is an explicit value passed into every authorization-dependent
// call; nothing in the core reads ambient request state. A zero Identity
// (empty UserID, RoleUnknown) represents an unauthenticated caller and
// fails every authorization check.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// Authenticated reports whether the identity carries a resolvable caller.
func (id Identity) Authenticated() bool {
	return id.UserID != "" && id.Role.Valid()
}
