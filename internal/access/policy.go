// Package access decides which ledger records a user may see or delete.
//
// There are exactly two roles. Admins see everything and may delete any
// record; limited users see and delete only what they recorded themselves.
// The policy is consulted as a precondition at every read and delete entry
// point, so a new endpoint cannot accidentally skip the rule.
package access

// Role classifies a user for visibility purposes.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleLimited Role = "limited"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLimited
}

// Identity is the authenticated actor of one request, resolved once by the
// authenticator and fixed for the request's lifetime.
type Identity struct {
	Username string
	Role     Role
}

// Policy implements the two-role visibility rules. The zero value is ready
// to use.
type Policy struct{}

// ReadScope returns the owner filter for listing and statistics queries.
// An empty string means unrestricted.
func (Policy) ReadScope(id Identity) string {
	if id.Role == RoleAdmin {
		return ""
	}
	return id.Username
}

// DeleteScope returns the owner filter for delete operations. The store
// applies it inside the delete itself, so "found but not yours" and
// "not found" are indistinguishable by construction.
func (Policy) DeleteScope(id Identity) string {
	if id.Role == RoleAdmin {
		return ""
	}
	return id.Username
}

// CanCreate reports whether the actor may record sales. Both roles may;
// the method exists so creation goes through the policy like everything
// else.
func (Policy) CanCreate(id Identity) bool {
	return id.Role.Valid()
}
