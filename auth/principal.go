// Package auth resolves the caller's verified identity from the request
// context and decides whether an operation on a specific record is
// permitted.
//
// Token parsing and signature verification happen outside this module; by
// the time a request reaches the record services, an external collaborator
// has already attached a verified Principal to the context. This package
// never inspects tokens, only the (id, role) pair.
package auth

import "context"

// Role is the coarse role carried by a verified token.
type Role string

const (
	// RoleAdmin may perform every operation on every record.
	RoleAdmin Role = "ADMIN"
	// RoleUser may only act on records owned by its own account.
	RoleUser Role = "USER"
)

// Principal is the verified caller identity: the account id the token was
// issued for and the role claim.
type Principal struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the principal carries the administrative role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type principalContextKey struct{}

// WithPrincipal attaches a verified principal to the context. The token
// verification collaborator calls this once per request.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFrom extracts the verified principal from the context, if one was
// attached.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
