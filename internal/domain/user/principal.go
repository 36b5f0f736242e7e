package user

import "context"

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID string
	Roles  []Role
}

func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// ScopeUserID applies the self-scope rule to an optional user filter. Admins
// keep the requested filter (nil means all users); everyone else is narrowed
// to their own id whatever they asked for.
func (p Principal) ScopeUserID(requested *string) *string {
	if p.IsAdmin() {
		return requested
	}
	id := p.UserID
	return &id
}

// CanAccess reports whether the caller may read or correct a record owned by
// ownerID.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller or ErrUnauthenticated.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}
