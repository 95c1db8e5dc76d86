package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Role     user.Role
}

// Can reports whether the principal's role grants perm.
func (p Principal) Can(perm user.Permission) bool {
	return user.HasPermission(p.Role, perm)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorID returns the caller's user id for audit columns, or nil for
// unauthenticated work such as bootstrap seeding.
func ActorID(ctx context.Context) *string {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID == "" {
		return nil
	}
	id := p.UserID
	return &id
}
