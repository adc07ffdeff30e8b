package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated caller attached by Auth.
type Principal struct {
	UserID   uuid.UUID
	AccessID string
}

type principalKey struct{}

// WithPrincipal attaches p to ctx. A nil UserID is treated as anonymous.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext reports the caller; ok is false outside Auth.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}

func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}

// AccessIDFromContext returns the jti of the bearer token, used to revoke the session.
func AccessIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.AccessID
}
