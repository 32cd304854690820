// Package principal resolves the identity behind an incoming request and
// guards routes with authentication and permission gates.
//
// Two resolver implementations share one output shape: BearerResolver for
// API clients presenting a JWT, SessionResolver for web clients carrying a
// session cookie. A request is either anonymous (nil principal in context)
// or carries exactly one resolved Principal; the populate stage itself
// never rejects.
package principal

import (
	"context"
	"time"

	"github.com/gazette-news/gazette/internal/authz"
)

// Principal is the resolved identity attached to a request. It lives for
// the duration of one request and is never persisted.
type Principal struct {
	UserID      string
	Role        authz.Role
	Permissions authz.Set

	// Display fields, populated by the session path only.
	Nickname    string
	DisplayName string

	// TokenExpiry is set by the bearer path only.
	TokenExpiry time.Time
}

// Can reports whether the principal's role grants the permission. The set
// is always derived from the role through the one authoritative table, so
// both resolver paths answer identically.
func (p *Principal) Can(perm authz.Permission) bool {
	if p == nil {
		return false
	}
	return authz.HasPermission(p.Role, perm)
}

type principalContextKey struct{}

// WithPrincipal stores the resolved principal in context. A nil principal
// marks the request as explicitly anonymous.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext extracts the principal from context; nil means anonymous.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
