package principal

import (
	"log/slog"

	"github.com/gazette-news/gazette/internal/authz"
)

// Pipeline fixes the order of the authentication stages for a route group.
//
// Every chain it hands out starts with the same base stages (session
// loading where applicable, then Populate) followed by the requested
// gates. Call sites compose routes exclusively through a Pipeline, so the
// populate-before-gates ordering cannot be broken by declaration order at
// an individual route.
type Pipeline struct {
	base   []Middleware
	logger *slog.Logger
}

// NewPipeline builds a pipeline from a resolver. Stages passed as before
// run ahead of Populate (the web pipeline passes the session middleware).
func NewPipeline(resolver Resolver, logger *slog.Logger, before ...Middleware) *Pipeline {
	base := make([]Middleware, 0, len(before)+1)
	base = append(base, before...)
	base = append(base, Populate(resolver, logger))
	return &Pipeline{base: base, logger: logger}
}

// Public returns the populate-only chain for routes that accept anonymous
// requests but still want an optional principal in context.
func (p *Pipeline) Public() []Middleware {
	return p.chain()
}

// Authenticated returns the chain rejecting anonymous requests.
func (p *Pipeline) Authenticated() []Middleware {
	return p.chain(RequireAuth)
}

// RequireAny returns the chain requiring at least one of the permissions.
func (p *Pipeline) RequireAny(perms ...authz.Permission) []Middleware {
	return p.chain(RequireAuth, requirePermissions(p.logger, false, perms))
}

// RequireAll returns the chain requiring every one of the permissions.
func (p *Pipeline) RequireAll(perms ...authz.Permission) []Middleware {
	return p.chain(RequireAuth, requirePermissions(p.logger, true, perms))
}

func (p *Pipeline) chain(gates ...Middleware) []Middleware {
	out := make([]Middleware, 0, len(p.base)+len(gates))
	out = append(out, p.base...)
	out = append(out, gates...)
	return out
}
