package principal

import (
	"log/slog"
	"net/http"

	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/platform/httpx"
)

// Middleware is the standard http middleware shape used across the router.
type Middleware = func(http.Handler) http.Handler

// Populate runs the resolver and attaches the outcome to the request
// context. It never rejects on its own: an anonymous outcome flows through
// and only a resolver infrastructure failure produces a response (500).
func Populate(resolver Resolver, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := resolver.Resolve(r)
			if err != nil {
				logger.Error("principal resolution failed", slog.Any("error", err), slog.String("path", r.URL.Path))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401. Must run after Populate;
// use a Pipeline rather than mounting it directly.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requirePermissions rejects principals whose permission set does not
// satisfy the combinator. The response never names the missing permission.
func requirePermissions(logger *slog.Logger, all bool, perms []authz.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := FromContext(r.Context())
			if p == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			set := authz.PermissionsFor(p.Role)
			ok := set.HasAny(perms...)
			if all {
				ok = set.HasAll(perms...)
			}
			if !ok {
				logger.Info("permission denied",
					slog.String("user_id", p.UserID),
					slog.String("role", string(p.Role)),
					slog.String("path", r.URL.Path),
				)
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
