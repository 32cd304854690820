package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gazette-news/gazette/internal/announcements"
	"github.com/gazette-news/gazette/internal/articles"
	"github.com/gazette-news/gazette/internal/auth"
	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/comments"
	"github.com/gazette-news/gazette/internal/observability"
	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager

	BearerResolver  principal.Resolver
	SessionResolver principal.Resolver

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	ArticlesHandler      *articles.Handler
	CommentsHandler      *comments.Handler
	AnnouncementsHandler *announcements.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router.
//
// Two route groups exist. /api/v1 resolves principals from bearer tokens;
// the web group resolves them from the redis session behind the cookie.
// Either way every route is mounted through a pipeline chain, so the
// populate stage always precedes the auth and permission gates.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	api := principal.NewPipeline(params.BearerResolver, params.Logger)
	web := principal.NewPipeline(params.SessionResolver, params.Logger,
		SessionMiddleware(params.SessionManager, params.Logger))

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountAPIRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(api.Public()...)
			params.ArticlesHandler.MountPublicRoutes(r)
			params.CommentsHandler.MountPublicRoutes(r)
			params.AnnouncementsHandler.MountPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermCommentCreate)...)
			params.CommentsHandler.MountReaderRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermArticleCreate)...)
			params.ArticlesHandler.MountWriterRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermArticleUpdate)...)
			params.ArticlesHandler.MountUpdateRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermArticleApprove)...)
			params.ArticlesHandler.MountApproveRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermArticleDelete)...)
			params.ArticlesHandler.MountDeleteRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermCommentDelete)...)
			params.CommentsHandler.MountEditorRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermAnnouncementCreate)...)
			params.AnnouncementsHandler.MountCoordRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermAnnouncementDelete)...)
			params.AnnouncementsHandler.MountAdminRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(api.RequireAny(authz.PermTeamUserUpdate)...)
			params.UsersHandler.MountRoutes(r)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(web.Public()...)
		params.AuthHandler.MountWebRoutes(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(web.Authenticated()...)
		r.Get("/me", handleMe)
	})

	return r
}

// handleMe returns the resolved principal for the web session, mostly so
// the front end can render who is signed in.
func handleMe(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	perms := make([]string, 0, len(p.Permissions))
	for perm := range p.Permissions {
		perms = append(perms, string(perm))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"userId":      p.UserID,
		"nickname":    p.Nickname,
		"displayName": p.DisplayName,
		"role":        string(p.Role),
		"permissions": perms,
	})
}
