package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/token"
)

// RefreshCookieName is the cookie slot carrying the refresh token.
const RefreshCookieName = "refresh_token"

// Handler wires the HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	tokens         *token.Service
	sessionManager *shared.SessionManager
	sessionLog     SessionLog
	validator      *validator.Validate
	secureCookies  bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *token.Service, sessions *shared.SessionManager, sessionLog SessionLog, secureCookies bool) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		tokens:         tokens,
		sessionManager: sessions,
		sessionLog:     sessionLog,
		validator:      validator.New(),
		secureCookies:  secureCookies,
	}
}

// MountAPIRoutes registers the token-based session endpoints.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/session/login", h.handleLogin)
	r.Post("/session/refresh", h.handleRefresh)
	r.Post("/session/logout", h.handleLogout)
}

// MountWebRoutes registers the cookie-session endpoints. The caller mounts
// these inside the web pipeline so the session middleware wraps them.
func (h *Handler) MountWebRoutes(r chi.Router) {
	r.Post("/login", h.handleWebLogin)
	r.Post("/logout", h.handleWebLogout)
}

type loginRequest struct {
	Nickname string `json:"nickname" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid login payload")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Nickname, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	pair, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue token pair", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.setRefreshCookie(w, pair)
	httpx.JSON(w, http.StatusOK, loginResponse{AccessToken: pair.AccessToken})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "")
		return
	}

	claims, err := h.tokens.Decode(cookie.Value, token.KindRefresh)
	if err != nil {
		// The typed kind stays in the log; clients see one generic outcome
		// whether the token expired, was forged or never parsed.
		h.logger.Info("refresh token rejected", slog.String("reason", err.Error()))
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "")
		return
	}

	// Re-resolve the user so a role change or a deleted account takes
	// effect at the next rotation.
	user, err := h.service.Lookup(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Info("refresh for deleted user", slog.String("user_id", claims.UserID))
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "")
			return
		}
		h.logger.Error("resolve refresh user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	// Full rotation: a brand new pair, the cookie is overwritten. The
	// superseded refresh token stays cryptographically valid until its own
	// expiry; there is no server-side revocation.
	pair, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue rotated pair", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	h.setRefreshCookie(w, pair)
	httpx.JSON(w, http.StatusOK, loginResponse{AccessToken: pair.AccessToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Logout only clears the client-held cookie; there is nothing to
	// revoke server-side for the stateless pair.
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, pair token.Pair) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) handleWebLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid login payload")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during web login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Nickname, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess.SetUser(user.ID)
	if h.sessionLog != nil {
		expiresAt := time.Now().Add(h.sessionManager.TTL())
		if err := h.sessionLog.CreateSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("record session", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, user.Profile())
}

func (h *Handler) handleWebLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if h.sessionLog != nil {
			if err := h.sessionLog.DeleteSession(r.Context(), sess.ID); err != nil {
				h.logger.Warn("remove session record", slog.Any("error", err))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
