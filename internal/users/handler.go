package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
)

// Handler exposes staff user management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers team user routes. The caller wraps them in the
// pipeline chain requiring team.user.update.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Get("/users/{id}", h.get)
	r.Patch("/users/{id}", h.update)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	list, total, err := h.service.List(r.Context(), perPage, shared.Offset(page, perPage))
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	profiles := make([]Profile, 0, len(list))
	for i := range list {
		profiles = append(profiles, list[i].Profile())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      profiles,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user.Profile())
}

type updateRequest struct {
	Nickname    *string `json:"nickname"`
	DisplayName *string `json:"displayName"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor := principal.FromContext(r.Context())
	if actor == nil {
		// The pipeline guarantees a principal here; a miss is a wiring bug.
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}

	input := UpdateInput{
		Nickname:    req.Nickname,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	}
	if req.Role != nil {
		role, err := authz.ParseRole(*req.Role)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unknown role")
			return
		}
		input.Role = &role
	}

	updated, err := h.service.UpdateUser(r.Context(), actor.Role, chi.URLParam(r, "id"), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated.Profile())
}
