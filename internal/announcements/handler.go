package announcements

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
)

// Handler exposes announcement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the announcement listing.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/announcements", h.list)
}

// MountCoordRoutes registers creation, gated on announcement.create.
func (h *Handler) MountCoordRoutes(r chi.Router) {
	r.Post("/announcements", h.create)
}

// MountAdminRoutes registers deletion, gated on announcement.delete.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Delete("/announcements/{id}", h.delete)
}

type createAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor := principal.FromContext(r.Context())
	if actor == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req createAnnouncementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}

	a, err := h.service.Create(r.Context(), req.Title, req.Body, actor.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	items, total, err := h.service.List(r.Context(), perPage, shared.Offset(page, perPage))
	if err != nil {
		h.logger.Error("list announcements", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"announcements": items,
		"pagination":    shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid announcement id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
