package comments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
)

// Handler exposes comment endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the comment listing.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/articles/{id}/comments", h.list)
}

// MountReaderRoutes registers comment creation. The caller wraps the
// group in the pipeline chain requiring comment.create.
func (h *Handler) MountReaderRoutes(r chi.Router) {
	r.Post("/articles/{id}/comments", h.create)
}

// MountEditorRoutes registers comment deletion. The caller wraps the
// group in the pipeline chain requiring comment.delete.
func (h *Handler) MountEditorRoutes(r chi.Router) {
	r.Delete("/comments/{id}", h.delete)
}

type createCommentRequest struct {
	Body string `json:"body"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor := principal.FromContext(r.Context())
	if actor == nil {
		// The pipeline guarantees a principal here; a miss is a wiring bug.
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	articleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}

	var req createCommentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}

	comment, err := h.service.Create(r.Context(), articleID, actor.UserID, req.Body)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, comment)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	articleID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}

	page, perPage := shared.PageFromRequest(r)
	items, total, err := h.service.ListByArticle(r.Context(), articleID, perPage, shared.Offset(page, perPage))
	if err != nil {
		h.logger.Error("list comments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"comments":   items,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid comment id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
