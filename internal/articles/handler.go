package articles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gazette-news/gazette/internal/platform/httpx"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
)

// Handler exposes article endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountPublicRoutes registers endpoints readable without authentication.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/articles", h.list)
	r.Get("/articles/{id}", h.get)
}

// MountWriterRoutes registers draft creation. The caller wraps the group
// in the pipeline chain requiring article.create.
func (h *Handler) MountWriterRoutes(r chi.Router) {
	r.Post("/articles", h.create)
}

// MountUpdateRoutes registers content revision, gated on article.update.
func (h *Handler) MountUpdateRoutes(r chi.Router) {
	r.Patch("/articles/{id}", h.update)
}

// MountApproveRoutes registers approval, gated on article.approve.
func (h *Handler) MountApproveRoutes(r chi.Router) {
	r.Post("/articles/{id}/approve", h.approve)
}

// MountDeleteRoutes registers deletion, gated on article.delete.
func (h *Handler) MountDeleteRoutes(r chi.Router) {
	r.Delete("/articles/{id}", h.delete)
}

type createArticleRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
	Body  string `json:"body" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor := principal.FromContext(r.Context())
	if actor == nil {
		// The pipeline guarantees a principal here; a miss is a wiring bug.
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req createArticleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "title and body are required")
		return
	}

	article, err := h.service.Create(r.Context(), CreateInput{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: actor.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, article)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}

	var req createArticleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "title and body are required")
		return
	}

	article, err := h.service.Update(r.Context(), id, UpdateInput{Title: req.Title, Body: req.Body})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}
	article, err := h.service.Approve(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid article id")
		return
	}
	article, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	// Drafts stay invisible outside the newsroom.
	if article.Status != StatusPublished && principal.FromContext(r.Context()) == nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	items, total, err := h.service.ListPublished(r.Context(), perPage, shared.Offset(page, perPage))
	if err != nil {
		h.logger.Error("list articles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"articles":   items,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func articleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
