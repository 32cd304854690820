package httpx

import (
	"errors"
	"net/http"

	"github.com/gazette-news/gazette/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. Anything not
// matching a known sentinel is treated as internal and surfaced without
// detail; the caller is responsible for logging the underlying error.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
