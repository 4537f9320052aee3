package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden

	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return "Authentication required"

	case errors.Is(err, auth.ErrForbidden):
		return "Insufficient permissions"

	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, domain.ErrInvalidID):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid task data"

	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"

	case errors.Is(err, store.ErrTransactionFailed):
		return "Failed to save changes"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation errors carry their
// joined field messages plus a per-field map; everything else is reduced to
// a safe message. An empty message selects GetSafeErrorMessage(err).
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.HasErrors() {
		fields := make(map[string]string, len(verr.Errors()))
		for _, fe := range verr.Errors() {
			fields[fe.Field] = fe.Message
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, verr.Error(), err,
			shared.WithFields(fields))
		return
	}

	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}
