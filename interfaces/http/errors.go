package http

import (
	"errors"
	"net/http"

	"social-hub/domain/model"
)

// statusForError maps the request-level error taxonomy to HTTP statuses.
// Per-platform failures never reach here; they ride inside a 200 response.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForgery):
		return http.StatusForbidden
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrNoActiveConnections):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProviderRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
