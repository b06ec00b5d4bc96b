package handlers

import (
	"errors"
	"net/http"

	"github.com/meetcircle/connections-api/config"
	"github.com/meetcircle/connections-api/scheduling"
)

// engineErrorStatus maps the scheduling error taxonomy onto HTTP statuses.
// Unrecognized errors come out as 500.
func engineErrorStatus(w http.ResponseWriter, err error) {
	var (
		validation *scheduling.ValidationError
		authz      *scheduling.AuthorizationError
		conflict   *scheduling.ConflictError
		notFound   *scheduling.NotFoundError
		transient  *scheduling.TransientError
	)

	switch {
	case errors.As(err, &validation):
		config.ErrorStatus("invalid request", http.StatusBadRequest, w, err)
	case errors.As(err, &authz):
		config.ErrorStatus("not permitted", http.StatusForbidden, w, err)
	case errors.As(err, &notFound):
		config.ErrorStatus("not found", http.StatusNotFound, w, err)
	case errors.As(err, &conflict):
		config.ErrorStatus("state conflict", http.StatusConflict, w, err)
	case errors.As(err, &transient):
		config.ErrorStatus("temporarily unavailable", http.StatusServiceUnavailable, w, err)
	default:
		config.ErrorStatus("internal error", http.StatusInternalServerError, w, err)
	}
}
