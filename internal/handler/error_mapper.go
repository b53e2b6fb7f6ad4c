package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/middleware"
	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	var verr *model.ValidationError

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewLoginFailedError()

	// ===== Not Found Errors → 404 =====
	// A caller who does not own a guild is told it does not exist.
	case errors.Is(err, service.ErrGuildNotFound),
		errors.Is(err, service.ErrNotGuildOwner):
		return model.NewNotFoundError("guild")
	case errors.Is(err, service.ErrPlayerNotFound):
		return model.NewNotFoundError("player")
	case errors.Is(err, service.ErrInviteNotFound):
		return model.NewNotFoundError("invite")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrLastOwner):
		return model.NewLastOwnerError()
	case errors.Is(err, service.ErrPlayerNameTaken):
		return model.NewAlreadyExistsError(err.Error())
	case errors.Is(err, service.ErrAlreadyGuildMember):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "password", Message: err.Error()}})
	case errors.As(err, &verr):
		return model.NewValidationError(verr.Fields)

	// ===== Storage Errors → 500 =====
	case errors.Is(err, database.ErrStorage):
		return model.NewStorageError()

	default:
		return model.NewInternalError("")
	}
}

// handleError writes the mapped problem and logs anything that surfaced as
// a server error.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	WriteError(w, problem)
}
