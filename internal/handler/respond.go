package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/middleware"
	"github.com/abmah/green-jordan-backend/pkg/errors"
	"github.com/abmah/green-jordan-backend/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondDomainError maps workflow errors onto the structured error
// response. Unknown errors become opaque 500s; the original is logged,
// never leaked.
func respondDomainError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	} else {
		log.WithError(err).WithField("path", r.URL.Path).Debug("Request rejected")
	}

	var response errors.ErrorResponse
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.RequestID = middleware.RequestIDFromContext(r.Context())
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, domain.ErrUserNotFound),
		stderrors.Is(err, domain.ErrTeamNotFound),
		stderrors.Is(err, domain.ErrRedeemableNotFound),
		stderrors.Is(err, domain.ErrNoSuchRequest):
		return errors.NewNotFoundError(err.Error())

	case stderrors.Is(err, domain.ErrNotAdmin):
		return errors.NewAuthorizationError(err.Error())

	case stderrors.Is(err, domain.ErrAlreadyInTeam),
		stderrors.Is(err, domain.ErrAlreadyMember),
		stderrors.Is(err, domain.ErrDuplicateRequest),
		stderrors.Is(err, domain.ErrAlreadyResolved),
		stderrors.Is(err, domain.ErrCannotRemoveAdmin),
		stderrors.Is(err, domain.ErrAdminMustDelete),
		stderrors.Is(err, domain.ErrNotAMember),
		stderrors.Is(err, domain.ErrInsufficientFunds),
		stderrors.Is(err, domain.ErrItemUnavailable):
		return errors.NewConflictError(err.Error())

	default:
		return errors.NewInternalError("An unexpected error occurred", err)
	}
}
