package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
	"github.com/deniz/regdesk/internal/pkg/logger"
)

// HandleAPIError converts an application error into the standard error
// response. Sentinel errors map to fixed status/code pairs; everything else
// is an internal server error.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := err.Error()
	var details interface{}
	if errors.As(err, &custom) && custom.Details != nil {
		details = custom.Details
	}

	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrNoteNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message, details)

	case errors.Is(err, apperrors.ErrStudentEmailExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message, details)

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", nil)

	case errors.Is(err, apperrors.ErrSessionExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeSessionExpired, "Session expired", nil)

	case errors.Is(err, apperrors.ErrSessionNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", nil)

	case errors.Is(err, apperrors.ErrNoteNotEditable),
		errors.Is(err, apperrors.ErrNotNoteAuthor),
		errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, message, details)

	case errors.Is(err, apperrors.ErrCSVParseFailed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeCSVParseFailed, message, details)

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidStudentStatus),
		errors.Is(err, apperrors.ErrInvalidSortColumn),
		errors.Is(err, apperrors.ErrInvalidRegistrationDate),
		errors.Is(err, apperrors.ErrNoteTooLong),
		errors.Is(err, apperrors.ErrEmptyImport):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message, details)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", nil)
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string, details interface{}) {
	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}
