// Package middleware provides gin middleware and request-boundary helpers:
// session authentication, error response mapping and body validation.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/deniz/regdesk/internal/app/models/dto"
)

// BindJSON binds the request body into obj and writes the standard
// validation error response on failure. Returns false when the request
// was rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			validationErrors := dto.NewValidationErrors()
			for _, fe := range fieldErrs {
				validationErrors.AddError(fe.Field(), formatValidationError(fe))
			}
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
				WithDetails(validationErrors.Errors)
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return false
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
