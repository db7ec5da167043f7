package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/models"
	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/app/services"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "regdesk_session"

const (
	contextUserKey    = "currentUser"
	contextSessionKey = "sessionID"
)

// SessionAuth requires a valid session cookie and loads the current user
// into the request context.
func SessionAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), sessionID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextSessionKey, sessionID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by SessionAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SessionID returns the session identifier set by SessionAuth.
func SessionID(c *gin.Context) string {
	return c.GetString(contextSessionKey)
}
