package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/middleware"
)

// AuthController handles account registration and the session lifecycle
type AuthController struct {
	authService      services.AuthService
	listStateService services.ListStateService
	sessionTTL       time.Duration
	secureCookie     bool
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, listStateService services.ListStateService, sessionTTL time.Duration, secureCookie bool) *AuthController {
	return &AuthController{
		authService:      authService,
		listStateService: listStateService,
		sessionTTL:       sessionTTL,
		secureCookie:     secureCookie,
	}
}

// Register handles operator account creation
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromUser(user)))
}

// Login handles credential verification and opens a session
// @Summary Log in
// @Description Verifies credentials and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, sess, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetCookie(middleware.SessionCookie, sess.ID, int(c.sessionTTL.Seconds()), "/", "", c.secureCookie, true)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user)))
}

// Logout handles ending the current session
// @Summary Log out
// @Description Ends the session, clears the cookie and drops the saved list view state.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	sessionID, err := ctx.Cookie(middleware.SessionCookie)
	if err == nil && sessionID != "" {
		if err := c.authService.Logout(ctx.Request.Context(), sessionID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		// The saved view state belongs to the session; drop it with it.
		_ = c.listStateService.Clear(ctx.Request.Context(), sessionID)
	}

	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.secureCookie, true)
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Logged out"))
}

// Me handles returning the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user)))
}
