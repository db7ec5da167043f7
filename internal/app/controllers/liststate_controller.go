package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/liststate"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/middleware"
)

// ListStateController handles the persisted list view state
type ListStateController struct {
	listStateService services.ListStateService
}

// NewListStateController creates a new ListStateController
func NewListStateController(listStateService services.ListStateService) *ListStateController {
	return &ListStateController{listStateService: listStateService}
}

// GetListState handles restoring the session's list view state
// @Summary Get list view state
// @Description Returns the saved view state with any recognized URL query parameters overlaid; URL parameters win over the snapshot.
// @Tags list-state
// @Produce json
// @Success 200 {object} liststate.State
// @Failure 401 {object} dto.ErrorResponse
// @Router /list-state [get]
func (c *ListStateController) GetListState(ctx *gin.Context) {
	state, err := c.listStateService.Load(ctx.Request.Context(), middleware.SessionID(ctx), ctx.Request.URL.Query())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// PutListState handles saving the session's list view state
// @Summary Save list view state
// @Tags list-state
// @Accept json
// @Produce json
// @Param state body liststate.State true "View state snapshot"
// @Success 200 {object} liststate.State
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /list-state [put]
func (c *ListStateController) PutListState(ctx *gin.Context) {
	state := liststate.New()
	if !middleware.BindJSON(ctx, state) {
		return
	}

	if err := c.listStateService.Save(ctx.Request.Context(), middleware.SessionID(ctx), state); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}
