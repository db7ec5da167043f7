package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/regdesk/internal/app/models/dto"
	"github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/middleware"
	"github.com/deniz/regdesk/internal/pkg/apperrors"
)

// NoteController handles student note operations
type NoteController struct {
	noteService services.NoteService
}

// NewNoteController creates a new NoteController
func NewNoteController(noteService services.NoteService) *NoteController {
	return &NoteController{noteService: noteService}
}

// ListNotes handles retrieving all notes on a student
// @Summary List a student's notes
// @Tags notes
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} dto.NoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id}/notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	notes, err := c.noteService.ListByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, notes)
}

// CreateNote handles adding a note to a student
// @Summary Add a note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param note body dto.NoteContentRequest true "Note content"
// @Success 201 {object} dto.NoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id}/notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.NoteContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	note, err := c.noteService.Create(ctx.Request.Context(), studentID, actor.ID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromNote(note)
	resp.CreatedByName = actor.Name
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateNote handles editing a note's content
// @Summary Edit a note
// @Description Only the note's author may edit it; system generated notes are immutable.
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param note body dto.NoteContentRequest true "New content"
// @Success 200 {object} dto.NoteResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{id} [put]
func (c *NoteController) UpdateNote(ctx *gin.Context) {
	noteID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.NoteContentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	note, err := c.noteService.Update(ctx.Request.Context(), noteID, actor.ID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FromNote(note))
}

// DeleteNote handles removing a note
// @Summary Delete a note
// @Description Only the note's author may delete it; system generated notes are immutable.
// @Tags notes
// @Param id path int true "Note ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	noteID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(ctx)
	if actor == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	if err := c.noteService.Delete(ctx.Request.Context(), noteID, actor.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
