package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/behavior-rubric/internal/service"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
	"github.com/noah-isme/behavior-rubric/pkg/response"
)

// RosterHandler exposes student roster endpoints.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// List godoc
// @Summary List students
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.List())
}

// Create godoc
// @Summary Add student
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *RosterHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.roster.Add(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Rename godoc
// @Summary Rename student
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *RosterHandler) Rename(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.roster.Rename(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Remove student
// @Tags Roster
// @Produce json
// @Param id path string true "Student ID"
// @Param confirm query bool true "Must be true to confirm the removal"
// @Success 204
// @Router /students/{id} [delete]
func (h *RosterHandler) Delete(c *gin.Context) {
	confirm := c.Query("confirm") == "true"
	if err := h.roster.Remove(c.Param("id"), confirm); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
