package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/behavior-rubric/internal/service"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
	"github.com/noah-isme/behavior-rubric/pkg/response"
)

// SettingsHandler exposes the taxonomy endpoints.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.Get())
}

// Import godoc
// @Summary Import settings from JSON
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/import [post]
func (h *SettingsHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrImportValidation.Code, appErrors.ErrImportValidation.Status, "could not read settings file"))
		return
	}
	settings, err := h.settings.Replace(data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// AddCategory godoc
// @Summary Add category
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.AddTaxonomyRequest false "Optional name"
// @Success 201 {object} response.Envelope
// @Router /settings/categories [post]
func (h *SettingsHandler) AddCategory(c *gin.Context) {
	var req service.AddTaxonomyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	settings, err := h.settings.AddCategory(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, settings)
}

// RenameCategory godoc
// @Summary Rename category
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param payload body service.RenameRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /settings/categories/{id} [patch]
func (h *SettingsHandler) RenameCategory(c *gin.Context) {
	var req service.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.RenameCategory(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// RemoveCategory godoc
// @Summary Remove category
// @Tags Settings
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Envelope
// @Router /settings/categories/{id} [delete]
func (h *SettingsHandler) RemoveCategory(c *gin.Context) {
	settings, err := h.settings.RemoveCategory(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// AddPeriod godoc
// @Summary Add period
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.AddTaxonomyRequest false "Optional name"
// @Success 201 {object} response.Envelope
// @Router /settings/periods [post]
func (h *SettingsHandler) AddPeriod(c *gin.Context) {
	var req service.AddTaxonomyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	settings, err := h.settings.AddPeriod(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, settings)
}

// RenamePeriod godoc
// @Summary Rename period
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param payload body service.RenameRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /settings/periods/{id} [patch]
func (h *SettingsHandler) RenamePeriod(c *gin.Context) {
	var req service.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.RenamePeriod(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// RemovePeriod godoc
// @Summary Remove period
// @Tags Settings
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /settings/periods/{id} [delete]
func (h *SettingsHandler) RemovePeriod(c *gin.Context) {
	settings, err := h.settings.RemovePeriod(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// SetScale godoc
// @Summary Change scale ceiling
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.SetScaleRequest true "Scale payload"
// @Success 200 {object} response.Envelope
// @Router /settings/scale [put]
func (h *SettingsHandler) SetScale(c *gin.Context) {
	var req service.SetScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.SetScale(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// SetScaleLabel godoc
// @Summary Change a scale level label
// @Tags Settings
// @Accept json
// @Produce json
// @Param level path int true "Scale level"
// @Param payload body service.SetScaleLabelRequest true "Label payload"
// @Success 200 {object} response.Envelope
// @Router /settings/scale/labels/{level} [put]
func (h *SettingsHandler) SetScaleLabel(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "level must be an integer"))
		return
	}
	var req service.SetScaleLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.SetScaleLabel(level, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// SetGoal godoc
// @Summary Change goal threshold
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.SetGoalRequest true "Goal payload"
// @Success 200 {object} response.Envelope
// @Router /settings/goal [put]
func (h *SettingsHandler) SetGoal(c *gin.Context) {
	var req service.SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.SetGoal(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}
