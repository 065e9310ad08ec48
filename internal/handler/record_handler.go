package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/behavior-rubric/internal/service"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
	"github.com/noah-isme/behavior-rubric/pkg/response"
)

// RecordHandler exposes scored record endpoints.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Get godoc
// @Summary Get (or lazily create) the record for a date and student
// @Tags Records
// @Produce json
// @Param date path string true "ISO date (YYYY-MM-DD)"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /records/{date}/{studentId} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	view, err := h.records.GetOrCreate(c.Param("date"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Update godoc
// @Summary Patch scores, comments, note or staff on a record
// @Tags Records
// @Accept json
// @Produce json
// @Param date path string true "ISO date (YYYY-MM-DD)"
// @Param studentId path string true "Student ID"
// @Param payload body service.UpdateRecordRequest true "Record patch"
// @Success 200 {object} response.Envelope
// @Router /records/{date}/{studentId} [patch]
func (h *RecordHandler) Update(c *gin.Context) {
	var req service.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.records.Update(c.Param("date"), c.Param("studentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Summary godoc
// @Summary Get derived totals for a date and student
// @Tags Records
// @Produce json
// @Param date path string true "ISO date (YYYY-MM-DD)"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /records/{date}/{studentId}/summary [get]
func (h *RecordHandler) Summary(c *gin.Context) {
	view, err := h.records.GetOrCreate(c.Param("date"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view.Summary)
}

// GetSelection godoc
// @Summary Get the active (date, student) selection
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /selection [get]
func (h *RecordHandler) GetSelection(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.GetSelection())
}

// SetSelection godoc
// @Summary Update the active (date, student) selection
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body service.SetSelectionRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /selection [put]
func (h *RecordHandler) SetSelection(c *gin.Context) {
	var req service.SetSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sel, err := h.records.SetSelection(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sel)
}
