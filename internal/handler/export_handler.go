package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/behavior-rubric/internal/service"
	"github.com/noah-isme/behavior-rubric/pkg/response"
)

// ExportHandler serves rendered downloads of the active record and settings.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RecordCSV godoc
// @Summary Download the active record as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200
// @Router /exports/record.csv [get]
func (h *ExportHandler) RecordCSV(c *gin.Context) {
	h.download(c, h.exports.RecordCSV)
}

// SettingsJSON godoc
// @Summary Download the settings as JSON
// @Tags Exports
// @Produce json
// @Success 200
// @Router /exports/settings.json [get]
func (h *ExportHandler) SettingsJSON(c *gin.Context) {
	h.download(c, h.exports.SettingsJSON)
}

// PrintPDF godoc
// @Summary Download the print surface (summary + rubric matrix) as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200
// @Router /print [get]
func (h *ExportHandler) PrintPDF(c *gin.Context) {
	h.download(c, h.exports.PrintPDF)
}

func (h *ExportHandler) download(c *gin.Context, build func() (*service.ExportResult, error)) {
	result, err := build()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
