package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/campusgrid-api/internal/service"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
	"github.com/campusgrid/campusgrid-api/pkg/response"
)

// ExportHandler serves timetable downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// SectionTimetable godoc
// @Summary Download a section's weekly timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Section ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/timetable/{id} [get]
func (h *ExportHandler) SectionTimetable(c *gin.Context) {
	var result *service.ExportResult
	var err error
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		result, err = h.exports.SectionTimetableCSV(c.Request.Context(), c.Param("id"))
	case "pdf":
		result, err = h.exports.SectionTimetablePDF(c.Request.Context(), c.Param("id"))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
