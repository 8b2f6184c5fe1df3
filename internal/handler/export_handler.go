package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

type exportService interface {
	ReportSummary(ctx context.Context, studentID int64, format dto.ExportFormat) (*dto.ExportFile, error)
}

// ExportHandler streams report summaries as CSV or PDF.
type ExportHandler struct {
	exports exportService
	enabled bool
}

// NewExportHandler constructs ExportHandler. A disabled handler answers 404.
func NewExportHandler(exports exportService, enabled bool) *ExportHandler {
	return &ExportHandler{exports: exports, enabled: enabled}
}

// ReportSummary godoc
// @Summary Export a student's report summary
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/reports/export [get]
func (h *ExportHandler) ReportSummary(c *gin.Context) {
	if !h.enabled || h.exports == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	format := dto.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))
	file, err := h.exports.ReportSummary(c.Request.Context(), id, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
