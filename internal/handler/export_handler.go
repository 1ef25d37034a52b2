package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/faculty-directory-api/internal/service"
	"github.com/noah-isme/faculty-directory-api/pkg/response"
)

// ExportHandler serves CSV and PDF downloads of directory data.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Directory godoc
// @Summary Export the professor directory
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/directory [get]
func (h *ExportHandler) Directory(c *gin.Context) {
	result, err := h.service.Directory(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

// ProfessorSchedule godoc
// @Summary Export one professor's timetable
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param id path int true "Professor ID"
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {file} file
// @Router /exports/professors/{id}/schedule [get]
func (h *ExportHandler) ProfessorSchedule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.ProfessorSchedule(c.Request.Context(), id, c.DefaultQuery("format", "pdf"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

// Roster godoc
// @Summary Export the full schedule roster
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(pdf)
// @Success 200 {file} file
// @Router /exports/schedules [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	result, err := h.service.FullRoster(c.Request.Context(), c.DefaultQuery("format", "pdf"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

func serveDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Content)
}
