package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thesisdesk/defense-api/internal/service"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type exportService interface {
	ScoreSheet(ctx context.Context, topicID, format string) (*service.ExportResult, error)
}

// ExportHandler serves score sheet downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ScoreSheet godoc
// @Summary Download a topic's defense score sheet
// @Tags Exports
// @Produce application/pdf
// @Param topicId path string true "Topic"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Router /topics/{topicId}/score-sheet [get]
func (h *ExportHandler) ScoreSheet(c *gin.Context) {
	result, err := h.exports.ScoreSheet(c.Request.Context(), c.Param("topicId"), c.DefaultQuery("format", "pdf"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
