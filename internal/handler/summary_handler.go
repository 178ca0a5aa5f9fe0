package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thesisdesk/defense-api/internal/models"
	"github.com/thesisdesk/defense-api/internal/service"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type summaryService interface {
	Get(ctx context.Context, topicID string, role models.EvaluatorRole) (*service.SummaryResult, error)
	Upsert(ctx context.Context, topicID string, role models.EvaluatorRole, authorID string, rawPayload json.RawMessage) error
	MigrateLegacy(ctx context.Context) (int, error)
}

// SummaryHandler exposes the role summary document endpoints.
type SummaryHandler struct {
	summaries summaryService
}

// NewSummaryHandler constructs handler.
func NewSummaryHandler(summaries summaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

// summaryRole maps the URL segment onto an evaluator role. "council" is the
// public name of the committee summary.
func summaryRole(segment string) (models.EvaluatorRole, bool) {
	switch segment {
	case "supervisor":
		return models.RoleSupervisor, true
	case "reviewer":
		return models.RoleReviewer, true
	case "council", "committee":
		return models.RoleCommittee, true
	}
	return "", false
}

// Get godoc
// @Summary Read a topic's role summary document
// @Tags Summaries
// @Produce json
// @Param topicId path string true "Topic"
// @Param role path string true "supervisor|reviewer|council"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/summaries/{role} [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	role, ok := summaryRole(c.Param("role"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown summary role"))
		return
	}
	result, err := h.summaries.Get(c.Request.Context(), c.Param("topicId"), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Upsert godoc
// @Summary Write a topic's role summary document
// @Tags Summaries
// @Accept json
// @Produce json
// @Param topicId path string true "Topic"
// @Param role path string true "supervisor|reviewer|council"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/summaries/{role} [put]
func (h *SummaryHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	role, ok := summaryRole(c.Param("role"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown summary role"))
		return
	}
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.summaries.Upsert(c.Request.Context(), c.Param("topicId"), role, claims.UserID, raw); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "saved"}, nil)
}

// MigrateLegacy godoc
// @Summary Promote legacy raw-text summaries to the structured shape
// @Tags Summaries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /summaries/migrate-legacy [post]
func (h *SummaryHandler) MigrateLegacy(c *gin.Context) {
	promoted, err := h.summaries.MigrateLegacy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"promoted": promoted}, nil)
}
