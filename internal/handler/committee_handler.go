package handler

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type committeeService interface {
	MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error)
	Session(ctx context.Context, topicID string) (*models.DefenseSession, error)
}

// CommitteeHandler serves the read-only committee and schedule views.
type CommitteeHandler struct {
	committee committeeService
}

// NewCommitteeHandler constructs handler.
func NewCommitteeHandler(committee committeeService) *CommitteeHandler {
	return &CommitteeHandler{committee: committee}
}

// Members godoc
// @Summary List a topic's defense committee seats
// @Tags Committees
// @Produce json
// @Param topicId path string true "Topic"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/committee [get]
func (h *CommitteeHandler) Members(c *gin.Context) {
	members, err := h.committee.MembersByTopic(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committee"))
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Session godoc
// @Summary Read a topic's scheduled defense slot
// @Tags Committees
// @Produce json
// @Param topicId path string true "Topic"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/session [get]
func (h *CommitteeHandler) Session(c *gin.Context) {
	session, err := h.committee.Session(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		if err == sql.ErrNoRows {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no defense session scheduled"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load defense session"))
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
