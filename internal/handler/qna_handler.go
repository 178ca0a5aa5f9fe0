package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thesisdesk/defense-api/internal/models"
	"github.com/thesisdesk/defense-api/internal/service"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type qnaService interface {
	AddQuestion(ctx context.Context, req service.AddQuestionRequest) (*models.QnAEntry, error)
	SetAnswer(ctx context.Context, qnaID, answer, secretaryID string) (*models.QnAEntry, error)
	ListByTopic(ctx context.Context, topicID, readerID string) ([]models.QnAEntry, error)
}

type secretaryChecker interface {
	SecretaryAccess(ctx context.Context, identity, topicID string) (bool, error)
}

// QnAHandler exposes the defense question log endpoints.
type QnAHandler struct {
	qna    qnaService
	access secretaryChecker
}

// NewQnAHandler constructs handler.
func NewQnAHandler(qna qnaService, access secretaryChecker) *QnAHandler {
	return &QnAHandler{qna: qna, access: access}
}

// List godoc
// @Summary List a topic's defense questions in ask order
// @Tags QnA
// @Produce json
// @Param topicId path string true "Topic"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/qna [get]
func (h *QnAHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	entries, err := h.qna.ListByTopic(c.Request.Context(), c.Param("topicId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// AddQuestion godoc
// @Summary Append a committee question to a topic's log
// @Tags QnA
// @Accept json
// @Produce json
// @Param topicId path string true "Topic"
// @Success 201 {object} response.Envelope
// @Router /topics/{topicId}/qna [post]
func (h *QnAHandler) AddQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.TopicID = c.Param("topicId")
	req.SecretaryID = claims.UserID
	entry, err := h.qna.AddQuestion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

type setAnswerRequest struct {
	Answer string `json:"answer"`
}

// SetAnswer godoc
// @Summary Record the student's answer on a question
// @Tags QnA
// @Accept json
// @Produce json
// @Param id path string true "Question"
// @Success 200 {object} response.Envelope
// @Router /qna/{id}/answer [put]
func (h *QnAHandler) SetAnswer(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req setAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.qna.SetAnswer(c.Request.Context(), c.Param("id"), req.Answer, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// SecretaryAccess godoc
// @Summary Report whether the caller is the topic's assigned secretary
// @Tags QnA
// @Produce json
// @Param topicId path string true "Topic"
// @Param secretaryId query string false "Lecturer to check, defaults to the caller"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/secretary-access [get]
func (h *QnAHandler) SecretaryAccess(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	secretaryID := c.DefaultQuery("secretaryId", claims.UserID)
	ok, err := h.access.SecretaryAccess(c.Request.Context(), secretaryID, c.Param("topicId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, models.SecretaryAccess{HasAccess: ok}, nil)
}
