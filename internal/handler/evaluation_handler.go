package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thesisdesk/defense-api/internal/models"
	"github.com/thesisdesk/defense-api/internal/service"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type evaluationService interface {
	Submit(ctx context.Context, req service.SubmitEvaluationRequest) (*models.Evaluation, error)
	Get(ctx context.Context, topicID, evaluatorID string, role models.EvaluatorRole) (*models.Evaluation, error)
	ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error)
}

type scoreService interface {
	FinalScoreFor(ctx context.Context, topicID string) (*models.FinalScore, error)
}

type taskService interface {
	Tasks(ctx context.Context, evaluatorID string, date *time.Time, scope models.TaskScope) ([]models.EvaluatorTask, error)
}

// EvaluationHandler exposes defense grading endpoints.
type EvaluationHandler struct {
	evaluations evaluationService
	scores      scoreService
	tasks       taskService
}

// NewEvaluationHandler constructs handler.
func NewEvaluationHandler(evaluations evaluationService, scores scoreService, tasks taskService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations, scores: scores, tasks: tasks}
}

// Submit godoc
// @Summary Submit a role evaluation for a topic
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body service.SubmitEvaluationRequest true "Evaluation payload"
// @Success 200 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.EvaluatorID = claims.UserID
	eval, err := h.evaluations.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, eval, nil)
}

// ListByTopic godoc
// @Summary List a topic's evaluations
// @Tags Evaluations
// @Produce json
// @Param topicId query string true "Topic"
// @Success 200 {object} response.Envelope
// @Router /evaluations [get]
func (h *EvaluationHandler) ListByTopic(c *gin.Context) {
	topicID := c.Query("topicId")
	if topicID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "topicId required"))
		return
	}
	evals, err := h.evaluations.ListByTopic(c.Request.Context(), topicID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evals, nil)
}

// FinalScore godoc
// @Summary Compute a topic's weighted final score
// @Tags Evaluations
// @Produce json
// @Param topicId path string true "Topic"
// @Success 200 {object} response.Envelope
// @Router /topics/{topicId}/final-score [get]
func (h *EvaluationHandler) FinalScore(c *gin.Context) {
	score, err := h.scores.FinalScoreFor(c.Request.Context(), c.Param("topicId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, score, nil)
}

// Tasks godoc
// @Summary List an evaluator's grading worklist
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluator"
// @Param date query string false "Defense date (YYYY-MM-DD)"
// @Param scope query string false "all|today|upcoming"
// @Success 200 {object} response.Envelope
// @Router /evaluators/{id}/tasks [get]
func (h *EvaluationHandler) Tasks(c *gin.Context) {
	evaluatorID := c.Param("id")
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = &parsed
	}
	scope := models.TaskScope(c.DefaultQuery("scope", string(models.TaskScopeAll)))
	tasks, err := h.tasks.Tasks(c.Request.Context(), evaluatorID, date, scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}
