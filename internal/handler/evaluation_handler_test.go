package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesisdesk/defense-api/internal/middleware"
	"github.com/thesisdesk/defense-api/internal/models"
	"github.com/thesisdesk/defense-api/internal/service"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/response"
)

type evaluationServiceMock struct {
	submitted *service.SubmitEvaluationRequest
	submitErr error
	listResp  []models.Evaluation
}

func (m *evaluationServiceMock) Submit(ctx context.Context, req service.SubmitEvaluationRequest) (*models.Evaluation, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = &req
	return &models.Evaluation{TopicID: req.TopicID, EvaluatorID: req.EvaluatorID, Role: req.Role}, nil
}

func (m *evaluationServiceMock) Get(ctx context.Context, topicID, evaluatorID string, role models.EvaluatorRole) (*models.Evaluation, error) {
	return nil, appErrors.ErrNotFound
}

func (m *evaluationServiceMock) ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error) {
	return m.listResp, nil
}

type scoreServiceMock struct {
	resp *models.FinalScore
}

func (m *scoreServiceMock) FinalScoreFor(ctx context.Context, topicID string) (*models.FinalScore, error) {
	return m.resp, nil
}

type taskServiceMock struct {
	scope models.TaskScope
	date  *time.Time
}

func (m *taskServiceMock) Tasks(ctx context.Context, evaluatorID string, date *time.Time, scope models.TaskScope) ([]models.EvaluatorTask, error) {
	m.scope = scope
	m.date = date
	return []models.EvaluatorTask{}, nil
}

func TestEvaluationHandlerSubmitUsesCallerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &evaluationServiceMock{}
	handler := NewEvaluationHandler(svc, &scoreServiceMock{}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]interface{}{
		"topic_id":        "topic-1",
		"student_id":      "student-1",
		"evaluation_type": "SUPERVISOR",
		"scores":          map[string]float64{"format": 1.0},
	})
	req, _ := http.NewRequest(http.MethodPost, "/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "lect-1", Role: models.RoleLecturer})

	handler.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, "lect-1", svc.submitted.EvaluatorID, "identity comes from the token, not the payload")
}

func TestEvaluationHandlerSubmitUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEvaluationHandler(&evaluationServiceMock{}, &scoreServiceMock{}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/evaluations", bytes.NewReader([]byte(`{}`)))
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvaluationHandlerSubmitPropagatesDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &evaluationServiceMock{submitErr: appErrors.ErrScoreOutOfRange}
	handler := NewEvaluationHandler(svc, &scoreServiceMock{}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]interface{}{
		"topic_id":        "topic-1",
		"student_id":      "student-1",
		"evaluation_type": "SUPERVISOR",
		"scores":          map[string]float64{"format": 99.0},
	})
	req, _ := http.NewRequest(http.MethodPost, "/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "lect-1", Role: models.RoleLecturer})

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrScoreOutOfRange.Code, envelope.Error.Code)
}

func TestEvaluationHandlerListRequiresTopicID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEvaluationHandler(&evaluationServiceMock{}, &scoreServiceMock{}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/evaluations", nil)
	c.Request = req

	handler.ListByTopic(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluationHandlerFinalScore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	final := 7.75
	handler := NewEvaluationHandler(&evaluationServiceMock{}, &scoreServiceMock{resp: &models.FinalScore{
		TopicID:    "topic-1",
		FinalScore: &final,
		Status:     models.StatusCompleted,
	}}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/topics/topic-1/final-score", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "topicId", Value: "topic-1"}}

	handler.FinalScore(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "7.75")
	assert.Contains(t, w.Body.String(), "COMPLETED")
}

func TestEvaluationHandlerTasksParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tasks := &taskServiceMock{}
	handler := NewEvaluationHandler(&evaluationServiceMock{}, &scoreServiceMock{}, tasks)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/evaluators/lect-1/tasks?scope=today", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "lect-1"}}

	handler.Tasks(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TaskScopeToday, tasks.scope)
	assert.Nil(t, tasks.date)
}

func TestEvaluationHandlerTasksRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEvaluationHandler(&evaluationServiceMock{}, &scoreServiceMock{}, &taskServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/evaluators/lect-1/tasks?date=01-06-2026", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "lect-1"}}

	handler.Tasks(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
