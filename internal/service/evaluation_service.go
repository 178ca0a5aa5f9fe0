package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type evaluationRepo interface {
	Upsert(ctx context.Context, eval *models.Evaluation) error
	Find(ctx context.Context, topicID, evaluatorID string, role models.EvaluatorRole) (*models.Evaluation, error)
	ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error)
	ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.Evaluation, error)
}

type accessGuard interface {
	Authorize(ctx context.Context, identity, topicID string, action models.DefenseAction) error
}

type scoreInvalidator interface {
	Invalidate(ctx context.Context, topicID string)
}

// SubmitEvaluationRequest is a single role evaluation payload. Scores holds
// only the criteria the evaluator has filled in; missing criteria count as
// zero toward the total and leave the record incomplete.
type SubmitEvaluationRequest struct {
	TopicID     string               `json:"topic_id" validate:"required"`
	StudentID   string               `json:"student_id" validate:"required"`
	EvaluatorID string               `json:"-"`
	Role        models.EvaluatorRole `json:"evaluation_type" validate:"required"`
	Scores      map[string]float64   `json:"scores" validate:"required"`
	Comments    string               `json:"comments"`
}

// EvaluationService validates role submissions against the rubric catalog and
// owns the evaluation store semantics: one row per (topic, evaluator, role),
// last write wins.
type EvaluationService struct {
	evaluations evaluationRepo
	guard       accessGuard
	scores      scoreInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEvaluationService constructs EvaluationService.
func NewEvaluationService(evaluations evaluationRepo, guard accessGuard, scores scoreInvalidator, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		evaluations: evaluations,
		guard:       guard,
		scores:      scores,
		validator:   validate,
		logger:      logger,
	}
}

// Submit validates and upserts one evaluator's scored submission. Validation
// and authorization both run before any write.
func (s *EvaluationService) Submit(ctx context.Context, req SubmitEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown evaluation type %q", req.Role))
	}
	if err := s.guard.Authorize(ctx, req.EvaluatorID, req.TopicID, models.SubmitEvaluation(req.Role)); err != nil {
		return nil, err
	}

	criteria := models.CriteriaFor(req.Role)
	for key, score := range req.Scores {
		criterion, ok := models.CriterionFor(req.Role, key)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrUnknownCriterion, fmt.Sprintf("criterion %q does not belong to role %s", key, req.Role))
		}
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > criterion.Max {
			return nil, appErrors.Clone(appErrors.ErrScoreOutOfRange, fmt.Sprintf("criterion %q must be within [0, %.1f]", key, criterion.Max))
		}
	}

	total := 0.0
	complete := true
	scores := make(models.ScoreMap, len(req.Scores))
	for _, criterion := range criteria {
		score, ok := req.Scores[criterion.Key]
		if !ok {
			complete = false
			continue
		}
		scores[criterion.Key] = score
		total += score
	}

	eval := &models.Evaluation{
		TopicID:      req.TopicID,
		StudentID:    req.StudentID,
		EvaluatorID:  req.EvaluatorID,
		Role:         req.Role,
		Scores:       scores,
		Comments:     req.Comments,
		TotalScore:   total,
		HasAllScores: complete,
	}
	if existing, err := s.evaluations.Find(ctx, req.TopicID, req.EvaluatorID, req.Role); err == nil {
		eval.ID = existing.ID
		eval.CreatedAt = existing.CreatedAt
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect evaluation")
	}
	if err := s.evaluations.Upsert(ctx, eval); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store evaluation")
	}
	if s.scores != nil {
		s.scores.Invalidate(ctx, req.TopicID)
	}
	s.logger.Info("evaluation submitted",
		zap.String("topic_id", req.TopicID),
		zap.String("evaluator_id", req.EvaluatorID),
		zap.String("role", string(req.Role)),
		zap.Bool("complete", complete),
	)
	return eval, nil
}

// Get returns the evaluation for the exact (topic, evaluator, role) key, or
// NOT_FOUND when the evaluator has not submitted yet.
func (s *EvaluationService) Get(ctx context.Context, topicID, evaluatorID string, role models.EvaluatorRole) (*models.Evaluation, error) {
	eval, err := s.evaluations.Find(ctx, topicID, evaluatorID, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return eval, nil
}

// ListByTopic returns all evaluations for a topic in deterministic order.
func (s *EvaluationService) ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error) {
	evals, err := s.evaluations.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	return evals, nil
}
