package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

// Final score weights: supervisor 25%, reviewer 50%, committee 25%.
// The formula is fixed and not configurable.
const (
	weightSupervisor = 1.0
	weightReviewer   = 2.0
	weightCommittee  = 1.0
	weightDivisor    = 4.0
)

type topicEvaluationReader interface {
	ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error)
}

// ScoreService derives the weighted final score and status for a topic from
// its role evaluations. It is strictly read-only: two calls with no
// intervening writes return identical results.
type ScoreService struct {
	evaluations topicEvaluationReader
	cache       *CacheService
	logger      *zap.Logger
}

// NewScoreService constructs ScoreService.
func NewScoreService(evaluations topicEvaluationReader, cache *CacheService, logger *zap.Logger) *ScoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{evaluations: evaluations, cache: cache, logger: logger}
}

func scoreCacheKey(topicID string) string {
	return fmt.Sprintf("defense:score:%s", topicID)
}

// FinalScoreFor computes the aggregate for a topic. A role contributes its
// score only when its evaluation exists and carries every criterion; the
// final score is defined only when all three roles contribute.
func (s *ScoreService) FinalScoreFor(ctx context.Context, topicID string) (*models.FinalScore, error) {
	if s.cache.Enabled() {
		var cached models.FinalScore
		if hit, err := s.cache.Get(ctx, scoreCacheKey(topicID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	evals, err := s.evaluations.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}

	result := Aggregate(topicID, evals)

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, scoreCacheKey(topicID), result, 0); err != nil {
			s.logger.Warn("final score cache write failed", zap.String("topic_id", topicID), zap.Error(err))
		}
	}
	return result, nil
}

// Invalidate drops the cached aggregate for a topic. Called after every
// evaluation write; failures only cost a recomputation.
func (s *ScoreService) Invalidate(ctx context.Context, topicID string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.InvalidateKey(ctx, scoreCacheKey(topicID)); err != nil {
		s.logger.Warn("final score cache invalidate failed", zap.String("topic_id", topicID), zap.Error(err))
	}
}

// Aggregate folds a topic's evaluations into its final score and status.
// This is the sole producer of EvaluationStatus values.
func Aggregate(topicID string, evals []models.Evaluation) *models.FinalScore {
	// At most one evaluation per role; if duplicates ever appear despite the
	// upsert key, keep the most recently updated.
	latest := make(map[models.EvaluatorRole]*models.Evaluation, len(models.EvaluatorRoles))
	for i := range evals {
		eval := &evals[i]
		if current, ok := latest[eval.Role]; !ok || eval.UpdatedAt.After(current.UpdatedAt) {
			latest[eval.Role] = eval
		}
	}

	result := &models.FinalScore{TopicID: topicID}
	anyIncomplete := false
	for _, role := range models.EvaluatorRoles {
		eval, ok := latest[role]
		if !ok {
			continue
		}
		if !eval.HasAllScores {
			anyIncomplete = true
			continue
		}
		score := eval.TotalScore
		switch role {
		case models.RoleSupervisor:
			result.SupervisorScore = &score
		case models.RoleReviewer:
			result.ReviewerScore = &score
		case models.RoleCommittee:
			result.CommitteeScore = &score
		}
	}

	switch {
	case result.SupervisorScore != nil && result.ReviewerScore != nil && result.CommitteeScore != nil:
		final := (*result.SupervisorScore*weightSupervisor + *result.ReviewerScore*weightReviewer + *result.CommitteeScore*weightCommittee) / weightDivisor
		result.FinalScore = &final
		result.Status = models.StatusCompleted
	case anyIncomplete:
		result.Status = models.StatusIncomplete
	default:
		// No record at all, or a strict subset of complete records: simply
		// awaiting the remaining roles. NO_SCORE is a display-layer relabel
		// applied by consumers, never produced here.
		result.Status = models.StatusPending
	}
	return result
}
