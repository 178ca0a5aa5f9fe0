package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type assignedTopicReader interface {
	AssignedTopics(ctx context.Context, evaluatorID string, from, to *time.Time) ([]models.EvaluatorTask, error)
}

type evaluatorEvaluationReader interface {
	ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.Evaluation, error)
}

// TaskService builds a lecturer's grading worklist from the external
// assignment and schedule facts plus the evaluation store.
type TaskService struct {
	assignments assignedTopicReader
	evaluations evaluatorEvaluationReader
	logger      *zap.Logger
	now         func() time.Time
}

// NewTaskService constructs TaskService.
func NewTaskService(assignments assignedTopicReader, evaluations evaluatorEvaluationReader, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{assignments: assignments, evaluations: evaluations, logger: logger, now: time.Now}
}

// Tasks lists the evaluator's assigned topics with their per-role grading
// status. A topic whose defense session already passed with no submission is
// relabelled NO_SCORE for display; the aggregation engine itself never
// produces that value.
func (s *TaskService) Tasks(ctx context.Context, evaluatorID string, date *time.Time, scope models.TaskScope) ([]models.EvaluatorTask, error) {
	from, to := taskWindow(scope, date, s.now())
	tasks, err := s.assignments.AssignedTopics(ctx, evaluatorID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	evals, err := s.evaluations.ListByEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}

	type key struct {
		topicID string
		role    models.EvaluatorRole
	}
	submitted := make(map[key]*models.Evaluation, len(evals))
	for i := range evals {
		submitted[key{evals[i].TopicID, evals[i].Role}] = &evals[i]
	}

	now := s.now().UTC()
	for i := range tasks {
		task := &tasks[i]
		eval, ok := submitted[key{task.TopicID, task.Role}]
		switch {
		case ok && eval.HasAllScores:
			task.Status = models.StatusCompleted
		case ok:
			task.Status = models.StatusIncomplete
		case task.DefenseDate != nil && task.DefenseDate.Before(now.Truncate(24*time.Hour)):
			task.Status = models.StatusNoScore
		default:
			task.Status = models.StatusPending
		}
	}
	return tasks, nil
}

// taskWindow resolves a scope keyword or explicit date into a defense-date range.
func taskWindow(scope models.TaskScope, date *time.Time, now time.Time) (*time.Time, *time.Time) {
	switch scope {
	case models.TaskScopeToday:
		day := now.UTC().Truncate(24 * time.Hour)
		next := day.Add(24 * time.Hour)
		return &day, &next
	case models.TaskScopeUpcoming:
		day := now.UTC().Truncate(24 * time.Hour)
		return &day, nil
	}
	if date != nil {
		day := date.UTC().Truncate(24 * time.Hour)
		next := day.Add(24 * time.Hour)
		return &day, &next
	}
	return nil, nil
}
