package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/thesisdesk/defense-api/internal/models"
)

// EvaluationRepository owns evaluation row persistence. One row per
// (topic, evaluator, role); resubmission overwrites in place.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository creates a new evaluation repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

const evaluationColumns = `id, topic_id, student_id, evaluator_id, role, scores, comments, total_score, has_all_scores, created_at, updated_at`

// Upsert inserts or replaces the evaluation keyed by (topic, evaluator, role).
// The whole row is written in one statement, so a concurrent reader never sees
// a partially applied score map.
func (r *EvaluationRepository) Upsert(ctx context.Context, eval *models.Evaluation) error {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = now
	}
	eval.UpdatedAt = now
	const query = `INSERT INTO evaluations (id, topic_id, student_id, evaluator_id, role, scores, comments, total_score, has_all_scores, created_at, updated_at)
        VALUES (:id, :topic_id, :student_id, :evaluator_id, :role, :scores, :comments, :total_score, :has_all_scores, :created_at, :updated_at)
        ON CONFLICT (topic_id, evaluator_id, role)
        DO UPDATE SET scores = EXCLUDED.scores, comments = EXCLUDED.comments, total_score = EXCLUDED.total_score, has_all_scores = EXCLUDED.has_all_scores, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, eval); err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	return nil
}

// Find returns the evaluation for the exact (topic, evaluator, role) key.
func (r *EvaluationRepository) Find(ctx context.Context, topicID, evaluatorID string, role models.EvaluatorRole) (*models.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE topic_id = $1 AND evaluator_id = $2 AND role = $3 LIMIT 1`, evaluationColumns)
	var eval models.Evaluation
	if err := r.db.GetContext(ctx, &eval, query, topicID, evaluatorID, role); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find evaluation: %w", err)
	}
	return &eval, nil
}

// ListByTopic returns a topic's evaluations ordered by role then evaluator.
// The ordering is not semantically significant but keeps reads deterministic.
func (r *EvaluationRepository) ListByTopic(ctx context.Context, topicID string) ([]models.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE topic_id = $1
        ORDER BY CASE role WHEN 'SUPERVISOR' THEN 0 WHEN 'REVIEWER' THEN 1 ELSE 2 END, evaluator_id`, evaluationColumns)
	var evals []models.Evaluation
	if err := r.db.SelectContext(ctx, &evals, query, topicID); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evals, nil
}

// ListByEvaluator returns all evaluations an evaluator has submitted.
func (r *EvaluationRepository) ListByEvaluator(ctx context.Context, evaluatorID string) ([]models.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations WHERE evaluator_id = $1 ORDER BY topic_id, role`, evaluationColumns)
	var evals []models.Evaluation
	if err := r.db.SelectContext(ctx, &evals, query, evaluatorID); err != nil {
		return nil, fmt.Errorf("list evaluator evaluations: %w", err)
	}
	return evals, nil
}
