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

// QnARepository owns defense question/answer rows. Questions are append-only;
// answers are set through a single-row update.
type QnARepository struct {
	db *sqlx.DB
}

// NewQnARepository constructs repository.
func NewQnARepository(db *sqlx.DB) *QnARepository {
	return &QnARepository{db: db}
}

// Insert appends a new question entry.
func (r *QnARepository) Insert(ctx context.Context, entry *models.QnAEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.QuestionTime.IsZero() {
		entry.QuestionTime = time.Now().UTC()
	}
	const query = `INSERT INTO defense_qna (id, topic_id, student_id, questioner_id, secretary_id, question, answer, question_time, answer_time)
        VALUES (:id, :topic_id, :student_id, :questioner_id, :secretary_id, :question, :answer, :question_time, :answer_time)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// Find returns a single entry by id.
func (r *QnARepository) Find(ctx context.Context, id string) (*models.QnAEntry, error) {
	const query = `SELECT id, topic_id, student_id, questioner_id, secretary_id, question, answer, question_time, answer_time
        FROM defense_qna WHERE id = $1 LIMIT 1`
	var entry models.QnAEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &entry, nil
}

// SetAnswer records or revises the answer on an entry.
func (r *QnARepository) SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error {
	const query = `UPDATE defense_qna SET answer = $2, answer_time = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, answer, answeredAt)
	if err != nil {
		return fmt.Errorf("set answer: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByTopic returns a topic's entries ordered by question time ascending.
func (r *QnARepository) ListByTopic(ctx context.Context, topicID string) ([]models.QnAEntry, error) {
	const query = `SELECT id, topic_id, student_id, questioner_id, secretary_id, question, answer, question_time, answer_time
        FROM defense_qna WHERE topic_id = $1 ORDER BY question_time`
	var entries []models.QnAEntry
	if err := r.db.SelectContext(ctx, &entries, query, topicID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return entries, nil
}
