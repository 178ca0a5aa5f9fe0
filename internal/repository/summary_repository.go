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

// SummaryRepository owns summary document persistence: one live row per
// (topic, role), true overwrite on upsert.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs repository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Find returns the summary document for (topic, role).
func (r *SummaryRepository) Find(ctx context.Context, topicID string, role models.EvaluatorRole) (*models.SummaryDocument, error) {
	const query = `SELECT id, topic_id, role, author_id, content, created_at, updated_at
        FROM defense_summaries WHERE topic_id = $1 AND role = $2 LIMIT 1`
	var doc models.SummaryDocument
	if err := r.db.GetContext(ctx, &doc, query, topicID, role); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find summary: %w", err)
	}
	return &doc, nil
}

// Upsert replaces the document for (topic, role). No history is kept.
func (r *SummaryRepository) Upsert(ctx context.Context, doc *models.SummaryDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	const query = `INSERT INTO defense_summaries (id, topic_id, role, author_id, content, created_at, updated_at)
        VALUES (:id, :topic_id, :role, :author_id, :content, :created_at, :updated_at)
        ON CONFLICT (topic_id, role)
        DO UPDATE SET author_id = EXCLUDED.author_id, content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// ListAll returns every stored summary document, oldest first. Used by the
// one-shot legacy promotion pass.
func (r *SummaryRepository) ListAll(ctx context.Context) ([]models.SummaryDocument, error) {
	const query = `SELECT id, topic_id, role, author_id, content, created_at, updated_at
        FROM defense_summaries ORDER BY created_at`
	var docs []models.SummaryDocument
	if err := r.db.SelectContext(ctx, &docs, query); err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return docs, nil
}
