package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/thesisdesk/defense-api/internal/models"
)

// CommitteeRepository reads externally assigned defense facts: committee
// seats, topic evaluator assignments and the defense schedule. Nothing here
// is written by this service.
type CommitteeRepository struct {
	db *sqlx.DB
}

// NewCommitteeRepository constructs repository.
func NewCommitteeRepository(db *sqlx.DB) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

// MembersByTopic lists a topic's committee seats with lecturer names.
func (r *CommitteeRepository) MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error) {
	const query = `SELECT dc.id AS committee_id, dc.topic_id, dc.lecturer_id, u.full_name AS lecturer_name, dc.role
        FROM defense_committees dc
        JOIN users u ON u.id = dc.lecturer_id
        WHERE dc.topic_id = $1
        ORDER BY CASE dc.role WHEN 'CHAIRMAN' THEN 0 WHEN 'SECRETARY' THEN 1 ELSE 2 END, u.full_name`
	var members []models.CommitteeMember
	if err := r.db.SelectContext(ctx, &members, query, topicID); err != nil {
		return nil, fmt.Errorf("list committee: %w", err)
	}
	return members, nil
}

// TopicAssignment returns the topic's supervisor/reviewer assignment.
func (r *CommitteeRepository) TopicAssignment(ctx context.Context, topicID string) (*models.TopicAssignment, error) {
	const query = `SELECT id, title, student_id, supervisor_id, reviewer_id FROM topics WHERE id = $1 LIMIT 1`
	var assignment models.TopicAssignment
	if err := r.db.GetContext(ctx, &assignment, query, topicID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find topic assignment: %w", err)
	}
	return &assignment, nil
}

// Session returns the topic's scheduled defense slot, if any.
func (r *CommitteeRepository) Session(ctx context.Context, topicID string) (*models.DefenseSession, error) {
	const query = `SELECT topic_id, defense_date, defense_time, room FROM defense_sessions WHERE topic_id = $1 LIMIT 1`
	var session models.DefenseSession
	if err := r.db.GetContext(ctx, &session, query, topicID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find defense session: %w", err)
	}
	return &session, nil
}

// AssignedTopics lists the topics an evaluator grades, with role and
// schedule, optionally bounded by defense date.
func (r *CommitteeRepository) AssignedTopics(ctx context.Context, evaluatorID string, from, to *time.Time) ([]models.EvaluatorTask, error) {
	query := `SELECT t.id AS topic_id, t.title AS topic_title, t.student_id, a.role, ds.defense_date, COALESCE(ds.defense_time, '') AS defense_time, COALESCE(ds.room, '') AS room
        FROM (
            SELECT id, 'SUPERVISOR' AS role FROM topics WHERE supervisor_id = $1
            UNION ALL
            SELECT id, 'REVIEWER' AS role FROM topics WHERE reviewer_id = $1
            UNION ALL
            SELECT topic_id AS id, 'COMMITTEE' AS role FROM defense_committees WHERE lecturer_id = $1
        ) a
        JOIN topics t ON t.id = a.id
        LEFT JOIN defense_sessions ds ON ds.topic_id = t.id
        WHERE 1=1`
	args := []interface{}{evaluatorID}
	if from != nil {
		query += fmt.Sprintf(" AND ds.defense_date >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND ds.defense_date < $%d", len(args)+1)
		args = append(args, *to)
	}
	query += " ORDER BY ds.defense_date NULLS LAST, t.id, a.role"
	var tasks []models.EvaluatorTask
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list assigned topics: %w", err)
	}
	return tasks, nil
}
