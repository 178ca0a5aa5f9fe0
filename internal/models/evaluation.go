package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScoreMap maps criterion keys to awarded points. It is stored as a JSONB
// column; only keys present in the submission appear in the map.
type ScoreMap map[string]float64

// Value implements driver.Valuer for JSONB storage.
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (m *ScoreMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = ScoreMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported score map source %T", src)
}

// Evaluation is one evaluator's scored submission for a topic. Uniquely keyed
// by (topic, evaluator, role); resubmission replaces the previous row.
type Evaluation struct {
	ID           string        `db:"id" json:"id"`
	TopicID      string        `db:"topic_id" json:"topic_id"`
	StudentID    string        `db:"student_id" json:"student_id"`
	EvaluatorID  string        `db:"evaluator_id" json:"evaluator_id"`
	Role         EvaluatorRole `db:"role" json:"role"`
	Scores       ScoreMap      `db:"scores" json:"scores"`
	Comments     string        `db:"comments" json:"comments"`
	TotalScore   float64       `db:"total_score" json:"total_score"`
	HasAllScores bool          `db:"has_all_scores" json:"has_all_scores"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// EvaluationFilter scopes evaluation queries.
type EvaluationFilter struct {
	TopicID     string
	EvaluatorID string
	Role        EvaluatorRole
}

// FinalScore is the derived aggregate for a topic. Role scores are present
// only when the matching evaluation exists and carries every criterion score.
type FinalScore struct {
	TopicID         string           `json:"topic_id"`
	SupervisorScore *float64         `json:"supervisor_score,omitempty"`
	ReviewerScore   *float64         `json:"reviewer_score,omitempty"`
	CommitteeScore  *float64         `json:"committee_score,omitempty"`
	FinalScore      *float64         `json:"final_score,omitempty"`
	Status          EvaluationStatus `json:"status"`
}

// EvaluatorTask is one row of a lecturer's grading worklist.
type EvaluatorTask struct {
	TopicID     string           `db:"topic_id" json:"topic_id"`
	TopicTitle  string           `db:"topic_title" json:"topic_title"`
	StudentID   string           `db:"student_id" json:"student_id"`
	Role        EvaluatorRole    `db:"role" json:"evaluation_type"`
	Status      EvaluationStatus `json:"evaluation_status"`
	DefenseDate *time.Time       `db:"defense_date" json:"defense_date,omitempty"`
	DefenseTime string           `db:"defense_time" json:"defense_time,omitempty"`
	Room        string           `db:"room" json:"room,omitempty"`
}

// TaskScope filters the evaluator worklist by schedule.
type TaskScope string

const (
	TaskScopeAll      TaskScope = "all"
	TaskScopeToday    TaskScope = "today"
	TaskScopeUpcoming TaskScope = "upcoming"
)
