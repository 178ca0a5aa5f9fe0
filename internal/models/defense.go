package models

import "time"

// QnAEntry is one question asked during a defense session, recorded by the
// committee secretary. Questions are append-only; the answer may be revised
// by the secretary after the fact.
type QnAEntry struct {
	ID           string     `db:"id" json:"id"`
	TopicID      string     `db:"topic_id" json:"topic_id"`
	StudentID    string     `db:"student_id" json:"student_id"`
	QuestionerID string     `db:"questioner_id" json:"questioner_id"`
	SecretaryID  string     `db:"secretary_id" json:"secretary_id"`
	Question     string     `db:"question" json:"question"`
	Answer       *string    `db:"answer" json:"answer,omitempty"`
	QuestionTime time.Time  `db:"question_time" json:"question_time"`
	AnswerTime   *time.Time `db:"answer_time" json:"answer_time,omitempty"`
}

// CommitteeMember is one lecturer's seat on a topic's defense committee.
// Membership is assigned externally and read-only here.
type CommitteeMember struct {
	CommitteeID  string        `db:"committee_id" json:"committee_id"`
	TopicID      string        `db:"topic_id" json:"topic_id"`
	LecturerID   string        `db:"lecturer_id" json:"lecturer_id"`
	LecturerName string        `db:"lecturer_name" json:"lecturer_name"`
	Role         CommitteeRole `db:"role" json:"role"`
}

// TopicAssignment carries the externally assigned evaluator identities for a
// topic: the supervising and reviewing lecturers.
type TopicAssignment struct {
	TopicID      string `db:"id" json:"topic_id"`
	Title        string `db:"title" json:"title"`
	StudentID    string `db:"student_id" json:"student_id"`
	SupervisorID string `db:"supervisor_id" json:"supervisor_id"`
	ReviewerID   string `db:"reviewer_id" json:"reviewer_id"`
}

// DefenseSession is the scheduled defense slot for a topic, owned by the
// external scheduling system.
type DefenseSession struct {
	TopicID     string     `db:"topic_id" json:"topic_id"`
	DefenseDate *time.Time `db:"defense_date" json:"defense_date,omitempty"`
	DefenseTime string     `db:"defense_time" json:"defense_time,omitempty"`
	Room        string     `db:"room" json:"room,omitempty"`
}

// SecretaryAccess is the response shape for secretary permission checks.
type SecretaryAccess struct {
	HasAccess bool `json:"has_access"`
}
