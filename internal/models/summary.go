package models

import "time"

// SummaryVersion discriminates structured summary blobs from legacy raw text.
const SummaryVersion = 1

// SummaryDocument is a role-authored structured remark on a topic, one live
// row per (topic, role). Content holds the encoded payload blob.
type SummaryDocument struct {
	ID        string        `db:"id" json:"id"`
	TopicID   string        `db:"topic_id" json:"topic_id"`
	Role      EvaluatorRole `db:"role" json:"role"`
	AuthorID  string        `db:"author_id" json:"author_id"`
	Content   string        `db:"content" json:"-"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// SummaryConclusion is the shared approve/reject verdict carried by every
// role's summary payload.
type SummaryConclusion struct {
	ConclusionApprove *bool  `json:"conclusionApprove,omitempty"`
	ConclusionNote    string `json:"conclusionNote,omitempty"`
}

// SupervisorSummaryPayload is the supervisor's narrative remark set.
type SupervisorSummaryPayload struct {
	Version        int    `json:"version"`
	WorkingProcess string `json:"workingProcess,omitempty"`
	ProsCons       string `json:"prosCons,omitempty"`
	GeneralRemarks string `json:"generalRemarks,omitempty"`
	SummaryConclusion
}

// ReviewerSummaryPayload is the reviewer's sectioned written review.
type ReviewerSummaryPayload struct {
	Version            int    `json:"version"`
	Urgency            string `json:"urgency,omitempty"`
	Objectives         string `json:"objectives,omitempty"`
	Methodology        string `json:"methodology,omitempty"`
	ScientificResults  string `json:"scientificResults,omitempty"`
	PracticalValue     string `json:"practicalValue,omitempty"`
	StructureFormat    string `json:"structureFormat,omitempty"`
	ContentQuality     string `json:"contentQuality,omitempty"`
	RelatedIssues      string `json:"relatedIssues,omitempty"`
	ProsCons           string `json:"prosCons,omitempty"`
	Questions          string `json:"questions,omitempty"`
	WritingQuality     string `json:"writingQuality,omitempty"`
	Originality        string `json:"originality,omitempty"`
	GeneralRemarks     string `json:"generalRemarks,omitempty"`
	SummaryConclusion
}

// CommitteeSummaryPayload is the committee's defense-session remark set.
type CommitteeSummaryPayload struct {
	Version             int    `json:"version"`
	PresentationClarity string `json:"presentationClarity,omitempty"`
	QaQuality           string `json:"qaQuality,omitempty"`
	Attitude            string `json:"attitude,omitempty"`
	ContentQuality      string `json:"contentQuality,omitempty"`
	GeneralRemarks      string `json:"generalRemarks,omitempty"`
	SummaryConclusion
}
