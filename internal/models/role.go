package models

// EvaluatorRole identifies which side of the defense an evaluation comes from.
type EvaluatorRole string

const (
	// RoleSupervisor is the supervising lecturer (GVHD).
	RoleSupervisor EvaluatorRole = "SUPERVISOR"
	// RoleReviewer is the reviewing lecturer (GVPB).
	RoleReviewer EvaluatorRole = "REVIEWER"
	// RoleCommittee is the defense committee (HD).
	RoleCommittee EvaluatorRole = "COMMITTEE"
)

// EvaluatorRoles lists the closed role set in aggregation order.
var EvaluatorRoles = []EvaluatorRole{RoleSupervisor, RoleReviewer, RoleCommittee}

// Valid reports whether the role belongs to the closed set.
func (r EvaluatorRole) Valid() bool {
	switch r {
	case RoleSupervisor, RoleReviewer, RoleCommittee:
		return true
	}
	return false
}

// EvaluationStatus is the derived grading state for a topic.
type EvaluationStatus string

const (
	// StatusPending means some roles have not submitted yet and none is partial.
	StatusPending EvaluationStatus = "PENDING"
	// StatusIncomplete means at least one submitted evaluation is missing scores.
	StatusIncomplete EvaluationStatus = "INCOMPLETE"
	// StatusCompleted means all three roles submitted complete evaluations.
	StatusCompleted EvaluationStatus = "COMPLETED"
	// StatusNoScore is a display relabel of PENDING used by consumers that know
	// grading will not occur (e.g. a defense session already passed with no record).
	StatusNoScore EvaluationStatus = "NO_SCORE"
)

// CommitteeRole labels a lecturer's seat on a defense committee.
type CommitteeRole string

const (
	CommitteeChairman  CommitteeRole = "CHAIRMAN"
	CommitteeSecretary CommitteeRole = "SECRETARY"
	CommitteeMemberAt  CommitteeRole = "MEMBER"
)

// ActionKind enumerates the role-gated operations checked by the access guard.
type ActionKind string

const (
	ActionSubmitEvaluation ActionKind = "SUBMIT_EVALUATION"
	ActionUpsertSummary    ActionKind = "UPSERT_SUMMARY"
	ActionAddQuestion      ActionKind = "ADD_QUESTION"
	ActionSetAnswer        ActionKind = "SET_ANSWER"
	ActionReadQnA          ActionKind = "READ_QNA"
)

// DefenseAction pairs an operation with the evaluator role it targets.
// Role is only meaningful for SubmitEvaluation and UpsertSummary.
type DefenseAction struct {
	Kind ActionKind
	Role EvaluatorRole
}

// SubmitEvaluation builds the action for submitting a role evaluation.
func SubmitEvaluation(role EvaluatorRole) DefenseAction {
	return DefenseAction{Kind: ActionSubmitEvaluation, Role: role}
}

// UpsertSummary builds the action for writing a role summary document.
func UpsertSummary(role EvaluatorRole) DefenseAction {
	return DefenseAction{Kind: ActionUpsertSummary, Role: role}
}

// AddQuestion is the action for appending a defense question.
var AddQuestion = DefenseAction{Kind: ActionAddQuestion}

// SetAnswer is the action for recording an answer on a question.
var SetAnswer = DefenseAction{Kind: ActionSetAnswer}

// ReadQnA is the action for reading a topic's question log.
var ReadQnA = DefenseAction{Kind: ActionReadQnA}
