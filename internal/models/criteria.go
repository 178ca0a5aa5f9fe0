package models

// Criterion is one scored rubric line item for an evaluator role.
type Criterion struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
}

// Rubric tables are closed, versioned constants. The maxima of each role's
// criteria sum to exactly 10.0; changing a table is a schema change, never a
// runtime concern.
var (
	supervisorCriteria = []Criterion{
		{Key: "studentAttitude", Label: "Student attitude and work ethic", Max: 1.0},
		{Key: "problemSolving", Label: "Ability to analyse and solve the problem", Max: 1.0},
		{Key: "format", Label: "Report format and presentation", Max: 1.5},
		{Key: "contentImplementation", Label: "Content and implementation quality", Max: 4.5},
		{Key: "relatedIssues", Label: "Grasp of related issues", Max: 1.0},
		{Key: "practicalApplication", Label: "Practical applicability", Max: 1.0},
	}

	reviewerCriteria = []Criterion{
		{Key: "format", Label: "Report format and presentation", Max: 1.5},
		{Key: "contentQuality", Label: "Content quality", Max: 4.0},
		{Key: "relatedIssues", Label: "Grasp of related issues", Max: 2.0},
		{Key: "practicalApplication", Label: "Practical applicability", Max: 2.0},
		{Key: "bonus", Label: "Bonus points", Max: 0.5},
	}

	committeeCriteria = []Criterion{
		{Key: "presentationClarity", Label: "Presentation clarity", Max: 0.5},
		{Key: "reviewerQa", Label: "Answers to reviewer questions", Max: 1.5},
		{Key: "committeeQa", Label: "Answers to committee questions", Max: 1.5},
		{Key: "attitude", Label: "Attitude during the defense", Max: 1.0},
		{Key: "contentImplementation", Label: "Content and implementation quality", Max: 4.5},
		{Key: "relatedIssues", Label: "Grasp of related issues", Max: 1.0},
	}
)

// CriteriaFor returns the ordered rubric for a role. The returned slice is
// shared and must not be mutated.
func CriteriaFor(role EvaluatorRole) []Criterion {
	switch role {
	case RoleSupervisor:
		return supervisorCriteria
	case RoleReviewer:
		return reviewerCriteria
	case RoleCommittee:
		return committeeCriteria
	}
	return nil
}

// CriterionFor looks up a single criterion of a role by key.
func CriterionFor(role EvaluatorRole, key string) (Criterion, bool) {
	for _, c := range CriteriaFor(role) {
		if c.Key == key {
			return c, true
		}
	}
	return Criterion{}, false
}
