package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesisdesk/defense-api/internal/models"
)

type mockAssignedTopics struct {
	tasks []models.EvaluatorTask
	from  *time.Time
	to    *time.Time
}

func (m *mockAssignedTopics) AssignedTopics(ctx context.Context, evaluatorID string, from, to *time.Time) ([]models.EvaluatorTask, error) {
	m.from, m.to = from, to
	return m.tasks, nil
}

func TestTasksStatusLabels(t *testing.T) {
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -7)
	future := now.AddDate(0, 0, 7)

	assignments := &mockAssignedTopics{tasks: []models.EvaluatorTask{
		{TopicID: "t-completed", Role: models.RoleSupervisor, DefenseDate: &past},
		{TopicID: "t-partial", Role: models.RoleSupervisor, DefenseDate: &future},
		{TopicID: "t-missed", Role: models.RoleSupervisor, DefenseDate: &past},
		{TopicID: "t-upcoming", Role: models.RoleSupervisor, DefenseDate: &future},
		{TopicID: "t-unscheduled", Role: models.RoleSupervisor},
	}}
	evaluations := &mockEvaluationRepo{stored: map[string]models.Evaluation{
		evalKey("t-completed", "lect-1", models.RoleSupervisor): {
			TopicID: "t-completed", EvaluatorID: "lect-1", Role: models.RoleSupervisor, HasAllScores: true,
		},
		evalKey("t-partial", "lect-1", models.RoleSupervisor): {
			TopicID: "t-partial", EvaluatorID: "lect-1", Role: models.RoleSupervisor, HasAllScores: false,
		},
	}}

	svc := NewTaskService(assignments, evaluations, nil)
	svc.now = func() time.Time { return now }

	tasks, err := svc.Tasks(context.Background(), "lect-1", nil, models.TaskScopeAll)
	require.NoError(t, err)
	require.Len(t, tasks, 5)

	byTopic := make(map[string]models.EvaluationStatus, len(tasks))
	for _, task := range tasks {
		byTopic[task.TopicID] = task.Status
	}
	assert.Equal(t, models.StatusCompleted, byTopic["t-completed"])
	assert.Equal(t, models.StatusIncomplete, byTopic["t-partial"])
	assert.Equal(t, models.StatusNoScore, byTopic["t-missed"], "past defense with no record shown as NO_SCORE")
	assert.Equal(t, models.StatusPending, byTopic["t-upcoming"])
	assert.Equal(t, models.StatusPending, byTopic["t-unscheduled"])
}

func TestTasksScopeWindows(t *testing.T) {
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	day := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	assignments := &mockAssignedTopics{}
	svc := NewTaskService(assignments, &mockEvaluationRepo{}, nil)
	svc.now = func() time.Time { return now }

	_, err := svc.Tasks(context.Background(), "lect-1", nil, models.TaskScopeToday)
	require.NoError(t, err)
	require.NotNil(t, assignments.from)
	require.NotNil(t, assignments.to)
	assert.Equal(t, day, *assignments.from)
	assert.Equal(t, day.Add(24*time.Hour), *assignments.to)

	_, err = svc.Tasks(context.Background(), "lect-1", nil, models.TaskScopeUpcoming)
	require.NoError(t, err)
	assert.Equal(t, day, *assignments.from)
	assert.Nil(t, assignments.to)

	explicit := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	_, err = svc.Tasks(context.Background(), "lect-1", &explicit, models.TaskScopeAll)
	require.NoError(t, err)
	require.NotNil(t, assignments.from)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *assignments.from)

	_, err = svc.Tasks(context.Background(), "lect-1", nil, models.TaskScopeAll)
	require.NoError(t, err)
	assert.Nil(t, assignments.from)
	assert.Nil(t, assignments.to)
}
