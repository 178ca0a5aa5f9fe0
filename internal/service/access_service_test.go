package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type mockAssignments struct {
	assignment *models.TopicAssignment
	members    []models.CommitteeMember
}

func (m *mockAssignments) TopicAssignment(ctx context.Context, topicID string) (*models.TopicAssignment, error) {
	if m.assignment == nil || m.assignment.TopicID != topicID {
		return nil, sql.ErrNoRows
	}
	return m.assignment, nil
}

func (m *mockAssignments) MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error) {
	return m.members, nil
}

func defenseAssignments() *mockAssignments {
	return &mockAssignments{
		assignment: &models.TopicAssignment{
			TopicID:      "topic-1",
			StudentID:    "student-1",
			SupervisorID: "sup-1",
			ReviewerID:   "rev-1",
		},
		members: []models.CommitteeMember{
			{TopicID: "topic-1", LecturerID: "chair-1", Role: models.CommitteeChairman},
			{TopicID: "topic-1", LecturerID: "sec-1", Role: models.CommitteeSecretary},
			{TopicID: "topic-1", LecturerID: "mem-1", Role: models.CommitteeMemberAt},
		},
	}
}

func TestAuthorizeSubmitEvaluation(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	ctx := context.Background()

	cases := []struct {
		name     string
		identity string
		action   models.DefenseAction
		allowed  bool
	}{
		{"supervisor submits own role", "sup-1", models.SubmitEvaluation(models.RoleSupervisor), true},
		{"reviewer submits own role", "rev-1", models.SubmitEvaluation(models.RoleReviewer), true},
		{"committee member submits committee role", "mem-1", models.SubmitEvaluation(models.RoleCommittee), true},
		{"reviewer cannot submit as supervisor", "rev-1", models.SubmitEvaluation(models.RoleSupervisor), false},
		{"supervisor cannot submit as committee", "sup-1", models.SubmitEvaluation(models.RoleCommittee), false},
		{"stranger denied everywhere", "stranger", models.SubmitEvaluation(models.RoleReviewer), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tc.identity, "topic-1", tc.action)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
			}
		})
	}
}

func TestAuthorizeUpsertSummary(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "sup-1", "topic-1", models.UpsertSummary(models.RoleSupervisor)))
	assert.NoError(t, svc.Authorize(ctx, "rev-1", "topic-1", models.UpsertSummary(models.RoleReviewer)))
	assert.NoError(t, svc.Authorize(ctx, "chair-1", "topic-1", models.UpsertSummary(models.RoleCommittee)))

	err := svc.Authorize(ctx, "mem-1", "topic-1", models.UpsertSummary(models.RoleCommittee))
	require.Error(t, err, "only the chairman writes the committee summary")
	err = svc.Authorize(ctx, "sup-1", "topic-1", models.UpsertSummary(models.RoleReviewer))
	require.Error(t, err)
}

func TestAuthorizeQnAOperations(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, "sec-1", "topic-1", models.AddQuestion))
	assert.NoError(t, svc.Authorize(ctx, "sec-1", "topic-1", models.SetAnswer))
	require.Error(t, svc.Authorize(ctx, "chair-1", "topic-1", models.AddQuestion), "only the secretary writes the log")

	// Every evaluator on the topic may read.
	assert.NoError(t, svc.Authorize(ctx, "sup-1", "topic-1", models.ReadQnA))
	assert.NoError(t, svc.Authorize(ctx, "rev-1", "topic-1", models.ReadQnA))
	assert.NoError(t, svc.Authorize(ctx, "mem-1", "topic-1", models.ReadQnA))
	require.Error(t, svc.Authorize(ctx, "stranger", "topic-1", models.ReadQnA))
}

func TestAuthorizeUnknownTopic(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	err := svc.Authorize(context.Background(), "sup-1", "missing", models.SubmitEvaluation(models.RoleSupervisor))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSecretaryAccess(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	ctx := context.Background()

	ok, err := svc.SecretaryAccess(ctx, "sec-1", "topic-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.SecretaryAccess(ctx, "chair-1", "topic-1")
	require.NoError(t, err)
	assert.False(t, ok, "chairman seat does not grant secretary access")
}

func TestIsCommitteeMember(t *testing.T) {
	svc := NewAccessService(defenseAssignments(), nil)
	ctx := context.Background()

	for _, id := range []string{"chair-1", "sec-1", "mem-1"} {
		ok, err := svc.IsCommitteeMember(ctx, id, "topic-1")
		require.NoError(t, err)
		assert.True(t, ok, id)
	}
	ok, err := svc.IsCommitteeMember(ctx, "sup-1", "topic-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
