package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type mockQnARepo struct {
	entries map[string]models.QnAEntry
	order   []string
}

func (m *mockQnARepo) Insert(ctx context.Context, entry *models.QnAEntry) error {
	if m.entries == nil {
		m.entries = make(map[string]models.QnAEntry)
	}
	if entry.ID == "" {
		entry.ID = "q-" + entry.Question
	}
	m.entries[entry.ID] = *entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *mockQnARepo) Find(ctx context.Context, id string) (*models.QnAEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &entry, nil
}

func (m *mockQnARepo) SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error {
	entry, ok := m.entries[id]
	if !ok {
		return sql.ErrNoRows
	}
	entry.Answer = &answer
	entry.AnswerTime = &answeredAt
	m.entries[id] = entry
	return nil
}

func (m *mockQnARepo) ListByTopic(ctx context.Context, topicID string) ([]models.QnAEntry, error) {
	var result []models.QnAEntry
	for _, id := range m.order {
		if entry := m.entries[id]; entry.TopicID == topicID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type mockCommitteeReader struct {
	members []models.CommitteeMember
}

func (m *mockCommitteeReader) MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error) {
	return m.members, nil
}

func seatedCommittee() *mockCommitteeReader {
	return &mockCommitteeReader{members: []models.CommitteeMember{
		{TopicID: "topic-1", LecturerID: "chair-1", Role: models.CommitteeChairman},
		{TopicID: "topic-1", LecturerID: "sec-1", Role: models.CommitteeSecretary},
		{TopicID: "topic-1", LecturerID: "mem-1", Role: models.CommitteeMemberAt},
	}}
}

func TestAddQuestion(t *testing.T) {
	repo := &mockQnARepo{}
	svc := NewQnAService(repo, seatedCommittee(), &mockGuard{}, nil, nil)

	entry, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
		TopicID:      "topic-1",
		StudentID:    "student-1",
		QuestionerID: "mem-1",
		SecretaryID:  "sec-1",
		Question:     "  How does the index handle concurrent writes?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "How does the index handle concurrent writes?", entry.Question)
	assert.False(t, entry.QuestionTime.IsZero())
	assert.Nil(t, entry.Answer)
}

func TestAddQuestionEmptyText(t *testing.T) {
	svc := NewQnAService(&mockQnARepo{}, seatedCommittee(), &mockGuard{}, nil, nil)

	_, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
		TopicID:      "topic-1",
		StudentID:    "student-1",
		QuestionerID: "mem-1",
		SecretaryID:  "sec-1",
		Question:     "   ",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyQuestion.Code, appErrors.FromError(err).Code)
}

func TestAddQuestionQuestionerNotSeated(t *testing.T) {
	repo := &mockQnARepo{}
	svc := NewQnAService(repo, seatedCommittee(), &mockGuard{}, nil, nil)

	_, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
		TopicID:      "topic-1",
		StudentID:    "student-1",
		QuestionerID: "outsider",
		SecretaryID:  "sec-1",
		Question:     "Why this architecture?",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotCommitteeMember.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.entries)
}

func TestAddQuestionDeniedForNonSecretary(t *testing.T) {
	repo := &mockQnARepo{}
	svc := NewQnAService(repo, seatedCommittee(), &mockGuard{denied: true}, nil, nil)

	_, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
		TopicID:      "topic-1",
		StudentID:    "student-1",
		QuestionerID: "mem-1",
		SecretaryID:  "mem-1",
		Question:     "Why this architecture?",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.entries)
}

func TestSetAnswerOverwrites(t *testing.T) {
	repo := &mockQnARepo{}
	svc := NewQnAService(repo, seatedCommittee(), &mockGuard{}, nil, nil)

	entry, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
		TopicID:      "topic-1",
		StudentID:    "student-1",
		QuestionerID: "mem-1",
		SecretaryID:  "sec-1",
		Question:     "What is the runtime complexity?",
	})
	require.NoError(t, err)

	first, err := svc.SetAnswer(context.Background(), entry.ID, "Linear", "sec-1")
	require.NoError(t, err)
	require.NotNil(t, first.Answer)
	assert.Equal(t, "Linear", *first.Answer)

	second, err := svc.SetAnswer(context.Background(), entry.ID, "Linear in the input size", "sec-1")
	require.NoError(t, err)
	require.NotNil(t, second.Answer)
	assert.Equal(t, "Linear in the input size", *second.Answer, "the secretary may revise the record")
}

func TestSetAnswerUnknownQuestion(t *testing.T) {
	svc := NewQnAService(&mockQnARepo{}, seatedCommittee(), &mockGuard{}, nil, nil)
	_, err := svc.SetAnswer(context.Background(), "missing", "answer", "sec-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListByTopicPreservesAskOrder(t *testing.T) {
	repo := &mockQnARepo{}
	svc := NewQnAService(repo, seatedCommittee(), &mockGuard{}, nil, nil)

	for _, q := range []string{"first", "second", "third"} {
		_, err := svc.AddQuestion(context.Background(), AddQuestionRequest{
			TopicID:      "topic-1",
			StudentID:    "student-1",
			QuestionerID: "mem-1",
			SecretaryID:  "sec-1",
			Question:     q,
		})
		require.NoError(t, err)
	}

	entries, err := svc.ListByTopic(context.Background(), "topic-1", "mem-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Question)
	assert.Equal(t, "third", entries[2].Question)
}

func TestListByTopicDenied(t *testing.T) {
	svc := NewQnAService(&mockQnARepo{}, seatedCommittee(), &mockGuard{denied: true}, nil, nil)
	_, err := svc.ListByTopic(context.Background(), "topic-1", "outsider")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
