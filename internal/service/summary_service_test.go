package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type mockSummaryRepo struct {
	stored map[string]models.SummaryDocument
}

func summaryKey(topicID string, role models.EvaluatorRole) string {
	return topicID + "|" + string(role)
}

func (m *mockSummaryRepo) Find(ctx context.Context, topicID string, role models.EvaluatorRole) (*models.SummaryDocument, error) {
	doc, ok := m.stored[summaryKey(topicID, role)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &doc, nil
}

func (m *mockSummaryRepo) Upsert(ctx context.Context, doc *models.SummaryDocument) error {
	if m.stored == nil {
		m.stored = make(map[string]models.SummaryDocument)
	}
	if doc.ID == "" {
		doc.ID = "gen-" + summaryKey(doc.TopicID, doc.Role)
	}
	m.stored[summaryKey(doc.TopicID, doc.Role)] = *doc
	return nil
}

func (m *mockSummaryRepo) ListAll(ctx context.Context) ([]models.SummaryDocument, error) {
	var docs []models.SummaryDocument
	for _, doc := range m.stored {
		docs = append(docs, doc)
	}
	return docs, nil
}

func TestSummaryRoundTrip(t *testing.T) {
	repo := &mockSummaryRepo{}
	svc := NewSummaryService(repo, &mockGuard{}, nil)

	payload := json.RawMessage(`{"workingProcess":"steady progress","prosCons":"strong demo","conclusionApprove":true}`)
	err := svc.Upsert(context.Background(), "topic-1", models.RoleSupervisor, "lect-1", payload)
	require.NoError(t, err)

	result, err := svc.Get(context.Background(), "topic-1", models.RoleSupervisor)
	require.NoError(t, err)
	assert.False(t, result.Legacy)
	assert.Equal(t, "lect-1", result.AuthorID)

	decoded, ok := result.Payload.(*models.SupervisorSummaryPayload)
	require.True(t, ok)
	assert.Equal(t, models.SummaryVersion, decoded.Version)
	assert.Equal(t, "steady progress", decoded.WorkingProcess)
	require.NotNil(t, decoded.ConclusionApprove)
	assert.True(t, *decoded.ConclusionApprove)
}

func TestSummaryUpsertReplaces(t *testing.T) {
	repo := &mockSummaryRepo{}
	svc := NewSummaryService(repo, &mockGuard{}, nil)

	require.NoError(t, svc.Upsert(context.Background(), "topic-1", models.RoleReviewer, "lect-2", json.RawMessage(`{"urgency":"high"}`)))
	require.NoError(t, svc.Upsert(context.Background(), "topic-1", models.RoleReviewer, "lect-2", json.RawMessage(`{"urgency":"revised"}`)))

	assert.Len(t, repo.stored, 1, "one live document per (topic, role)")
	result, err := svc.Get(context.Background(), "topic-1", models.RoleReviewer)
	require.NoError(t, err)
	decoded := result.Payload.(*models.ReviewerSummaryPayload)
	assert.Equal(t, "revised", decoded.Urgency)
}

func TestSummaryUpsertDenied(t *testing.T) {
	repo := &mockSummaryRepo{}
	svc := NewSummaryService(repo, &mockGuard{denied: true}, nil)

	err := svc.Upsert(context.Background(), "topic-1", models.RoleSupervisor, "intruder", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.stored)
}

func TestSummaryLegacyBlobFallsBack(t *testing.T) {
	repo := &mockSummaryRepo{stored: map[string]models.SummaryDocument{
		summaryKey("topic-1", models.RoleCommittee): {
			ID:      "doc-1",
			TopicID: "topic-1",
			Role:    models.RoleCommittee,
			Content: "Defense went well overall.",
		},
	}}
	svc := NewSummaryService(repo, &mockGuard{}, nil)

	result, err := svc.Get(context.Background(), "topic-1", models.RoleCommittee)
	require.NoError(t, err)
	assert.True(t, result.Legacy)
	decoded := result.Payload.(*models.CommitteeSummaryPayload)
	assert.Equal(t, "Defense went well overall.", decoded.GeneralRemarks)
}

func TestSummaryUnversionedJSONTreatedAsLegacy(t *testing.T) {
	// A blob that happens to look like JSON but carries no version marker is
	// still legacy text and must survive verbatim.
	raw := `{"note":"imported from the old system"}`
	repo := &mockSummaryRepo{stored: map[string]models.SummaryDocument{
		summaryKey("topic-1", models.RoleSupervisor): {
			ID:      "doc-1",
			TopicID: "topic-1",
			Role:    models.RoleSupervisor,
			Content: raw,
		},
	}}
	svc := NewSummaryService(repo, &mockGuard{}, nil)

	result, err := svc.Get(context.Background(), "topic-1", models.RoleSupervisor)
	require.NoError(t, err)
	assert.True(t, result.Legacy)
	decoded := result.Payload.(*models.SupervisorSummaryPayload)
	assert.Equal(t, raw, decoded.GeneralRemarks)
}

func TestMigrateLegacyPromotesOnlyRawBlobs(t *testing.T) {
	repo := &mockSummaryRepo{}
	svc := NewSummaryService(repo, &mockGuard{}, nil)
	require.NoError(t, svc.Upsert(context.Background(), "topic-1", models.RoleSupervisor, "lect-1", json.RawMessage(`{"prosCons":"fine"}`)))
	repo.stored[summaryKey("topic-2", models.RoleReviewer)] = models.SummaryDocument{
		ID:      "doc-legacy",
		TopicID: "topic-2",
		Role:    models.RoleReviewer,
		Content: "plain text review",
	}

	promoted, err := svc.MigrateLegacy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	result, err := svc.Get(context.Background(), "topic-2", models.RoleReviewer)
	require.NoError(t, err)
	assert.False(t, result.Legacy, "promoted blob now decodes as structured")
	decoded := result.Payload.(*models.ReviewerSummaryPayload)
	assert.Equal(t, "plain text review", decoded.GeneralRemarks)

	again, err := svc.MigrateLegacy(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again, "promotion is idempotent")
}

func TestSummaryGetNotFound(t *testing.T) {
	svc := NewSummaryService(&mockSummaryRepo{}, &mockGuard{}, nil)
	_, err := svc.Get(context.Background(), "topic-1", models.RoleSupervisor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
