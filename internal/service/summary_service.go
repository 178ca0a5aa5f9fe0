package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type summaryRepo interface {
	Find(ctx context.Context, topicID string, role models.EvaluatorRole) (*models.SummaryDocument, error)
	Upsert(ctx context.Context, doc *models.SummaryDocument) error
	ListAll(ctx context.Context) ([]models.SummaryDocument, error)
}

// SummaryResult pairs document metadata with its decoded payload. Payload is
// one of the role payload structs.
type SummaryResult struct {
	TopicID   string               `json:"topic_id"`
	Role      models.EvaluatorRole `json:"role"`
	AuthorID  string               `json:"author_id"`
	Legacy    bool                 `json:"legacy,omitempty"`
	Payload   interface{}          `json:"payload"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// SummaryService owns the role summary documents: one structured document per
// (topic, role), single authorized writer, JSON blob encoding with a legacy
// raw-text fallback on read.
type SummaryService struct {
	summaries summaryRepo
	guard     accessGuard
	logger    *zap.Logger
}

// NewSummaryService constructs SummaryService.
func NewSummaryService(summaries summaryRepo, guard accessGuard, logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{summaries: summaries, guard: guard, logger: logger}
}

// Get returns the decoded summary for (topic, role). A blob that does not
// decode as a structured payload is surfaced verbatim in the generalRemarks
// catch-all rather than failing the read.
func (s *SummaryService) Get(ctx context.Context, topicID string, role models.EvaluatorRole) (*SummaryResult, error) {
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown summary role %q", role))
	}
	doc, err := s.summaries.Find(ctx, topicID, role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "summary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load summary")
	}
	payload, legacy := decodeSummary(role, doc.Content)
	return &SummaryResult{
		TopicID:   doc.TopicID,
		Role:      doc.Role,
		AuthorID:  doc.AuthorID,
		Legacy:    legacy,
		Payload:   payload,
		UpdatedAt: doc.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// Upsert encodes and stores the payload, replacing any prior document for
// (topic, role). Only the role's single authorized identity may write; the
// guard runs before any encoding or storage. Unknown fields in rawPayload are
// dropped silently.
func (s *SummaryService) Upsert(ctx context.Context, topicID string, role models.EvaluatorRole, authorID string, rawPayload json.RawMessage) error {
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown summary role %q", role))
	}
	if err := s.guard.Authorize(ctx, authorID, topicID, models.UpsertSummary(role)); err != nil {
		return err
	}

	payload := newPayload(role)
	if len(rawPayload) > 0 {
		if err := json.Unmarshal(rawPayload, payload); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid summary payload")
		}
	}
	stampVersion(payload)

	content, err := json.Marshal(payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode summary")
	}
	doc := &models.SummaryDocument{
		TopicID:  topicID,
		Role:     role,
		AuthorID: authorID,
		Content:  string(content),
	}
	if existing, err := s.summaries.Find(ctx, topicID, role); err == nil {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	} else if err != sql.ErrNoRows {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect summary")
	}
	if err := s.summaries.Upsert(ctx, doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store summary")
	}
	s.logger.Info("summary upserted", zap.String("topic_id", topicID), zap.String("role", string(role)), zap.String("author_id", authorID))
	return nil
}

// MigrateLegacy promotes every stored raw-text blob to the structured shape.
// Intended as a one-shot administrative pass; structured documents are left
// untouched. Returns the number of promoted documents.
func (s *SummaryService) MigrateLegacy(ctx context.Context) (int, error) {
	docs, err := s.summaries.ListAll(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list summaries")
	}
	promoted := 0
	for i := range docs {
		doc := &docs[i]
		payload, legacy := decodeSummary(doc.Role, doc.Content)
		if !legacy {
			continue
		}
		content, err := json.Marshal(payload)
		if err != nil {
			return promoted, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode promoted summary")
		}
		doc.Content = string(content)
		if err := s.summaries.Upsert(ctx, doc); err != nil {
			return promoted, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store promoted summary")
		}
		promoted++
	}
	if promoted > 0 {
		s.logger.Info("legacy summaries promoted", zap.Int("count", promoted))
	}
	return promoted, nil
}

func newPayload(role models.EvaluatorRole) interface{} {
	switch role {
	case models.RoleSupervisor:
		return &models.SupervisorSummaryPayload{}
	case models.RoleReviewer:
		return &models.ReviewerSummaryPayload{}
	default:
		return &models.CommitteeSummaryPayload{}
	}
}

func stampVersion(payload interface{}) {
	switch p := payload.(type) {
	case *models.SupervisorSummaryPayload:
		p.Version = models.SummaryVersion
	case *models.ReviewerSummaryPayload:
		p.Version = models.SummaryVersion
	case *models.CommitteeSummaryPayload:
		p.Version = models.SummaryVersion
	}
}

// decodeSummary attempts the structured decode and falls back to treating the
// blob as legacy raw text in the generalRemarks field. The bool result is
// true for the legacy path.
func decodeSummary(role models.EvaluatorRole, content string) (interface{}, bool) {
	payload := newPayload(role)
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), payload); err == nil && payloadVersion(payload) > 0 {
			return payload, false
		}
	}
	payload = newPayload(role)
	stampVersion(payload)
	switch p := payload.(type) {
	case *models.SupervisorSummaryPayload:
		p.GeneralRemarks = content
	case *models.ReviewerSummaryPayload:
		p.GeneralRemarks = content
	case *models.CommitteeSummaryPayload:
		p.GeneralRemarks = content
	}
	return payload, true
}

func payloadVersion(payload interface{}) int {
	switch p := payload.(type) {
	case *models.SupervisorSummaryPayload:
		return p.Version
	case *models.ReviewerSummaryPayload:
		return p.Version
	case *models.CommitteeSummaryPayload:
		return p.Version
	}
	return 0
}
