package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type qnaRepo interface {
	Insert(ctx context.Context, entry *models.QnAEntry) error
	Find(ctx context.Context, id string) (*models.QnAEntry, error)
	SetAnswer(ctx context.Context, id, answer string, answeredAt time.Time) error
	ListByTopic(ctx context.Context, topicID string) ([]models.QnAEntry, error)
}

type committeeReader interface {
	MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error)
}

// AddQuestionRequest is the payload for appending a defense question.
type AddQuestionRequest struct {
	TopicID      string `json:"topic_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	QuestionerID string `json:"questioner_id" validate:"required"`
	SecretaryID  string `json:"-"`
	Question     string `json:"question"`
}

// QnAService maintains a topic's defense question log. Only the assigned
// secretary writes; any evaluator on the topic may read.
type QnAService struct {
	entries   qnaRepo
	committee committeeReader
	guard     accessGuard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQnAService constructs QnAService.
func NewQnAService(entries qnaRepo, committee committeeReader, guard accessGuard, validate *validator.Validate, logger *zap.Logger) *QnAService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QnAService{entries: entries, committee: committee, guard: guard, validator: validate, logger: logger}
}

// AddQuestion appends a question to the topic's log. The questioner must hold
// a committee seat and the caller must be the assigned secretary; both checks
// run before the row is written.
func (s *QnAService) AddQuestion(ctx context.Context, req AddQuestionRequest) (*models.QnAEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, appErrors.Clone(appErrors.ErrEmptyQuestion, "")
	}
	if err := s.guard.Authorize(ctx, req.SecretaryID, req.TopicID, models.AddQuestion); err != nil {
		return nil, err
	}
	members, err := s.committee.MembersByTopic(ctx, req.TopicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committee")
	}
	questionerSeated := false
	for _, m := range members {
		if m.LecturerID == req.QuestionerID {
			questionerSeated = true
			break
		}
	}
	if !questionerSeated {
		return nil, appErrors.Clone(appErrors.ErrNotCommitteeMember, "")
	}

	entry := &models.QnAEntry{
		TopicID:      req.TopicID,
		StudentID:    req.StudentID,
		QuestionerID: req.QuestionerID,
		SecretaryID:  req.SecretaryID,
		Question:     question,
		QuestionTime: time.Now().UTC(),
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store question")
	}
	s.logger.Info("question recorded", zap.String("topic_id", req.TopicID), zap.String("questioner_id", req.QuestionerID))
	return entry, nil
}

// SetAnswer records the student's answer on an entry. An existing answer is
// overwritten; the secretary owns corrections to the record.
func (s *QnAService) SetAnswer(ctx context.Context, qnaID, answer, secretaryID string) (*models.QnAEntry, error) {
	entry, err := s.entries.Find(ctx, qnaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.guard.Authorize(ctx, secretaryID, entry.TopicID, models.SetAnswer); err != nil {
		return nil, err
	}
	answeredAt := time.Now().UTC()
	if err := s.entries.SetAnswer(ctx, qnaID, answer, answeredAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store answer")
	}
	entry.Answer = &answer
	entry.AnswerTime = &answeredAt
	return entry, nil
}

// ListByTopic returns the topic's log ordered by question time. The reader
// must be an evaluator on the topic.
func (s *QnAService) ListByTopic(ctx context.Context, topicID, readerID string) ([]models.QnAEntry, error) {
	if err := s.guard.Authorize(ctx, readerID, topicID, models.ReadQnA); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return entries, nil
}
