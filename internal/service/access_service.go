package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
)

type assignmentReader interface {
	MembersByTopic(ctx context.Context, topicID string) ([]models.CommitteeMember, error)
	TopicAssignment(ctx context.Context, topicID string) (*models.TopicAssignment, error)
}

// AccessService resolves a caller's externally assigned role on a topic and
// authorizes role-gated defense operations. It is a pure check over
// (identity, topic, action): it never mutates state, so callers can rely on
// a denial happening before any write.
type AccessService struct {
	assignments assignmentReader
	logger      *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(assignments assignmentReader, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{assignments: assignments, logger: logger}
}

// Authorize returns nil when identity may perform action on the topic, and a
// FORBIDDEN error otherwise. Unknown topics surface as NOT_FOUND.
func (s *AccessService) Authorize(ctx context.Context, identity, topicID string, action models.DefenseAction) error {
	assignment, err := s.assignments.TopicAssignment(ctx, topicID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic assignment")
	}

	allowed, err := s.permitted(ctx, identity, assignment, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Debug("access denied",
			zap.String("identity", identity),
			zap.String("topic_id", topicID),
			zap.String("action", string(action.Kind)),
			zap.String("role", string(action.Role)),
		)
		return appErrors.Clone(appErrors.ErrForbidden, "no access to this defense operation")
	}
	return nil
}

// SecretaryAccess reports whether identity is the topic's assigned secretary.
func (s *AccessService) SecretaryAccess(ctx context.Context, identity, topicID string) (bool, error) {
	members, err := s.members(ctx, topicID)
	if err != nil {
		return false, err
	}
	return hasSeat(members, identity, models.CommitteeSecretary), nil
}

// IsCommitteeMember reports whether identity holds any seat on the committee.
func (s *AccessService) IsCommitteeMember(ctx context.Context, identity, topicID string) (bool, error) {
	members, err := s.members(ctx, topicID)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m.LecturerID == identity {
			return true, nil
		}
	}
	return false, nil
}

func (s *AccessService) permitted(ctx context.Context, identity string, assignment *models.TopicAssignment, action models.DefenseAction) (bool, error) {
	switch action.Kind {
	case models.ActionSubmitEvaluation:
		switch action.Role {
		case models.RoleSupervisor:
			return identity == assignment.SupervisorID, nil
		case models.RoleReviewer:
			return identity == assignment.ReviewerID, nil
		case models.RoleCommittee:
			return s.IsCommitteeMember(ctx, identity, assignment.TopicID)
		}
		return false, nil
	case models.ActionUpsertSummary:
		switch action.Role {
		case models.RoleSupervisor:
			return identity == assignment.SupervisorID, nil
		case models.RoleReviewer:
			return identity == assignment.ReviewerID, nil
		case models.RoleCommittee:
			members, err := s.members(ctx, assignment.TopicID)
			if err != nil {
				return false, err
			}
			return hasSeat(members, identity, models.CommitteeChairman), nil
		}
		return false, nil
	case models.ActionAddQuestion, models.ActionSetAnswer:
		return s.SecretaryAccess(ctx, identity, assignment.TopicID)
	case models.ActionReadQnA:
		// Reading the log is open to every evaluator on the topic.
		if identity == assignment.SupervisorID || identity == assignment.ReviewerID {
			return true, nil
		}
		return s.IsCommitteeMember(ctx, identity, assignment.TopicID)
	}
	return false, nil
}

func (s *AccessService) members(ctx context.Context, topicID string) ([]models.CommitteeMember, error) {
	members, err := s.assignments.MembersByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committee")
	}
	return members, nil
}

func hasSeat(members []models.CommitteeMember, identity string, role models.CommitteeRole) bool {
	for _, m := range members {
		if m.LecturerID == identity && m.Role == role {
			return true
		}
	}
	return false
}
