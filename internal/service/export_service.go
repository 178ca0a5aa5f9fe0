package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thesisdesk/defense-api/internal/models"
	appErrors "github.com/thesisdesk/defense-api/pkg/errors"
	"github.com/thesisdesk/defense-api/pkg/export"
)

type csvRenderer interface {
	Render(sheet export.ScoreSheet) ([]byte, error)
}

type pdfRenderer interface {
	Render(sheet export.ScoreSheet) ([]byte, error)
}

type topicReader interface {
	TopicAssignment(ctx context.Context, topicID string) (*models.TopicAssignment, error)
}

// ExportResult is a rendered score sheet ready for download.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders a topic's defense grading into a downloadable score
// sheet. Rendering is synchronous; sheets are small.
type ExportService struct {
	evaluations topicEvaluationReader
	topics      topicReader
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(evaluations topicEvaluationReader, topics topicReader, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{evaluations: evaluations, topics: topics, csv: csv, pdf: pdf, logger: logger}
}

// ScoreSheet renders the topic's sheet in the requested format, "pdf" or
// "csv". Every role section appears even when its evaluation is missing so
// the sheet always shows the full rubric.
func (s *ExportService) ScoreSheet(ctx context.Context, topicID, format string) (*ExportResult, error) {
	assignment, err := s.topics.TopicAssignment(ctx, topicID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "topic not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	evals, err := s.evaluations.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}

	sheet := buildScoreSheet(assignment, evals)

	var payload []byte
	var contentType, ext string
	switch strings.ToLower(format) {
	case "csv":
		payload, err = s.csv.Render(sheet)
		contentType, ext = "text/csv", "csv"
	case "", "pdf":
		payload, err = s.pdf.Render(sheet)
		contentType, ext = "application/pdf", "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render score sheet")
	}

	s.logger.Info("score sheet rendered", zap.String("topic_id", topicID), zap.String("format", ext))
	return &ExportResult{
		Payload:     payload,
		ContentType: contentType,
		Filename:    fmt.Sprintf("score-sheet-%s.%s", topicID, ext),
	}, nil
}

func buildScoreSheet(assignment *models.TopicAssignment, evals []models.Evaluation) export.ScoreSheet {
	latest := make(map[models.EvaluatorRole]*models.Evaluation, len(models.EvaluatorRoles))
	for i := range evals {
		eval := &evals[i]
		if current, ok := latest[eval.Role]; !ok || eval.UpdatedAt.After(current.UpdatedAt) {
			latest[eval.Role] = eval
		}
	}

	sheet := export.ScoreSheet{
		TopicID:    assignment.TopicID,
		TopicTitle: assignment.Title,
		StudentID:  assignment.StudentID,
	}
	for _, role := range models.EvaluatorRoles {
		section := export.RoleSection{Role: string(role)}
		eval := latest[role]
		if eval != nil {
			section.Evaluator = eval.EvaluatorID
			section.Comments = eval.Comments
		}
		for _, criterion := range models.CriteriaFor(role) {
			line := export.ScoreLine{Criterion: criterion.Label, Max: criterion.Max}
			if eval != nil {
				if score, ok := eval.Scores[criterion.Key]; ok {
					value := score
					line.Score = &value
				}
			}
			section.Lines = append(section.Lines, line)
		}
		if eval != nil && eval.HasAllScores {
			total := eval.TotalScore
			section.Total = &total
		}
		sheet.Sections = append(sheet.Sections, section)
	}

	aggregate := Aggregate(assignment.TopicID, evals)
	sheet.FinalScore = aggregate.FinalScore
	sheet.Status = string(aggregate.Status)
	return sheet
}
