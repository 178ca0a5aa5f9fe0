package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ScoreLine is one criterion row on a score sheet.
type ScoreLine struct {
	Criterion string
	Max       float64
	Score     *float64
}

// RoleSection groups one evaluator role's lines on the sheet.
type RoleSection struct {
	Role      string
	Evaluator string
	Lines     []ScoreLine
	Total     *float64
	Comments  string
}

// ScoreSheet is the printable view of a topic's defense grading.
type ScoreSheet struct {
	TopicID    string
	TopicTitle string
	StudentID  string
	Sections   []RoleSection
	FinalScore *float64
	Status     string
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

// CSVExporter renders score sheets into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the score sheet. Each role section
// contributes its criterion rows followed by a total row; the final weighted
// score closes the file.
func (e *CSVExporter) Render(sheet ScoreSheet) ([]byte, error) {
	if len(sheet.Sections) == 0 {
		return nil, fmt.Errorf("csv requires at least one role section")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"role", "evaluator", "criterion", "max", "score"}); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, section := range sheet.Sections {
		for _, line := range section.Lines {
			record := []string{section.Role, section.Evaluator, line.Criterion, fmt.Sprintf("%.1f", line.Max), formatScore(line.Score)}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
		if err := writer.Write([]string{section.Role, section.Evaluator, "TOTAL", "10.0", formatScore(section.Total)}); err != nil {
			return nil, fmt.Errorf("write csv total: %w", err)
		}
	}
	if err := writer.Write([]string{"", "", "FINAL", "10.0", formatScore(sheet.FinalScore)}); err != nil {
		return nil, fmt.Errorf("write csv final: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
