package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders score sheets into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF score sheet with a header block, one criteria table
// per role section and the weighted final score.
func (e *PDFExporter) Render(sheet ScoreSheet) ([]byte, error) {
	if len(sheet.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires at least one role section")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "THESIS DEFENSE SCORE SHEET", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Topic: %s", sheet.TopicTitle), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Student: %s", sheet.StudentID), "", 1, "", false, 0, "")
	pdf.Ln(4)

	for _, section := range sheet.Sections {
		pdf.SetFont("Arial", "B", 11)
		heading := strings.ToUpper(section.Role)
		if section.Evaluator != "" {
			heading = fmt.Sprintf("%s - %s", heading, section.Evaluator)
		}
		pdf.CellFormat(0, 8, heading, "", 1, "", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 7, "Criterion", "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, "Max", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Score", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, line := range section.Lines {
			pdf.CellFormat(120, 7, line.Criterion, "1", 0, "", false, 0, "")
			pdf.CellFormat(35, 7, fmt.Sprintf("%.1f", line.Max), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 7, formatScore(line.Score), "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(120, 7, "Total", "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, "10.0", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, formatScore(section.Total), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		if section.Comments != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(190, 6, fmt.Sprintf("Comments: %s", section.Comments), "", "", false)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("FINAL SCORE: %s (%s)", formatScore(sheet.FinalScore), sheet.Status), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
