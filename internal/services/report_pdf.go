package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/interview-coach/internal/models"
)

const (
	maxPDFStrengths   = 5
	maxPDFWeaknesses  = 5
	maxPDFSuggestions = 7
	maxPDFNextSteps   = 5
)

type rgb struct{ r, g, b int }

var (
	colorGood    = rgb{39, 174, 96}
	colorFair    = rgb{230, 126, 34}
	colorPoor    = rgb{192, 57, 43}
	colorHeading = rgb{44, 62, 80}
	colorHeader  = rgb{236, 240, 241}
)

// ScoreColor picks green from 75, amber from 60 and red below.
func ScoreColor(score float64) (r, g, b int) {
	c := colorPoor
	switch {
	case score >= 75:
		c = colorGood
	case score >= 60:
		c = colorFair
	}
	return c.r, c.g, c.b
}

// ReportRenderer renders a PerformanceReport as an A4 PDF.
type ReportRenderer struct{}

func NewReportRenderer() *ReportRenderer {
	return &ReportRenderer{}
}

func (rr *ReportRenderer) Render(report *models.PerformanceReport) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to render report: panic: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(colorHeading.r, colorHeading.g, colorHeading.b)
	pdf.CellFormat(0, 12, "Interview Performance Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	candidate := report.CandidateName
	if candidate == "" {
		candidate = "Candidate"
	}
	writeTable(pdf, tr, [][2]string{
		{"Candidate", candidate},
		{"Target Role", report.TargetRole},
		{"Date", report.InterviewDate.Format("January 2, 2006")},
		{"Duration", fmt.Sprintf("%.1f minutes", report.DurationMinutes)},
	})
	pdf.Ln(6)

	writeHeading(pdf, "Overall Performance")
	pdf.SetFont("Helvetica", "B", 28)
	r, g, b := ScoreColor(report.Scores.Overall)
	pdf.SetTextColor(r, g, b)
	pdf.CellFormat(0, 14, fmt.Sprintf("%.1f / 100", report.Scores.Overall), "", 1, "C", false, 0, "")

	ready := "Not yet"
	if report.ReadyForInterviews {
		ready = "Yes"
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Recommendation: %s  |  Ready for interviews: %s", report.RecommendationLevel, ready)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeHeading(pdf, "Score Breakdown")
	writeTable(pdf, tr, [][2]string{
		{"Confidence", formatScore(report.Scores.Confidence)},
		{"Communication", formatScore(report.Scores.Communication)},
		{"Technical Depth", formatScore(report.Scores.TechnicalDepth)},
		{"STAR Method Usage", formatScore(report.Scores.NarrativeUsage)},
		{"Behavioral Clarity", formatScore(report.Scores.BehavioralClarity)},
	})
	pdf.Ln(4)

	writeList(pdf, tr, "Strengths", report.OverallStrengths, maxPDFStrengths)
	writeList(pdf, tr, "Areas for Improvement", report.OverallWeaknesses, maxPDFWeaknesses)
	writeList(pdf, tr, "Improvement Suggestions", report.ImprovementSuggestions, maxPDFSuggestions)
	writeList(pdf, tr, "Recommended Next Steps", report.RecommendedNextSteps, maxPDFNextSteps)

	if len(report.QuestionEvaluations) > 0 {
		writeHeading(pdf, "Question Summary")
		pdf.SetFont("Helvetica", "", 10)
		for _, qe := range report.QuestionEvaluations {
			line := fmt.Sprintf("Q%d (%s): relevance %.0f, confidence %.0f, depth %.0f, STAR %.0f",
				qe.QuestionID, qe.Persona, qe.RelevanceScore, qe.ConfidenceScore, qe.TechnicalDepthScore, qe.Narrative.Score)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func writeHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(colorHeading.r, colorHeading.g, colorHeading.b)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, rows [][2]string) {
	pdf.SetFillColor(colorHeader.r, colorHeader.g, colorHeader.b)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(55, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

// writeList skips empty sections and caps each at limit items.
func writeList(pdf *fpdf.Fpdf, tr func(string) string, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	if len(items) > limit {
		items = items[:limit]
	}

	writeHeading(pdf, title)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		pdf.MultiCell(0, 6, tr("- "+item), "", "L", false)
	}
	pdf.Ln(3)
}
