package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

// InterviewArchive looks up interviews the worker has persisted.
type InterviewArchive interface {
	FindBySessionID(sessionID string) (*models.InterviewRecord, error)
}

type ReportHandler struct {
	interviews *services.InterviewService
	archive    InterviewArchive
	renderer   *services.ReportRenderer
	log        *zap.Logger
}

func NewReportHandler(
	interviews *services.InterviewService,
	archive InterviewArchive,
	renderer *services.ReportRenderer,
	log *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		interviews: interviews,
		archive:    archive,
		renderer:   renderer,
		log:        logger.Named(log, "report_handler"),
	}
}

// report builds the report from the live session, falling back to the archive once it has been evicted.
func (h *ReportHandler) report(ctx context.Context, sessionID string) (*models.PerformanceReport, error) {
	report, err := h.interviews.GenerateReport(ctx, sessionID)
	if err == nil || !errors.Is(err, services.ErrSessionNotFound) || h.archive == nil {
		return report, err
	}

	record, archiveErr := h.archive.FindBySessionID(sessionID)
	if archiveErr != nil {
		if errors.Is(archiveErr, repositories.ErrInterviewNotFound) {
			return nil, err
		}
		return nil, archiveErr
	}
	if record.Report == nil {
		return nil, services.ErrInterviewNotCompleted
	}

	h.log.Debug("serving archived report", zap.String(logger.FieldSessionID, sessionID))
	return record.Report, nil
}

func (h *ReportHandler) sendPDF(c *fiber.Ctx, report *models.PerformanceReport) error {
	pdfFile, err := h.renderer.Render(report)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="interview_report_%s.pdf"`, report.SessionID))
	return c.Send(pdfFile)
}

// HandleGenerateReport handles POST /generate-report
func (h *ReportHandler) HandleGenerateReport(c *fiber.Ctx) error {
	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if strings.TrimSpace(req.SessionID) == "" {
		return badRequest(c, "session_id is required")
	}

	format := models.ExportFormat(strings.ToLower(string(req.ExportFormat)))
	if format == "" {
		format = models.ExportJSON
	}

	switch format {
	case models.ExportJSON, models.ExportPDF, models.ExportBoth:
	default:
		return badRequest(c, "export_format must be one of json, pdf, both")
	}

	report, err := h.report(c.UserContext(), req.SessionID)
	if err != nil {
		return respondError(c, err)
	}

	switch format {
	case models.ExportPDF:
		return h.sendPDF(c, report)
	case models.ExportBoth:
		_, renderErr := h.renderer.Render(report)
		if renderErr != nil {
			h.log.Warn("failed to render report", zap.String(logger.FieldSessionID, req.SessionID), zap.Error(renderErr))
		}
		return c.JSON(models.ReportBothResponse{
			JSONReport:     report,
			PDFAvailable:   renderErr == nil,
			PDFDownloadURL: "/api/v1/download-pdf/" + req.SessionID,
		})
	default:
		return c.JSON(report)
	}
}

// HandleDownloadPDF handles GET /download-pdf/:id
func (h *ReportHandler) HandleDownloadPDF(c *fiber.Ctx) error {
	report, err := h.report(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return h.sendPDF(c, report)
}
