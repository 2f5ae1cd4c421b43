package handlers

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Resume    *ResumeHandler
	Interview *InterviewHandler
	Report    *ReportHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts the API under /api/v1. Nil handlers are skipped.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api/v1")

	if h.Health != nil {
		api.Get("/health", h.Health.HandleHealth)
		app.Get("/", h.Health.HandleRoot)
	}

	if h.Resume != nil {
		api.Post("/upload-resume", h.Resume.HandleUpload)
	}

	if h.Interview != nil {
		api.Post("/start-interview", h.Interview.HandleStart)
		api.Post("/submit-answer", h.Interview.HandleSubmitAnswer)
		api.Post("/submit-followup", h.Interview.HandleSubmitFollowUp)
		api.Get("/session/:id", h.Interview.HandleStatus)
		api.Post("/session/:id/cancel", h.Interview.HandleCancel)
	}

	if h.Report != nil {
		api.Post("/generate-report", h.Report.HandleGenerateReport)
		api.Get("/download-pdf/:id", h.Report.HandleDownloadPDF)
	}
}

// ErrorHandler renders unhandled errors as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
