package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

type InterviewHandler struct {
	interviews      *services.InterviewService
	resumeRepo      repositories.ResumeRepository
	prepTime        time.Duration
	answerTimeLimit time.Duration
	log             *zap.Logger
}

func NewInterviewHandler(
	interviews *services.InterviewService,
	resumeRepo repositories.ResumeRepository,
	prepTime time.Duration,
	answerTimeLimit time.Duration,
	log *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		interviews:      interviews,
		resumeRepo:      resumeRepo,
		prepTime:        prepTime,
		answerTimeLimit: answerTimeLimit,
		log:             logger.Named(log, "interview_handler"),
	}
}

// HandleStart handles POST /start-interview
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if strings.TrimSpace(req.SessionID) == "" {
		return badRequest(c, "session_id is required")
	}

	targetRole := strings.TrimSpace(req.TargetRole)
	if targetRole == "" {
		targetRole = services.DefaultTargetRole
	}

	var resume models.ResumeData
	doc, err := h.resumeRepo.FindBySessionID(req.SessionID)
	switch {
	case err == nil:
		resume = doc.Data
	case errors.Is(err, repositories.ErrResumeNotFound):
		h.log.Info("no resume on file, using generic questions", zap.String(logger.FieldSessionID, req.SessionID))
	default:
		return respondError(c, err)
	}

	session, err := h.interviews.Start(c.UserContext(), req.SessionID, resume, targetRole, req.CandidateName)
	if err != nil {
		return respondError(c, err)
	}
	if len(session.Questions) == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "no questions generated",
		})
	}

	return c.JSON(models.StartInterviewResponse{
		Success:           true,
		SessionID:         session.ID,
		Question:          session.Questions[0].Question,
		QuestionNumber:    1,
		TotalQuestions:    len(session.Questions),
		PrepTimeSeconds:   int(h.prepTime.Seconds()),
		AnswerTimeSeconds: int(h.answerTimeLimit.Seconds()),
	})
}

// parseAnswer returns the request or a client-facing validation message.
func parseAnswer(c *fiber.Ctx) (*models.SubmitAnswerRequest, string) {
	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "Invalid request payload"
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, "session_id is required"
	}
	if req.DurationSeconds < 0 {
		return nil, "duration_seconds must not be negative"
	}
	return &req, ""
}

// HandleSubmitAnswer handles POST /submit-answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	req, msg := parseAnswer(c)
	if req == nil {
		return badRequest(c, msg)
	}
	if !services.IsValidAnswer(req.AnswerText) {
		return badRequest(c, "Answer is too short. Please provide at least 5 words.")
	}

	resp, err := h.interviews.SubmitAnswer(c.UserContext(), req.SessionID, req.QuestionID, req.AnswerText, req.DurationSeconds, req.IsVoice)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// HandleSubmitFollowUp handles POST /submit-followup. Short replies are accepted here.
func (h *InterviewHandler) HandleSubmitFollowUp(c *fiber.Ctx) error {
	req, msg := parseAnswer(c)
	if req == nil {
		return badRequest(c, msg)
	}

	resp, err := h.interviews.SubmitFollowUpAnswer(c.UserContext(), req.SessionID, req.AnswerText, req.DurationSeconds)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// HandleStatus handles GET /session/:id
func (h *InterviewHandler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.interviews.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(status)
}

// HandleCancel handles POST /session/:id/cancel
func (h *InterviewHandler) HandleCancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.interviews.Cancel(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"session_id": id,
		"status":     models.SessionCancelled,
	})
}
