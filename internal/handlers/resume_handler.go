package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/repositories"
	"alfredoptarigan/interview-coach/internal/services"
)

const minResumeTextLength = 50

// ResumeAnalyzer turns extracted résumé text into structured data.
type ResumeAnalyzer interface {
	Parse(ctx context.Context, rawText string) models.ResumeData
	DetectTargetRoles(ctx context.Context, resume models.ResumeData) []string
}

type ResumeHandler struct {
	resumeRepo     repositories.ResumeRepository
	storageService services.StorageService
	extractor      services.DocumentExtractor
	analyzer       ResumeAnalyzer
	maxFileSize    int64
	log            *zap.Logger
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	storageService services.StorageService,
	extractor services.DocumentExtractor,
	analyzer ResumeAnalyzer,
	maxFileSize int64,
	log *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:     resumeRepo,
		storageService: storageService,
		extractor:      extractor,
		analyzer:       analyzer,
		maxFileSize:    maxFileSize,
		log:            logger.Named(log, "resume_handler"),
	}
}

// HandleUpload handles POST /upload-resume
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	if file.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	filename, filePath, err := h.storageService.SaveFile(file, "resume")
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			return badRequest(c, "Unsupported file type. Please upload a PDF, DOCX or TXT file.")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	text, err := h.extractor.ExtractFile(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return badRequest(c, fmt.Sprintf("failed to extract text from resume: %v", err))
	}
	if len(strings.TrimSpace(text)) < minResumeTextLength {
		h.storageService.DeleteFile(filename)
		return badRequest(c, "Could not extract enough text from the resume")
	}

	ctx := c.UserContext()
	resume := h.analyzer.Parse(ctx, text)
	roles := h.analyzer.DetectTargetRoles(ctx, resume)

	doc := &models.ResumeDocument{
		ID:               uuid.New(),
		SessionID:        uuid.New().String(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FilePath:         filePath,
		Data:             resume,
		DetectedRoles:    roles,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.resumeRepo.Save(doc); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume record: %v", err),
		})
	}

	h.log.Info("resume uploaded",
		zap.String(logger.FieldSessionID, doc.SessionID),
		zap.String("filename", file.Filename),
		zap.Int("skills", len(resume.Skills)),
		zap.Strings("detected_roles", roles),
	)

	return c.Status(fiber.StatusOK).JSON(models.ResumeUploadResponse{
		SessionID:     doc.SessionID,
		ResumeData:    resume,
		DetectedRoles: roles,
		Message:       "Resume uploaded and parsed successfully",
	})
}
