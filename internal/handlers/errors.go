package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-coach/internal/services"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInterviewNotCompleted):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrSessionClosed),
		errors.Is(err, services.ErrFollowUpPending),
		errors.Is(err, services.ErrNoPendingFollowUp),
		errors.Is(err, services.ErrSessionBusy):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrUnsupportedFileType):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
