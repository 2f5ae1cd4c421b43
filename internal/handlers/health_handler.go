package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var endpoints = []string{
	"POST /api/v1/upload-resume",
	"POST /api/v1/start-interview",
	"POST /api/v1/submit-answer",
	"POST /api/v1/submit-followup",
	"GET /api/v1/session/:id",
	"POST /api/v1/session/:id/cancel",
	"POST /api/v1/generate-report",
	"GET /api/v1/download-pdf/:id",
	"GET /api/v1/health",
}

type HealthHandler struct {
	service string
	store   string
}

func NewHealthHandler(service, store string) *HealthHandler {
	return &HealthHandler{service: service, store: store}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": h.service,
		"store":   h.store,
		"time":    time.Now(),
	})
}

func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   h.service,
		"version":   "1.0.0",
		"endpoints": endpoints,
	})
}
