package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordena-app/ordena-backend/internal/core/upload"
)

type HealthHandler struct {
	uploadService *upload.Service
}

func NewHealthHandler(uploadService *upload.Service) *HealthHandler {
	return &HealthHandler{uploadService: uploadService}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "ordena-api",
		"uploads": h.uploadService.GetProviderName(),
	})
}
