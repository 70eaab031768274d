package handler

import (
	"github.com/gofiber/fiber/v2"

	"innoventory-ws/internal/service"
	"innoventory-ws/internal/stock"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

// GetSettings returns the global percentages. When no row exists the
// fallback percentages are reported with configured=false.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Current(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if settings == nil {
		return c.JSON(fiber.Map{
			"configured":        false,
			"low_percentage":    stock.FallbackLowPercentage,
			"medium_percentage": stock.FallbackMediumPercentage,
		})
	}
	return c.JSON(fiber.Map{
		"configured":        true,
		"low_percentage":    settings.LowPercentage,
		"medium_percentage": settings.MediumPercentage,
		"updated_at":        settings.UpdatedAt,
		"updated_by":        settings.UpdatedBy,
	})
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req service.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	settings, err := h.service.Update(c.UserContext(), req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings updated", "data": settings})
}
