package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"draftshop/internal/domain"
	applog "draftshop/internal/log"
)

// fail maps domain errors onto HTTP statuses. Storage and decoding errors
// get a generic message so internals never reach the client.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownVariant):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product variant"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "record has not been created yet"})
	}
	applog.Error(c, action+".fail", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}
