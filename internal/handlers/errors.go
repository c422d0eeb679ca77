package handlers

import (
	"errors"
	"log"

	"catalogo/internal/repositories"
	"catalogo/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service and repository errors to HTTP responses.
func respondError(c *fiber.Ctx, err error, message string) error {
	if verr, ok := services.IsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   services.Describe(err),
		})
	}
}
