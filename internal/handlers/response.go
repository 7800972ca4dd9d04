package handlers

import (
	"errors"
	"strings"

	"elegardens/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldError is one entry of a validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success writes the standard success envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error writes the standard error envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ValidationError writes a 400 with a field-level error list.
func ValidationError(c *fiber.Ctx, err error) error {
	var fieldErrors []FieldError
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   strings.ToLower(e.Field()),
				Message: "Field '" + e.Field() + "' failed on the '" + e.Tag() + "' tag",
			})
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  fieldErrors,
	})
}

// serviceError maps a service-layer error to the right status and
// user-facing message. Repository "not found" errors become 404s, the
// typed protocol errors 400s, everything else a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var capErr *services.ImageCapError
	var indexErr *services.ImageIndexError
	var fileErr *services.FileValidationError

	switch {
	case errors.As(err, &capErr), errors.As(err, &indexErr), errors.As(err, &fileErr):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrLastImage):
		return Error(c, fiber.StatusBadRequest, "Cannot delete all images. Product must have at least one image.")
	case errors.Is(err, services.ErrNoProfilePicture):
		return Error(c, fiber.StatusBadRequest, "No profile picture found")
	case strings.Contains(err.Error(), "not found"):
		return Error(c, fiber.StatusNotFound, err.Error())
	default:
		return Error(c, fiber.StatusInternalServerError, err.Error())
	}
}
