package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collegehub_backend/internals/helpers/apperr"
)

func JsonOK(c *fiber.Ctx, message string, data interface{}) error {
	return jsonWithCode(c, fiber.StatusOK, "success", message, data)
}

func JsonCreated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonWithCode(c, fiber.StatusCreated, "success", message, data)
}

func JsonUpdated(c *fiber.Ctx, message string, data interface{}) error {
	return jsonWithCode(c, fiber.StatusOK, "success", message, data)
}

func JsonDeleted(c *fiber.Ctx, message string, data interface{}) error {
	return jsonWithCode(c, fiber.StatusOK, "success", message, data)
}

func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

func jsonWithCode(c *fiber.Ctx, code int, status, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JsonAppError maps the domain error taxonomy (and the usual gorm/fiber
// suspects) to a consistent envelope.
func JsonAppError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonError(c, fiber.StatusNotFound, "record not found")
	}
	return JsonError(c, apperr.HTTPStatus(err), err.Error())
}

// ValidationError renders validator.v10 failures as a field → tag map.
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "error",
		"message": "validation failed",
		"errors":  fields,
	})
}
