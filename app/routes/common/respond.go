package common

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

var validate = validator.New()

// OK writes the uniform success envelope.
func OK(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// Created is OK with a 201 status.
func Created(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
		"message": message,
	})
}

// Fail maps an engine error to its HTTP status and writes the failure
// envelope. Unknown errors are treated as store failures.
func Fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch workflow.KindOf(err) {
	case workflow.KindValidation:
		status = fiber.StatusBadRequest
	case workflow.KindNotFound:
		status = fiber.StatusNotFound
	case workflow.KindInvalidState, workflow.KindConflict:
		status = fiber.StatusConflict
	}

	body := fiber.Map{
		"success": false,
		"error":   err.Error(),
	}
	if we, ok := err.(*workflow.Error); ok && len(we.Fields) > 0 {
		body["fields"] = we.Fields
	}
	return c.Status(status).JSON(body)
}

// BadRequest writes a plain 400 failure.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ParseAndValidate decodes the request body into payload and runs struct
// validation, converting failures into the Validation error kind so the
// caller can hand them straight to Fail.
func ParseAndValidate(c *fiber.Ctx, payload interface{}) error {
	if err := c.BodyParser(payload); err != nil {
		return workflow.Validationf(nil, "invalid request body")
	}
	if err := validate.Struct(payload); err != nil {
		fields := []string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, ve.Field())
			}
		}
		return workflow.Validationf(fields, "validation failed")
	}
	return nil
}

// Actor extracts the authenticated user's id from the request context.
// Returns nil when the route runs without auth (internal jobs, tests).
func Actor(c *fiber.Ctx) *string {
	id, ok := c.Locals("user_id").(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}
