package vulnerabilities

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quantumx/qvr-backend/store"
)

// StatusFor maps a repository failure kind onto the HTTP status returned to clients.
func StatusFor(kind store.Kind) int {
	switch kind {
	case store.KindValidation, store.KindBackend:
		return fiber.StatusBadRequest
	case store.KindNotFound:
		return fiber.StatusNotFound
	default:
		// config missing on writes, data integrity and anything unclassified
		return fiber.StatusInternalServerError
	}
}

// Fail writes the standard error envelope for a failed repository result.
func Fail[T any](c *fiber.Ctx, res store.Result[T]) error {
	body := fiber.Map{
		"success": false,
		"error":   res.Error,
	}
	if res.Kind() == store.KindNotFound {
		body["error"] = "Document not found"
		body["id"] = c.Params("id")
	}
	return c.Status(StatusFor(res.Kind())).JSON(body)
}

// BadRequest writes a 400 error envelope
func BadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
