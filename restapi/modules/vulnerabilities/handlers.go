// Package vulnerabilities implements the public REST handlers of the registry: the published
// list, the published check and anonymous submissions.
package vulnerabilities

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
)

// ListPublished returns verified records, highest score first
func ListPublished(repo *store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := repo.ListPublished(c.UserContext())
		if !res.Success {
			return Fail(c, res)
		}
		return c.JSON(fiber.Map{"success": true, "data": res.Data})
	}
}

// CheckPublished reports whether a record exists and is visible to the public.
// A record that exists but is not verified is answered with 200 and success=false.
func CheckPublished(repo *store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		res := repo.GetByID(c.UserContext(), id)
		if !res.Success {
			return Fail(c, res)
		}

		v := res.Data
		if v.Status != model.StatusVerified {
			return c.JSON(fiber.Map{
				"success": false,
				"error":   "Document is not published",
				"id":      id,
				"status":  v.Status,
				"message": fmt.Sprintf("Document status is %q but needs to be %q (Published in the backend)", v.Status, model.StatusVerified),
			})
		}

		return c.JSON(fiber.Map{"success": true, "data": v, "isPublished": true})
	}
}

// Submit stores an anonymous submission as pending
func Submit(repo *store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.SubmissionRequest
		if err := c.BodyParser(&req); err != nil {
			return BadRequest(c, "Invalid request body")
		}

		fields, err := req.Fields()
		if err != nil {
			return BadRequest(c, store.Message(err))
		}

		res := repo.Submit(c.UserContext(), fields)
		if !res.Success {
			return Fail(c, res)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
	}
}
