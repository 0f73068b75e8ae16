// Package admin implements the REST API handlers for registry administration.
// Every route in this package is mounted behind RequireAuth and RequireRole("admin").
package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/restapi/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/store"
	"go.uber.org/zap"
)

// ListAll returns records in every status
func ListAll(repo *store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := repo.ListAll(c.UserContext())
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}
		return c.JSON(fiber.Map{"success": true, "data": res.Data})
	}
}

// Create stores a record with the requested status, pending by default
func Create(repo *store.Repository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.SubmissionRequest
		if err := c.BodyParser(&req); err != nil {
			return vulnerabilities.BadRequest(c, "Invalid request body")
		}

		fields, err := req.Fields()
		if err != nil {
			return vulnerabilities.BadRequest(c, store.Message(err))
		}
		status, err := req.InitialStatus()
		if err != nil {
			return vulnerabilities.BadRequest(c, store.Message(err))
		}

		res := repo.Create(c.UserContext(), fields, status)
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}

		logger.Info("admin created vulnerable system", zap.String("id", res.Data), zap.String("user", actor(c)))
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      res.Data,
			"data":    fiber.Map{"id": res.Data},
		})
	}
}

// Check returns a record in any status
func Check(repo *store.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := repo.GetByID(c.UserContext(), c.Params("id"))
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}
		return c.JSON(fiber.Map{"success": true, "data": res.Data})
	}
}

// Update writes the fields present in the body
func Update(repo *store.Repository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return vulnerabilities.BadRequest(c, "Invalid request body")
		}

		patch, err := req.Patch()
		if err != nil {
			return vulnerabilities.BadRequest(c, store.Message(err))
		}

		res := repo.Update(c.UserContext(), c.Params("id"), patch)
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}

		logger.Info("admin updated vulnerable system", zap.String("id", res.Data), zap.String("user", actor(c)))
		return c.JSON(fiber.Map{"success": true})
	}
}

// UpdateStatus moves a record through the review workflow
func UpdateStatus(repo *store.Repository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.StatusRequest
		if err := c.BodyParser(&req); err != nil {
			return vulnerabilities.BadRequest(c, "Invalid request body")
		}
		if strings.TrimSpace(req.Status) == "" {
			return vulnerabilities.BadRequest(c, "Status is required")
		}

		// Unknown values fall through to the repository so the client sees the allowed list.
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			status = model.Status(req.Status)
		}

		res := repo.UpdateStatus(c.UserContext(), c.Params("id"), status)
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}

		logger.Info("admin changed status",
			zap.String("id", res.Data), zap.String("status", string(status)), zap.String("user", actor(c)))
		return c.JSON(fiber.Map{"success": true})
	}
}

// Delete removes a record
func Delete(repo *store.Repository, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := repo.Delete(c.UserContext(), c.Params("id"))
		if !res.Success {
			return vulnerabilities.Fail(c, res)
		}

		logger.Info("admin deleted vulnerable system", zap.String("id", res.Data), zap.String("user", actor(c)))
		return c.JSON(fiber.Map{"success": true})
	}
}

func actor(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return "-"
}
